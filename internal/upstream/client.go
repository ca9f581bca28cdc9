// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/metrics"
)

// Kind selects the header profile and breaker for a fetch.
type Kind string

const (
	KindAPI   Kind = "api"
	KindImage Kind = "image"
	KindKodik Kind = "kodik" // Kodik catalogue and link resolver
)

const (
	// DefaultTimeout bounds a single upstream fetch, body included.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxBodyBytes caps how much of an upstream body is buffered.
	DefaultMaxBodyBytes int64 = 20 << 20
)

// Header values sent upstream. The image host rejects requests that do not
// look like a browser loading an <img>.
const (
	ImageUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	APIUserAgent   = "AnimeSearchProxy/1.0 (Personal Use)"
)

var imageHeaders = map[string]string{
	"User-Agent":      ImageUserAgent,
	"Accept":          "image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9,ru;q=0.8",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
	"Referer":         "https://animelib-api.vercel.app/",
	"Sec-Fetch-Dest":  "image",
	"Sec-Fetch-Mode":  "no-cors",
	"Sec-Fetch-Site":  "cross-site",
}

var apiHeaders = map[string]string{
	"User-Agent": APIUserAgent,
	"Accept":     "application/json",
}

// forwardedHeaders are the only client headers copied to the upstream request.
var forwardedHeaders = []string{"Authorization", "Range"}

// Request is a single upstream GET.
type Request struct {
	Kind Kind
	URL  string

	// Header holds the inbound client headers. Only Authorization and Range
	// are forwarded.
	Header http.Header
}

// Response is a fully buffered upstream response with a status below 500.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	URL    string
}

// ContentType returns the Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Config configures a Client.
type Config struct {
	Timeout        time.Duration
	MaxBodyBytes   int64
	BreakerEnabled bool

	// HTTPClient overrides the transport. Its Timeout is ignored; Config.Timeout
	// is applied through the request context.
	HTTPClient *http.Client
}

// Client fetches from the metadata API and the image host.
//
// Every fetch is detached from the caller's cancellation and bounded by
// Config.Timeout, so a client that disconnects does not abort a fetch other
// requests may be waiting on. There are no retries.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	http     *http.Client
	timeout  time.Duration
	maxBody  int64
	breakers map[Kind]*gobreaker.CircuitBreaker[*Response]
}

// New creates a Client. Zero values in cfg take the package defaults.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 32,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	c := &Client{
		http:    httpClient,
		timeout: cfg.Timeout,
		maxBody: cfg.MaxBodyBytes,
	}
	if cfg.BreakerEnabled {
		c.breakers = map[Kind]*gobreaker.CircuitBreaker[*Response]{
			KindAPI:   newBreaker("upstream-api"),
			KindImage: newBreaker("upstream-image"),
			KindKodik: newBreaker("upstream-kodik"),
		}
	}
	return c
}

// Fetch performs req.
//
// Statuses below 500 are returned as a *Response with a nil error, 4xx
// included. Statuses of 500 and above, timeouts and transport failures are
// returned as *Error.
func (c *Client) Fetch(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.execute(ctx, req)
	metrics.RecordUpstream(string(req.Kind), outcome(resp, err), time.Since(start))

	if err != nil {
		var uerr *Error
		if errors.As(err, &uerr) {
			uerr.URL = redactURL(uerr.URL)
		}
		logging.Ctx(ctx).Debug().
			Str("kind", string(req.Kind)).
			Str("url", logging.SanitizeValue(redactURL(req.URL), 256)).
			Err(err).
			Msg("Upstream fetch failed")
	}
	return resp, err
}

// redactURL masks credentials carried in the query string.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	q := u.Query()
	if q.Get("token") == "" {
		return raw
	}
	q.Set("token", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) execute(ctx context.Context, req Request) (*Response, error) {
	cb, ok := c.breakers[req.Kind]
	if !ok {
		return c.checkedDo(ctx, req)
	}

	resp, err := cb.Execute(func() (*Response, error) {
		return c.checkedDo(ctx, req)
	})
	if err != nil && isRejection(err) {
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "rejected").Inc()
		return nil, &Error{Kind: ErrorKindBreakerOpen, URL: req.URL, Err: err}
	}
	if err != nil {
		metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "success").Inc()
	return resp, nil
}

// checkedDo performs the request and turns 5xx into an *Error.
func (c *Client) checkedDo(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status >= http.StatusInternalServerError {
		return nil, &Error{
			Kind:   ErrorKindStatus,
			Status: resp.Status,
			URL:    req.URL,
			Body:   truncate(resp.Body, maxErrorBody),
		}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, http.NoBody)
	if err != nil {
		return nil, &Error{Kind: ErrorKindRequest, URL: req.URL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	profile := apiHeaders
	if req.Kind == KindImage {
		profile = imageHeaders
	}
	for name, value := range profile {
		httpReq.Header.Set(name, value)
	}
	for _, name := range forwardedHeaders {
		if value := req.Header.Get(name); value != "" {
			httpReq.Header.Set(name, value)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, classifyTransportError(ctx, req.URL, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, &Error{Kind: ErrorKindTooLarge, URL: req.URL, Err: fmt.Errorf("body exceeds %d bytes", c.maxBody)}
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
		URL:    req.URL,
	}, nil
}

func classifyTransportError(ctx context.Context, rawURL string, err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: ErrorKindTimeout, URL: rawURL, Err: err}
	}
	return &Error{Kind: ErrorKindUnreachable, URL: rawURL, Err: err}
}

// outcome labels a fetch result for animeproxy_upstream_requests_total.
func outcome(resp *Response, err error) string {
	if err == nil {
		if resp.Status >= http.StatusBadRequest {
			return "client_error"
		}
		return "ok"
	}
	var uerr *Error
	if !errors.As(err, &uerr) {
		return "error"
	}
	switch uerr.Kind {
	case ErrorKindStatus:
		return "server_error"
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindUnreachable:
		return "unreachable"
	case ErrorKindBreakerOpen:
		return "rejected"
	default:
		return "error"
	}
}
