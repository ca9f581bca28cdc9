// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package upstream

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against an *Error.
var (
	// ErrTimeout means the upstream did not answer within the fetch timeout.
	ErrTimeout = errors.New("upstream timeout")

	// ErrUnreachable means the upstream could not be contacted: DNS, connect,
	// TLS or an open circuit breaker.
	ErrUnreachable = errors.New("upstream unreachable")

	// ErrBodyTooLarge means the response body exceeded the configured cap.
	ErrBodyTooLarge = errors.New("upstream body too large")
)

// ErrorKind classifies an upstream failure.
type ErrorKind string

const (
	ErrorKindStatus      ErrorKind = "status" // upstream answered with 5xx
	ErrorKindTimeout     ErrorKind = "timeout"
	ErrorKindUnreachable ErrorKind = "unreachable"
	ErrorKindBreakerOpen ErrorKind = "breaker_open"
	ErrorKindTooLarge    ErrorKind = "too_large"
	ErrorKindRequest     ErrorKind = "request" // request could not be built
)

// maxErrorBody bounds Error.Body so error envelopes stay small.
const maxErrorBody = 512

// Error describes a failed upstream fetch.
//
// Status and Body are set only for ErrorKindStatus.
type Error struct {
	Kind   ErrorKind
	Status int
	URL    string
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorKindStatus:
		return fmt.Sprintf("upstream %s returned %d", e.URL, e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("upstream %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("upstream %s: %s", e.URL, e.Kind)
	}
}

// Unwrap exposes the matching sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	switch e.Kind {
	case ErrorKindTimeout:
		errs = append(errs, ErrTimeout)
	case ErrorKindUnreachable, ErrorKindBreakerOpen:
		errs = append(errs, ErrUnreachable)
	case ErrorKindTooLarge:
		errs = append(errs, ErrBodyTooLarge)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
