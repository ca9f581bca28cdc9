// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestLimiter(clock *fakeClock) *Limiter {
	return New(Config{Limit: 100, Window: time.Minute, Now: clock.Now})
}

func TestLimiter_HundredThenReject(t *testing.T) {
	clock := &fakeClock{now: time.Unix(10000, 0)}
	l := newTestLimiter(clock)

	for i := 0; i < 100; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("call %d rejected, want accepted", i+1)
		}
		clock.Advance(100 * time.Millisecond)
	}

	if l.Allow("1.2.3.4") {
		t.Error("101st call accepted, want rejected")
	}

	// 60s after the first call, the first timestamp leaves the window.
	clock.Advance(time.Minute - 100*100*time.Millisecond)
	if !l.Allow("1.2.3.4") {
		t.Error("call after window slid past first request rejected, want accepted")
	}
}

func TestLimiter_RejectedAttemptNotRecorded(t *testing.T) {
	clock := &fakeClock{now: time.Unix(10000, 0)}
	l := New(Config{Limit: 2, Window: time.Minute, Now: clock.Now})

	l.Allow("c")
	l.Allow("c")
	for i := 0; i < 10; i++ {
		if l.Allow("c") {
			t.Fatal("over-budget call accepted")
		}
	}

	clock.Advance(time.Minute)
	if !l.Allow("c") || !l.Allow("c") {
		t.Error("rejected attempts must not consume budget in the next window")
	}
}

func TestLimiter_ClientsIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(10000, 0)}
	l := New(Config{Limit: 1, Window: time.Minute, Now: clock.Now})

	if !l.Allow("a") {
		t.Fatal("first call for a rejected")
	}
	if !l.Allow("b") {
		t.Error("client b should have its own budget")
	}
	if l.Allow("a") {
		t.Error("second call for a accepted")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	clock := &fakeClock{now: time.Unix(10000, 0)}
	l := New(Config{Limit: 3, Window: time.Minute, Now: clock.Now})

	if got := l.Remaining("x"); got != 3 {
		t.Errorf("Remaining() = %d, want 3", got)
	}
	l.Allow("x")
	if got := l.Remaining("x"); got != 2 {
		t.Errorf("Remaining() = %d, want 2", got)
	}
}

func TestLimiter_EvictsLeastRecentlySeenClient(t *testing.T) {
	clock := &fakeClock{now: time.Unix(10000, 0)}
	l := New(Config{Limit: 1, Window: time.Hour, MaxClients: 3, Now: clock.Now})

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("c%d", i))
		clock.Advance(time.Second)
	}
	l.Allow("c3")

	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
	// c0 was evicted, so it gets a fresh budget.
	if !l.Allow("c0") {
		t.Error("evicted client should be accepted again")
	}
}

func TestClientID(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"forwarded header wins", "203.0.113.7, 10.0.0.1", "10.0.0.1:1234", "203.0.113.7, 10.0.0.1"},
		{"socket address", "", "192.0.2.1:5555", "192.0.2.1"},
		{"address without port", "", "192.0.2.1", "192.0.2.1"},
		{"unknown", "", "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/filter", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientID(r); got != tt.want {
				t.Errorf("ClientID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	clock := &fakeClock{now: time.Unix(10000, 0)}
	l := New(Config{Limit: 1, Window: time.Minute, Now: clock.Now})

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	h := l.Middleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})(next)

	send := func(method string) int {
		r := httptest.NewRequest(method, "/api/filter", nil)
		r.RemoteAddr = "192.0.2.9:1000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	if code := send(http.MethodGet); code != http.StatusOK {
		t.Errorf("first GET = %d, want 200", code)
	}
	if code := send(http.MethodGet); code != http.StatusTooManyRequests {
		t.Errorf("second GET = %d, want 429", code)
	}
	if code := send(http.MethodOptions); code != http.StatusOK {
		t.Errorf("OPTIONS = %d, want 200 (preflight bypasses limiter)", code)
	}
	if calls != 2 {
		t.Errorf("next called %d times, want 2", calls)
	}
}
