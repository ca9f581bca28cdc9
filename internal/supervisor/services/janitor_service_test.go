// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/animeproxy/internal/cache"
)

type countingSweeper struct {
	sweeps atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.sweeps.Add(1)
	return 1
}

func (c *countingSweeper) Len() int { return 0 }

func TestCacheJanitorService_Interface(t *testing.T) {
	var _ suture.Service = (*CacheJanitorService)(nil)
	var _ Sweeper = (*cache.Cache)(nil)
}

func TestNewCacheJanitorService_DefaultInterval(t *testing.T) {
	j := NewCacheJanitorService(&countingSweeper{}, 0)
	if j.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", j.interval)
	}
	if j.String() != "cache-janitor" {
		t.Errorf("String() = %q, want cache-janitor", j.String())
	}
}

func TestCacheJanitorService_SweepsUntilCanceled(t *testing.T) {
	sweeper := &countingSweeper{}
	j := NewCacheJanitorService(sweeper, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- j.Serve(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	if n := sweeper.sweeps.Load(); n < 2 {
		t.Errorf("sweeps = %d, want at least 2", n)
	}
}

func TestCacheJanitorService_EvictsExpired(t *testing.T) {
	now := time.Now()
	c := cache.New(time.Minute, cache.WithClock(func() time.Time { return now }))
	c.Put("old", cache.Entry{JSON: "x"})
	now = now.Add(2 * time.Minute)
	c.Put("fresh", cache.Entry{JSON: "y"})

	NewCacheJanitorService(c, time.Hour).sweep()

	if c.Len() != 1 {
		t.Errorf("Len() = %d after sweep, want 1", c.Len())
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry was swept")
	}
}
