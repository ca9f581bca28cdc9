// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestMinHeap_Order(t *testing.T) {
	h := NewMinHeap[string]()
	base := time.Unix(1000, 0)

	h.Push("c", "third", base.Add(3*time.Second))
	h.Push("a", "first", base.Add(1*time.Second))
	h.Push("b", "second", base.Add(2*time.Second))

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if p := h.Peek(); p == nil || p.Key != "a" {
		t.Errorf("Peek() = %v, want a", p)
	}

	for _, want := range []string{"a", "b", "c"} {
		if got := h.Pop(); got == nil || got.Key != want {
			t.Errorf("Pop() = %v, want %s", got, want)
		}
	}
	if h.Pop() != nil {
		t.Error("Pop() on empty heap should return nil")
	}
}

func TestMinHeap_PushExistingMoves(t *testing.T) {
	h := NewMinHeap[int]()
	base := time.Unix(1000, 0)

	h.Push("a", 1, base)
	h.Push("b", 2, base.Add(time.Second))
	h.Push("a", 3, base.Add(2*time.Second))

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	if p := h.Peek(); p.Key != "b" {
		t.Errorf("Peek().Key = %s, want b after moving a", p.Key)
	}
}

func TestMinHeap_Remove(t *testing.T) {
	h := NewMinHeap[int]()
	base := time.Unix(1000, 0)
	for i := 0; i < 10; i++ {
		h.Push(fmt.Sprintf("k%d", i), i, base.Add(time.Duration(i)*time.Second))
	}

	if item := h.Remove("k5"); item == nil || item.Value != 5 {
		t.Errorf("Remove(k5) = %v, want value 5", item)
	}
	if h.Remove("k5") != nil {
		t.Error("second Remove(k5) should return nil")
	}

	prev := time.Time{}
	for h.Len() > 0 {
		item := h.Pop()
		if item.Timestamp.Before(prev) {
			t.Fatalf("heap order violated at %s", item.Key)
		}
		if item.Key == "k5" {
			t.Fatal("removed key popped")
		}
		prev = item.Timestamp
	}
}

func TestMinHeap_PopBefore(t *testing.T) {
	h := NewMinHeap[struct{}]()
	base := time.Unix(1000, 0)
	for i := 0; i < 5; i++ {
		h.Push(fmt.Sprintf("k%d", i), struct{}{}, base.Add(time.Duration(i)*time.Minute))
	}

	got := h.PopBefore(base.Add(2 * time.Minute))
	if len(got) != 2 {
		t.Fatalf("PopBefore() returned %d items, want 2", len(got))
	}
	if got[0].Key != "k0" || got[1].Key != "k1" {
		t.Errorf("PopBefore() keys = %s,%s, want k0,k1", got[0].Key, got[1].Key)
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
}

func TestMinHeap_Clear(t *testing.T) {
	h := NewMinHeap[int]()
	h.Push("a", 1, time.Now())
	h.Clear()
	if h.Len() != 0 || h.Peek() != nil {
		t.Error("Clear() should empty the heap")
	}
	h.Push("a", 1, time.Now())
	if h.Len() != 1 {
		t.Error("heap should be usable after Clear")
	}
}
