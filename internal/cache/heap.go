// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package cache

import "time"

// HeapItem is a keyed element of a MinHeap.
type HeapItem[T any] struct {
	Key       string
	Value     T
	Timestamp time.Time
	index     int // position in the heap slice, kept current by swap
}

// MinHeap orders keyed items by timestamp, oldest first.
// Push, Pop and Remove are O(log n); Peek and key lookup are O(1).
//
// It is used for:
//   - response cache expiry (pop everything stored before the TTL cutoff)
//   - rate limiter client eviction (drop the least recently seen client)
//
// MinHeap is not synchronized. Owners guard it with their own lock.
type MinHeap[T any] struct {
	items []*HeapItem[T]
	byKey map[string]*HeapItem[T]
}

// NewMinHeap creates an empty heap.
func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		byKey: make(map[string]*HeapItem[T]),
	}
}

// Push inserts key, or moves it to timestamp if it is already present.
func (h *MinHeap[T]) Push(key string, value T, timestamp time.Time) {
	if existing, ok := h.byKey[key]; ok {
		existing.Value = value
		existing.Timestamp = timestamp
		h.fix(existing.index)
		return
	}

	item := &HeapItem[T]{
		Key:       key,
		Value:     value,
		Timestamp: timestamp,
		index:     len(h.items),
	}
	h.items = append(h.items, item)
	h.byKey[key] = item
	h.up(item.index)
}

// Pop removes and returns the oldest item, or nil when empty.
func (h *MinHeap[T]) Pop() *HeapItem[T] {
	if len(h.items) == 0 {
		return nil
	}
	return h.removeAt(0)
}

// Peek returns the oldest item without removing it, or nil when empty.
func (h *MinHeap[T]) Peek() *HeapItem[T] {
	if len(h.items) == 0 {
		return nil
	}
	return h.items[0]
}

// Remove deletes key and returns its item, or nil if absent.
func (h *MinHeap[T]) Remove(key string) *HeapItem[T] {
	item, ok := h.byKey[key]
	if !ok {
		return nil
	}
	return h.removeAt(item.index)
}

// Len returns the number of items.
func (h *MinHeap[T]) Len() int {
	return len(h.items)
}

// PopBefore removes and returns every item with a timestamp strictly before t,
// oldest first.
func (h *MinHeap[T]) PopBefore(t time.Time) []*HeapItem[T] {
	var out []*HeapItem[T]
	for len(h.items) > 0 && h.items[0].Timestamp.Before(t) {
		out = append(out, h.removeAt(0))
	}
	return out
}

// Clear removes all items.
func (h *MinHeap[T]) Clear() {
	h.items = nil
	h.byKey = make(map[string]*HeapItem[T])
}

func (h *MinHeap[T]) removeAt(i int) *HeapItem[T] {
	last := len(h.items) - 1
	item := h.items[i]
	delete(h.byKey, item.Key)

	if i != last {
		h.items[i] = h.items[last]
		h.items[i].index = i
	}
	h.items[last] = nil
	h.items = h.items[:last]

	if i < len(h.items) {
		h.fix(i)
	}
	return item
}

func (h *MinHeap[T]) fix(i int) {
	if !h.up(i) {
		h.down(i)
	}
}

// up reports whether the item at i moved.
func (h *MinHeap[T]) up(i int) bool {
	moved := false
	for i > 0 {
		parent := (i - 1) / 2
		if !h.items[i].Timestamp.Before(h.items[parent].Timestamp) {
			break
		}
		h.swap(i, parent)
		i = parent
		moved = true
	}
	return moved
}

func (h *MinHeap[T]) down(i int) {
	n := len(h.items)
	for {
		smallest := i
		if l := 2*i + 1; l < n && h.items[l].Timestamp.Before(h.items[smallest].Timestamp) {
			smallest = l
		}
		if r := 2*i + 2; r < n && h.items[r].Timestamp.Before(h.items[smallest].Timestamp) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *MinHeap[T]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}
