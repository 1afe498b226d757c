// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package broadcast fans committed store changes out to subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full misses the
// event. Consumers treat events as invalidation hints and re-read the store.
package broadcast

import (
	"sync"
	"time"
)

// Change describes one committed mutation.
type Change struct {
	Store string    `json:"store"`
	Op    string    `json:"op"`
	ID    string    `json:"id,omitempty"`
	At    time.Time `json:"at"`
}

// Store names carried by [Change.Store].
const (
	StoreContent = "content"
	StoreSession = "session"
	StoreSocial  = "social"
)

// Publisher is the narrow view stores depend on.
type Publisher[T any] interface {
	Publish(event T)
}

// Hub is an in-process pub/sub of T values.
type Hub[T any] struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan T
	nextID      uint64
	closed      bool
}

// NewHub creates an empty hub.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subscribers: make(map[uint64]chan T)}
}

// Subscribe registers a subscriber with the given buffer size. The returned
// cancel function unregisters it and closes the channel; it is safe to call
// more than once.
func (hub *Hub[T]) Subscribe(buffer int) (<-chan T, func()) {
	if buffer < 0 {
		buffer = 0
	}
	events := make(chan T, buffer)

	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		close(events)
		return events, func() {}
	}
	id := hub.nextID
	hub.nextID++
	hub.subscribers[id] = events
	hub.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			hub.mu.Lock()
			defer hub.mu.Unlock()
			if ch, ok := hub.subscribers[id]; ok {
				delete(hub.subscribers, id)
				close(ch)
			}
		})
	}

	return events, cancel
}

// Publish delivers event to every subscriber with room in its buffer.
func (hub *Hub[T]) Publish(event T) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for _, events := range hub.subscribers {
		select {
		case events <- event:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers.
func (hub *Hub[T]) Subscribers() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscribers)
}

// Close unregisters and closes every subscriber. Later subscriptions
// receive an already closed channel.
func (hub *Hub[T]) Close() {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for id, events := range hub.subscribers {
		delete(hub.subscribers, id)
		close(events)
	}
	hub.closed = true
}
