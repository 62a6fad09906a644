// Package stream fan-outs inspection lifecycle events to live subscribers
// (SSE clients). Slow subscribers drop events instead of blocking the
// publisher.
package stream

import (
	"context"
	"sync"
	"time"

	"officine.sn/internal/inspection"
)

// Event describes one inspection change for live dashboards.
type Event struct {
	Kind          string            `json:"kind"`
	InspectionID  string            `json:"inspection_id"`
	Establishment string            `json:"establishment,omitempty"`
	Status        inspection.Status `json:"status,omitempty"`
	Actor         string            `json:"actor,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Event kinds published by the HTTP layer.
const (
	KindCreated       = "inspection_created"
	KindResponseSaved = "response_saved"
	KindStatusChanged = "status_changed"
	KindMetaUpdated   = "meta_updated"
	KindDeleted       = "inspection_deleted"
)

// Stream fan-outs events to all active subscribers.
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

// Subscribers reports the number of active subscribers.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
