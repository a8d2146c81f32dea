// Package testutil holds small helpers shared by the backend test suites.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osworks/backend/internal/domain/shared"
)

// EventRecorder is an event bus subscriber that keeps every event it
// receives. Tests attach one to a real bus to assert which domain
// events a flow emitted.
type EventRecorder struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

// NewEventRecorder records events of the given types. With no types it
// subscribes as a wildcard and records everything the bus publishes.
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{types: eventTypes}
}

func (r *EventRecorder) EventTypes() []string {
	return r.types
}

func (r *EventRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]shared.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// CountOf returns how many recorded events carry the given type.
func (r *EventRecorder) CountOf(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.EventType() == eventType {
			n++
		}
	}
	return n
}

// FailWith makes subsequent Handle calls return err, for exercising
// the bus error paths.
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// WaitFor blocks until at least n events were recorded or the timeout
// passes, and reports whether the count was reached. Useful when the
// publisher runs on another goroutine.
func (r *EventRecorder) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if r.Count() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return r.Count() >= n
}

// StubEvent builds a minimal domain event for feeding recorders and
// buses in tests.
func StubEvent(eventType string, tenantID uuid.UUID) shared.DomainEvent {
	ev := shared.NewBaseDomainEvent(eventType, "Stub", uuid.New(), tenantID)
	return &ev
}
