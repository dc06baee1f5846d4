package notifymock

import (
	"context"
	"sync"

	"agrolend-backend/internal/domain/event"
)

var _ event.Notifier = (*Recorder)(nil)

// Recorder keeps every event it is given and returns Err.
type Recorder struct {
	mu     sync.Mutex
	events []event.Event
	Err    error
}

func (r *Recorder) Notify(_ context.Context, e event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

func (r *Recorder) Events() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events in order.
func (r *Recorder) Kinds() []event.Kind {
	var out []event.Kind
	for _, e := range r.Events() {
		out = append(out, e.Kind)
	}
	return out
}
