package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Recorder collects published events in memory. Used by tests and as a
// stand-in bus for the in-memory store wiring.
type Recorder struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(ctx context.Context, ev ChangeEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ChangeEvent, len(r.events))
	copy(out, r.events)
	return out
}
