package dummy

import (
	"maps"
	"slices"
	"sync"
)

// Event is one event received by a dummy provider.
type Event struct {
	Name   string
	Params map[string]string
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(name string, params map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Name: name, Params: maps.Clone(params)})
}

// Events returns the received events in arrival order.
func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}
