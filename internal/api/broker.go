package api

import (
	"sync"
)

// PlanEvent is one progress or lifecycle event of a running solve.
type PlanEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// EventBroker fans plan events out to stream subscribers.
type EventBroker interface {
	Subscribe(planID string) chan PlanEvent
	Unsubscribe(planID string, ch chan PlanEvent)
	Publish(planID string, evt PlanEvent)
}

// Broker is the in-memory EventBroker used when no REDIS_URL is set.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan PlanEvent]struct{} // planId -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan PlanEvent]struct{}{}}
}

func (b *Broker) Subscribe(planID string) chan PlanEvent {
	ch := make(chan PlanEvent, 8)
	b.mu.Lock()
	if b.subs[planID] == nil {
		b.subs[planID] = map[chan PlanEvent]struct{}{}
	}
	b.subs[planID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(planID string, ch chan PlanEvent) {
	b.mu.Lock()
	if m := b.subs[planID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, planID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

// Publish drops events for slow subscribers rather than blocking the solver.
func (b *Broker) Publish(planID string, evt PlanEvent) {
	b.mu.Lock()
	m := b.subs[planID]
	for ch := range m {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
