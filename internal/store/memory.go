package store

import (
	"context"
	"sync"

	"airhaul/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
// Listing order is insertion order.
type Memory struct {
	mu    sync.Mutex
	plans map[string]model.Plan
	order []string
}

func NewMemory() *Memory {
	return &Memory{plans: map[string]model.Plan{}}
}

func (m *Memory) SavePlan(ctx context.Context, p model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.plans[p.ID] = p
	return nil
}

func (m *Memory) UpdatePlan(ctx context.Context, p model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		return ErrNotFound
	}
	m.plans[p.ID] = p
	return nil
}

func (m *Memory) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return model.Plan{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) ListPlans(ctx context.Context, cursor string, limit int) ([]model.Plan, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := 0
	if cursor != "" {
		for i, id := range m.order {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	if limit <= 0 {
		limit = 100
	}
	end := start + limit
	if end > len(m.order) {
		end = len(m.order)
	}
	items := make([]model.Plan, 0, end-start)
	for _, id := range m.order[start:end] {
		items = append(items, m.plans[id])
	}
	next := ""
	if end < len(m.order) {
		next = m.order[end-1]
	}
	return items, next, nil
}

func (m *Memory) DeletePlan(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return ErrNotFound
	}
	delete(m.plans, id)
	out := make([]string, 0, len(m.order))
	for _, v := range m.order {
		if v != id {
			out = append(out, v)
		}
	}
	m.order = out
	return nil
}
