package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-caseflow/pkg/caserecord"
)

// Memory is an in-process Store. Cases are cloned on the way in and out.
type Memory struct {
	mu    sync.RWMutex
	cases map[string]*caserecord.Case
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{cases: make(map[string]*caserecord.Case)}
}

func (m *Memory) Load(_ context.Context, id string) (*caserecord.Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cases[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (m *Memory) Save(_ context.Context, c *caserecord.Case) error {
	if c == nil || c.ID == "" {
		return errMissingID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cases[c.ID] = c.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[id]; !ok {
		return ErrNotFound
	}
	delete(m.cases, id)
	return nil
}

func (m *Memory) List(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.cases))
	for _, c := range m.cases {
		out = append(out, Summary{
			ID:        c.ID,
			State:     c.State,
			UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
