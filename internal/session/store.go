// Package session keeps the single result slot each browser session owns
// between the submit redirect and the results page.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"simchecker/internal/analysis"
)

// ErrEmpty means the session has no pending result.
var ErrEmpty = errors.New("no result in session")

// Store holds at most one result per session id. Put overwrites the slot and
// Take empties it.
type Store interface {
	Put(ctx context.Context, id string, res *analysis.Result) error
	Take(ctx context.Context, id string) (*analysis.Result, error)
}

type entry struct {
	res     *analysis.Result
	expires time.Time
}

// Memory is an in-process Store with per-slot expiry.
type Memory struct {
	mu    sync.Mutex
	ttl   time.Duration
	slots map[string]entry
	now   func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:   ttl,
		slots: make(map[string]entry),
		now:   time.Now,
	}
}

func (m *Memory) Put(_ context.Context, id string, res *analysis.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.slots[id] = entry{res: res, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Take(_ context.Context, id string) (*analysis.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.slots[id]
	if !ok {
		return nil, ErrEmpty
	}
	delete(m.slots, id)
	if m.ttl > 0 && m.now().After(e.expires) {
		return nil, ErrEmpty
	}
	return e.res, nil
}

// Len reports the number of occupied slots, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// sweep drops expired slots. Caller holds mu.
func (m *Memory) sweep() {
	if m.ttl <= 0 {
		return
	}
	now := m.now()
	for id, e := range m.slots {
		if now.After(e.expires) {
			delete(m.slots, id)
		}
	}
}
