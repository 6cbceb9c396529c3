package store

import (
	"context"
	"sync"

	"github.com/Fork0n/open-hoot/internal/models"
)

type memoryRecord struct {
	mu  sync.Mutex
	doc *models.Session
}

// MemoryStore is an in-process SessionStore used for development and tests.
// The outer map is guarded by an RWMutex for lookup and insert; each record
// carries its own mutex so updates of different codes never contend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryRecord)}
}

func (m *MemoryStore) Get(ctx context.Context, code string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	rec, ok := m.sessions[code]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.doc.Clone(), nil
}

func (m *MemoryStore) CreateIfAbsent(ctx context.Context, code string, value *models.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[code]; ok {
		return ErrAlreadyExists
	}
	m.sessions[code] = &memoryRecord{doc: value.Clone()}
	return nil
}

func (m *MemoryStore) TransactionalUpdate(ctx context.Context, code string, fn UpdateFunc) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	rec, ok := m.sessions[code]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	next := rec.doc.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	rec.doc = next
	return next.Clone(), nil
}
