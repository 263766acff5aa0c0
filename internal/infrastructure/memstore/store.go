package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	blob      []byte
	expiresAt time.Time
}

// Store is an in-memory wizard.Store for tests and single-node
// deployments without Redis. Expired entries are dropped on read and
// by Sweep.
type Store struct {
	mu      sync.Mutex
	entries map[uuid.UUID]entry
}

func New() *Store {
	return &Store{entries: make(map[uuid.UUID]entry)}
}

func (s *Store) Get(_ context.Context, shopperID uuid.UUID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[shopperID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, shopperID)
		return nil, nil
	}
	blob := make([]byte, len(e.blob))
	copy(blob, e.blob)
	return blob, nil
}

func (s *Store) Set(_ context.Context, shopperID uuid.UUID, blob []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.entries[shopperID] = entry{blob: stored, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *Store) Delete(_ context.Context, shopperID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, shopperID)
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
