// Package testutil holds test doubles shared across packages.
package testutil

import (
	"context"
	"errors"
	"sync"

	"myworld/backend/internal/repository"
)

var ErrStoreUnavailable = errors.New("store unavailable")

// FlakyStore wraps a MemoryStore and fails reads or writes on demand.
type FlakyStore struct {
	*repository.MemoryStore

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	setCalls int
}

func NewFlakyStore() *FlakyStore {
	return &FlakyStore{MemoryStore: repository.NewMemoryStore()}
}

func (s *FlakyStore) FailReads(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = fail
}

func (s *FlakyStore) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fail
}

// SetCalls counts Set attempts, failed ones included.
func (s *FlakyStore) SetCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCalls
}

func (s *FlakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, ErrStoreUnavailable
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *FlakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.setCalls++
	fail := s.failSet
	s.mu.Unlock()
	if fail {
		return ErrStoreUnavailable
	}
	return s.MemoryStore.Set(ctx, key, value)
}
