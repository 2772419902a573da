package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps moderators in process memory. It is the default
// when no database URL is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	mods map[string]Moderator
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mods: make(map[string]Moderator),
	}
}

func (s *MemoryStore) Add(ctx context.Context, mod Moderator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mods[mod.UserID] = mod
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.mods, userID)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Moderator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mods := make([]Moderator, 0, len(s.mods))
	for _, mod := range s.mods {
		mods = append(mods, mod)
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })
	return mods, nil
}

func (s *MemoryStore) IsModerator(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.mods[userID]
	return ok, nil
}

func (s *MemoryStore) Ready(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
