package credstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Token(ctx context.Context) (string, error) {
	return s.get(KeyToken)
}

func (s *MemoryStore) SetToken(ctx context.Context, token string) error {
	s.set(KeyToken, token)
	return nil
}

func (s *MemoryStore) RemoveToken(ctx context.Context) error {
	s.remove(KeyToken)
	return nil
}

func (s *MemoryStore) UserID(ctx context.Context) (string, error) {
	return s.get(KeyUserID)
}

func (s *MemoryStore) SetUserID(ctx context.Context, id string) error {
	s.set(KeyUserID, id)
	return nil
}

func (s *MemoryStore) RemoveUserID(ctx context.Context) error {
	s.remove(KeyUserID)
	return nil
}

func (s *MemoryStore) get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStore) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
