package memory

import (
	"context"
	"sync"
	"time"

	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

type tokenEntry struct {
	userID    int64
	expiresAt time.Time
}

// TokenStore is an in-memory session token store.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]tokenEntry
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: map[string]tokenEntry{}}
}

func (s *TokenStore) Save(_ context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenID] = tokenEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *TokenStore) Exists(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.tokens[tokenID]
	if !ok {
		return false, nil
	}
	return entry.expiresAt.After(time.Now()), nil
}

func (s *TokenStore) Delete(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenID)
	return nil
}

func (s *TokenStore) DeleteForUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.tokens {
		if entry.userID == userID {
			delete(s.tokens, id)
		}
	}
	return nil
}
