// Package auth stores ESI bearer tokens so that several client processes can
// share the token obtained by a single SSO flow.
//
// Both stores satisfy client.TokenSource:
//
//	store := auth.NewRedisStore(redisClient, "main-character", logger)
//	if err := store.Save(ctx, accessToken, 20*time.Minute); err != nil {
//		return err
//	}
//	if err := esiClient.LoadToken(ctx, store); err != nil {
//		return err
//	}
package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrTokenNotFound is returned when no unexpired token is stored.
	ErrTokenNotFound = errors.New("token not found")

	// ErrEmptyToken is returned when saving an empty token.
	ErrEmptyToken = errors.New("token must not be empty")
)

// Store persists a bearer token with an expiry.
type Store interface {
	// Save stores token for ttl. A ttl of 0 keeps it until cleared.
	Save(ctx context.Context, token string, ttl time.Duration) error

	// Token returns the stored token or ErrTokenNotFound.
	Token(ctx context.Context) (string, error)

	// Clear removes the stored token.
	Clear(ctx context.Context) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.expiresAt = time.Time{}
	if ttl > 0 {
		s.expiresAt = s.now().Add(ttl)
	}
	return nil
}

// Token implements Store.
func (s *MemoryStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", ErrTokenNotFound
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return "", ErrTokenNotFound
	}
	return s.token, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.expiresAt = time.Time{}
	return nil
}
