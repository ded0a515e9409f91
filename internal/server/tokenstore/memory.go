package tokenstore

import (
	"sync"
	"time"

	"github.com/tickpulse/tickpulse/internal/common"
	"github.com/tickpulse/tickpulse/internal/server/models"
)

// MemoryStore is the in-process Store implementation. All operations are
// serialized through a single mutex, so concurrent refresh attempts with the
// same token value resolve deterministically: the first consumer wins, the
// second observes the token already revoked.
//
// Construct it explicitly and inject it; it is not a package-level singleton.
type MemoryStore struct {
	mu      sync.RWMutex
	access  map[string]*models.AccessTokenRecord
	refresh map[string]*models.RefreshTokenRecord
	now     func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		access:  make(map[string]*models.AccessTokenRecord),
		refresh: make(map[string]*models.RefreshTokenRecord),
		now:     time.Now,
	}
}

func (s *MemoryStore) RegisterAccessToken(jti, userID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access[jti] = &models.AccessTokenRecord{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
}

func (s *MemoryStore) RegisterRefreshToken(token, userID string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[token] = &models.RefreshTokenRecord{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
}

func (s *MemoryStore) IsAccessTokenLive(jti string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.access[jti]
	return ok && rec.Live(s.now())
}

func (s *MemoryStore) ConsumeRefreshToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.refresh[token]
	if !ok || !rec.Live(s.now()) {
		return "", common.ErrTokenRevoked
	}
	rec.Revoked = true
	return rec.UserID, nil
}

func (s *MemoryStore) RevokeAccessToken(jti string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.access[jti]; ok {
		rec.Revoked = true
	}
}

func (s *MemoryStore) RevokeRefreshToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.refresh[token]; ok {
		rec.Revoked = true
	}
}

// SweepExpired drops expired records of both classes. Revoked records stay
// until their natural expiry so that repeated revocations remain no-ops.
func (s *MemoryStore) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for jti, rec := range s.access {
		if rec.ExpiresAt.Before(now) {
			delete(s.access, jti)
			removed++
		}
	}
	for token, rec := range s.refresh {
		if rec.ExpiresAt.Before(now) {
			delete(s.refresh, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of records currently held, for tests and metrics.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.access) + len(s.refresh)
}
