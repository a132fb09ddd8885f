// Package memory holds process-local stores used when Redis is disabled.
package memory

import (
	"context"
	"sync"
	"time"

	"sui-transfer-gateway/internal/core/domain"
)

// InFlightGuard implements ports.InFlightGuard for a single process.
type InFlightGuard struct {
	mu      sync.Mutex
	pending map[domain.Address]marker
	now     func() time.Time
}

type marker struct {
	token string
	until time.Time
}

// NewInFlightGuard creates an empty guard.
func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{
		pending: make(map[domain.Address]marker),
		now:     time.Now,
	}
}

// Acquire returns true if no unexpired transfer from sender is pending.
func (g *InFlightGuard) Acquire(_ context.Context, sender domain.Address, token string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if m, ok := g.pending[sender]; ok && now.Before(m.until) {
		return false, nil
	}
	g.pending[sender] = marker{token: token, until: now.Add(ttl)}
	return true, nil
}

// Release clears sender if its marker still carries token.
func (g *InFlightGuard) Release(_ context.Context, sender domain.Address, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m, ok := g.pending[sender]; ok && m.token == token {
		delete(g.pending, sender)
	}
	return nil
}

// RevocationStore implements ports.RevocationStore in memory.
// Expired entries are dropped on write.
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewRevocationStore creates an empty store.
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks tokenID revoked for ttl.
func (s *RevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = now.Add(ttl)
	return nil
}

// IsRevoked reports whether tokenID is revoked and not yet expired.
func (s *RevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[tokenID]
	return ok && s.now().Before(until), nil
}
