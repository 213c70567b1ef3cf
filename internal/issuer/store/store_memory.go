package store

import (
	"context"
	"sync"

	"credvault/internal/issuer/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemoryStore keeps trust records in memory for tests and single-node runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	issuers map[id.PrincipalID]*models.TrustedIssuer
}

// New constructs an empty in-memory issuer store.
func New() *InMemoryStore {
	return &InMemoryStore{issuers: make(map[id.PrincipalID]*models.TrustedIssuer)}
}

func (s *InMemoryStore) Save(_ context.Context, issuer *models.TrustedIssuer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *issuer
	s.issuers[issuer.Principal] = &cp
	return nil
}

func (s *InMemoryStore) FindByPrincipal(_ context.Context, principal id.PrincipalID) (*models.TrustedIssuer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issuer, ok := s.issuers[principal]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *issuer
	return &cp, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.TrustedIssuer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.TrustedIssuer, 0, len(s.issuers))
	for _, issuer := range s.issuers {
		cp := *issuer
		out = append(out, &cp)
	}
	return out, nil
}
