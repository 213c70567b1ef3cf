package store

import (
	"context"
	"sort"
	"sync"

	"credvault/internal/ledger/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// InMemoryStore keeps credentials in memory for tests and single-node runs.
type InMemoryStore struct {
	mu          sync.RWMutex
	credentials map[id.Commitment]*models.Credential
}

// New constructs an empty in-memory credential store.
func New() *InMemoryStore {
	return &InMemoryStore{credentials: make(map[id.Commitment]*models.Credential)}
}

func (s *InMemoryStore) Save(_ context.Context, cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	s.credentials[cred.Commitment] = &cp
	return nil
}

func (s *InMemoryStore) FindByCommitment(_ context.Context, commitment id.Commitment) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[commitment]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}

func (s *InMemoryStore) ListByIssuer(_ context.Context, issuer id.PrincipalID) ([]*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Credential
	for _, cred := range s.credentials {
		if cred.Issuer != issuer {
			continue
		}
		cp := *cred
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out, nil
}
