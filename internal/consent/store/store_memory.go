package store

import (
	"context"
	"sort"
	"sync"

	"credvault/internal/consent/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested entity does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

type pairKey struct {
	commitment id.Commitment
	verifier   id.PrincipalID
}

// InMemoryStore keeps consent grants in memory for tests and single-node runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	consents map[pairKey]*models.Consent
}

// New constructs an empty in-memory consent store.
func New() *InMemoryStore {
	return &InMemoryStore{consents: make(map[pairKey]*models.Consent)}
}

func (s *InMemoryStore) Save(_ context.Context, consent *models.Consent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *consent
	s.consents[pairKey{consent.Commitment, consent.Verifier}] = &cp
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, commitment id.Commitment, verifier id.PrincipalID) (*models.Consent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	consent, ok := s.consents[pairKey{commitment, verifier}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *consent
	return &cp, nil
}

func (s *InMemoryStore) Delete(_ context.Context, commitment id.Commitment, verifier id.PrincipalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{commitment, verifier}
	if _, ok := s.consents[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.consents, key)
	return nil
}

func (s *InMemoryStore) ListByCommitment(_ context.Context, commitment id.Commitment) ([]*models.Consent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Consent
	for key, consent := range s.consents {
		if key.commitment != commitment {
			continue
		}
		cp := *consent
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Verifier < out[j].Verifier })
	return out, nil
}
