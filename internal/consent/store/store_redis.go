package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"credvault/internal/consent/models"
	id "credvault/pkg/domain"
	"credvault/pkg/platform/sentinel"
)

// RedisStore persists consent grants in Redis, one hash per commitment with
// the verifier as the field. All operations on a pair hit a single key, so a
// single Redis instance gives the same per-pair ordering guarantees as the
// other backends.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedis constructs a Redis-backed consent store.
func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

type redisConsent struct {
	GrantedBy string    `json:"granted_by"`
	GrantedAt time.Time `json:"granted_at"`
}

func consentKey(commitment id.Commitment) string {
	return "credvault:consent:" + commitment.String()
}

func (s *RedisStore) Save(ctx context.Context, consent *models.Consent) error {
	if consent == nil {
		return fmt.Errorf("consent record is required")
	}
	payload, err := json.Marshal(redisConsent{
		GrantedBy: consent.GrantedBy.String(),
		GrantedAt: consent.GrantedAt,
	})
	if err != nil {
		return fmt.Errorf("encode consent: %w", err)
	}
	if err := s.client.HSet(ctx, consentKey(consent.Commitment), consent.Verifier.String(), payload).Err(); err != nil {
		return fmt.Errorf("save consent: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) (*models.Consent, error) {
	raw, err := s.client.HGet(ctx, consentKey(commitment), verifier.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find consent: %w", err)
	}
	return decodeConsent(commitment, verifier, raw)
}

func (s *RedisStore) Delete(ctx context.Context, commitment id.Commitment, verifier id.PrincipalID) error {
	removed, err := s.client.HDel(ctx, consentKey(commitment), verifier.String()).Result()
	if err != nil {
		return fmt.Errorf("delete consent: %w", err)
	}
	if removed == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *RedisStore) ListByCommitment(ctx context.Context, commitment id.Commitment) ([]*models.Consent, error) {
	fields, err := s.client.HGetAll(ctx, consentKey(commitment)).Result()
	if err != nil {
		return nil, fmt.Errorf("list consents: %w", err)
	}
	consents := make([]*models.Consent, 0, len(fields))
	for verifier, raw := range fields {
		consent, err := decodeConsent(commitment, id.PrincipalID(verifier), []byte(raw))
		if err != nil {
			return nil, err
		}
		consents = append(consents, consent)
	}
	sort.Slice(consents, func(i, j int) bool { return consents[i].Verifier < consents[j].Verifier })
	return consents, nil
}

func decodeConsent(commitment id.Commitment, verifier id.PrincipalID, raw []byte) (*models.Consent, error) {
	var stored redisConsent
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode consent: %w", err)
	}
	return &models.Consent{
		Commitment: commitment,
		Verifier:   verifier,
		GrantedBy:  id.PrincipalID(stored.GrantedBy),
		GrantedAt:  stored.GrantedAt,
	}, nil
}
