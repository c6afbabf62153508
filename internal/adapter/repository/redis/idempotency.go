package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "tripledger:idem:"

	// inFlightMarker is stored while the first request with a key is still
	// being handled. Retries that race it see the marker instead of a
	// recorded response.
	inFlightMarker = "processing"
)

// IdempotencyStore keeps the responses of mutating ledger requests in Redis
// so a retried request replays the original outcome instead of recording a
// duplicate expense or settlement.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) key(requestKey string) string {
	return idempotencyKeyPrefix + requestKey
}

// CheckAndSet reports whether the key has been seen before, returning the
// recorded response (or the in-flight marker) when it has. A nil response
// claims the key with the marker so concurrent retries wait it out.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, requestKey string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.key(requestKey)

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return true, existing, nil
	}
	if !errors.Is(err, redis.Nil) {
		return false, nil, fmt.Errorf("idempotency lookup: %w", err)
	}

	if response != nil {
		if err := s.client.Set(ctx, fullKey, response, ttl).Err(); err != nil {
			return false, nil, fmt.Errorf("idempotency store: %w", err)
		}
		return false, nil, nil
	}

	claimed, err := s.client.SetNX(ctx, fullKey, inFlightMarker, ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("idempotency claim: %w", err)
	}
	if !claimed {
		// Another request claimed the key between our Get and SetNX.
		existing, err := s.client.Get(ctx, fullKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, nil, fmt.Errorf("idempotency lookup: %w", err)
		}
		return true, existing, nil
	}

	return false, nil, nil
}

// Update replaces the in-flight marker with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, requestKey string, response []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(requestKey), response, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency update: %w", err)
	}
	return nil
}
