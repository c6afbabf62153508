package usecase

import "time"

const (
	// balanceCacheKeyPrefix prefixes the per-trip balance report cache keys.
	balanceCacheKeyPrefix = "balance:"

	// DefaultBalanceCacheTTL bounds staleness of cached balance reports;
	// mutations invalidate the key eagerly, the TTL is a backstop.
	DefaultBalanceCacheTTL = 5 * time.Minute
)

func balanceCacheKey(tripID string) string {
	return balanceCacheKeyPrefix + tripID
}
