package counter

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"metasecure-core/pkg/cache"
	"metasecure-core/pkg/logger"
)

// cacheKey is the single process-wide slot mirroring the ledger's
// transaction count.
const cacheKey = "transactionCount"

// Store is a best-effort local mirror of the authoritative ledger
// count. It is read for display only before the first successful ledger
// query; afterwards it is overwritten from the ledger, never the
// reverse.
type Store struct {
	cache cache.Cache
}

func NewStore(c cache.Cache) *Store {
	return &Store{cache: c}
}

// Load returns the cached count and whether a value was present.
func (s *Store) Load(ctx context.Context) (uint64, bool) {
	var count uint64
	if err := s.cache.Get(ctx, cacheKey, &count); err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("counter cache read failed", zap.Error(err))
		}
		return 0, false
	}
	return count, true
}

// Save overwrites the mirror with a ledger-confirmed count.
func (s *Store) Save(ctx context.Context, count uint64) error {
	return s.cache.Set(ctx, cacheKey, count, 0)
}
