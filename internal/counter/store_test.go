package counter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metasecure-core/pkg/cache"
)

func TestStoreLoadMiss(t *testing.T) {
	s := NewStore(cache.NewMemoryCache(time.Minute, time.Minute))

	count, ok := s.Load(context.Background())

	assert.False(t, ok)
	assert.Zero(t, count)
}

func TestStoreSaveOverwrites(t *testing.T) {
	s := NewStore(cache.NewMemoryCache(time.Minute, time.Minute))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, 12))
	require.NoError(t, s.Save(ctx, 13))

	count, ok := s.Load(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint64(13), count)
}
