package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
)

type countingLoader struct {
	loads int
	err   error
}

func (l *countingLoader) LoadSnapshot(context.Context) (*pricing.Snapshot, error) {
	l.loads++
	if l.err != nil {
		return nil, l.err
	}
	return pricing.NewSnapshot(nil, nil, nil, nil, nil, nil, nil), nil
}

func TestSnapshotCacheReusesSnapshotWithinTTL(t *testing.T) {
	loader := &countingLoader{}
	cache := NewSnapshotCache(loader, time.Minute, zap.NewNop())

	first, err := cache.Current(context.Background())
	require.NoError(t, err)
	second, err := cache.Current(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.loads)
}

func TestSnapshotCacheInvalidateForcesReload(t *testing.T) {
	loader := &countingLoader{}
	cache := NewSnapshotCache(loader, time.Minute, zap.NewNop())

	first, err := cache.Current(context.Background())
	require.NoError(t, err)

	cache.Invalidate()

	second, err := cache.Current(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, loader.loads)
}

func TestSnapshotCacheServesStaleOnReloadFailure(t *testing.T) {
	loader := &countingLoader{}
	cache := NewSnapshotCache(loader, time.Minute, zap.NewNop())

	first, err := cache.Current(context.Background())
	require.NoError(t, err)

	loader.err = errors.New("db down")
	cache.Invalidate()

	stale, err := cache.Current(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, stale)
}

func TestSnapshotCacheFailsWhenNothingCached(t *testing.T) {
	loader := &countingLoader{err: errors.New("db down")}
	cache := NewSnapshotCache(loader, time.Minute, zap.NewNop())

	_, err := cache.Current(context.Background())
	require.Error(t, err)
}
