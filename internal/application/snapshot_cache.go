package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atlas-transfers/service-pricing/internal/domain/pricing"
)

// CatalogLoader loads the active catalog into a snapshot.
type CatalogLoader interface {
	LoadSnapshot(ctx context.Context) (*pricing.Snapshot, error)
}

// SnapshotCache holds the current catalog snapshot and reloads it when the
// TTL expires or when a catalog change event invalidates it. Readers share
// one snapshot; a reload swaps the pointer atomically under the lock.
type SnapshotCache struct {
	loader CatalogLoader
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot *pricing.Snapshot
	expires  time.Time
}

// NewSnapshotCache creates a SnapshotCache. A non-positive TTL defaults to
// five minutes.
func NewSnapshotCache(loader CatalogLoader, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SnapshotCache{loader: loader, ttl: ttl, logger: logger}
}

// Current returns the cached snapshot, reloading it first if it is missing or
// expired. A failed reload keeps serving the previous snapshot when one
// exists.
func (c *SnapshotCache) Current(ctx context.Context) (*pricing.Snapshot, error) {
	c.mu.RLock()
	snap, expires := c.snapshot, c.expires
	c.mu.RUnlock()

	if snap != nil && time.Now().Before(expires) {
		return snap, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have reloaded while we waited for the lock.
	if c.snapshot != nil && time.Now().Before(c.expires) {
		return c.snapshot, nil
	}

	fresh, err := c.loader.LoadSnapshot(ctx)
	if err != nil {
		if c.snapshot != nil {
			c.logger.Warn("catalog reload failed, serving stale snapshot",
				zap.Error(err),
				zap.Time("loaded_at", c.snapshot.LoadedAt()),
			)
			c.expires = time.Now().Add(c.ttl)
			return c.snapshot, nil
		}
		return nil, err
	}

	c.snapshot = fresh
	c.expires = time.Now().Add(c.ttl)
	c.logger.Info("catalog snapshot loaded",
		zap.Int("zones", len(fresh.Zones())),
		zap.Int("routes", len(fresh.Routes())),
	)
	return fresh, nil
}

// Invalidate discards the cached snapshot so the next request reloads.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.expires = time.Time{}
	c.mu.Unlock()
}
