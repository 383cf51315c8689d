// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a Redis server via go-redis (shared by API servers)
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys come from a [Keyer] so that every backend and every caller agree on
// what identifies a layout: the dataset hash plus every parameter that can
// change the output.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.LayoutKey(cache.Hash(datasetJSON), cache.LayoutKeyOpts{Seed: 42, Config: cfg})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// A miss is reported as (nil, false, nil). Errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default time-to-live per entry type.
const (
	// LayoutTTL applies to computed layouts. Layouts depend only on the
	// dataset and parameters, so they stay valid for a long time.
	LayoutTTL = 30 * 24 * time.Hour
	// ArtifactTTL applies to rendered DOT/SVG/PDF/PNG output.
	ArtifactTTL = 7 * 24 * time.Hour
)
