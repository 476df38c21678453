// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// export.go provides a Valkey-backed cache for exported deck artifacts.
// PPTX assembly and headless PDF printing are the two slowest operations
// in the service, so finished exports are kept until the presentation
// changes or the TTL expires.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// exportKeyPrefix is the Valkey key prefix for cached exports.
	exportKeyPrefix = "export:"

	// DefaultExportTTL is how long a finished export stays cached.
	DefaultExportTTL = 1 * time.Hour
)

// ExportCache stores finished PPTX and PDF exports in Valkey. Keys embed
// the presentation's updated_at timestamp, so any edit naturally misses
// the cache without explicit invalidation.
type ExportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExportCache creates an export cache backed by the given Valkey client.
func NewExportCache(client *redis.Client, ttl time.Duration) *ExportCache {
	if ttl == 0 {
		ttl = DefaultExportTTL
	}
	return &ExportCache{client: client, ttl: ttl}
}

// Key builds the cache key for an export artifact. kind is "pptx" or
// "pdf"; updatedAt versions the key so stale exports are never served.
func Key(kind, id string, updatedAt time.Time) string {
	return fmt.Sprintf("%s:%s:%d", kind, id, updatedAt.UnixNano())
}

// Get retrieves a cached export. Returns (nil, false) on miss.
func (ec *ExportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := ec.client.Get(ctx, exportKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("export cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("export cache hit", "key", key)
	return val, true
}

// Set stores a finished export with the configured TTL.
func (ec *ExportCache) Set(ctx context.Context, key string, data []byte) {
	if err := ec.client.Set(ctx, exportKeyPrefix+key, data, ec.ttl).Err(); err != nil {
		slog.Warn("export cache set error", "key", key, "error", err)
	}
}

// InvalidatePresentation removes all cached exports for a presentation,
// regardless of kind or version. Used when a presentation is deleted.
func (ec *ExportCache) InvalidatePresentation(ctx context.Context, id string) {
	for _, kind := range []string{"pptx", "pdf"} {
		pattern := fmt.Sprintf("%s%s:%s:*", exportKeyPrefix, kind, id)
		var cursor uint64
		for {
			keys, nextCursor, err := ec.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				slog.Warn("export cache scan error", "error", err)
				return
			}
			if len(keys) > 0 {
				if err := ec.client.Del(ctx, keys...).Err(); err != nil {
					slog.Warn("export cache bulk delete error", "error", err)
				}
			}
			cursor = nextCursor
			if cursor == 0 {
				break
			}
		}
	}
	slog.Debug("export cache invalidated", "id", id)
}
