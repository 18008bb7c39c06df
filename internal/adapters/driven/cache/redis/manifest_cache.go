// Package redis provides a Redis-backed driven.ManifestCache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ManifestCache = (*ManifestCache)(nil)

const manifestPrefix = "lwb:manifest:"

// ManifestCache stores signed manifests as JSON with a TTL.
type ManifestCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewManifestCache creates a cache over an existing client. A zero ttl keeps entries until invalidated.
func NewManifestCache(client *redis.Client, ttl time.Duration) *ManifestCache {
	return &ManifestCache{client: client, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the server responds.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Get retrieves a cached manifest
func (c *ManifestCache) Get(ctx context.Context, id string) (*domain.ArticleManifest, error) {
	data, err := c.client.Get(ctx, manifestPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest: %w", err)
	}

	var m domain.ArticleManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Set stores a manifest
func (c *ManifestCache) Set(ctx context.Context, manifest *domain.ArticleManifest) error {
	if manifest == nil || manifest.ID == "" {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := c.client.Set(ctx, manifestPrefix+manifest.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set manifest: %w", err)
	}
	return nil
}

// Invalidate removes a cached manifest
func (c *ManifestCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, manifestPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to invalidate manifest: %w", err)
	}
	return nil
}
