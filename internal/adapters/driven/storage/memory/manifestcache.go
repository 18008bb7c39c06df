package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Ensure ManifestCache implements the interface.
var _ driven.ManifestCache = (*ManifestCache)(nil)

// ManifestCache is an in-process manifest cache used when no Redis URL is configured.
type ManifestCache struct {
	mu        sync.RWMutex
	manifests map[string]domain.ArticleManifest
}

// NewManifestCache creates an empty manifest cache.
func NewManifestCache() *ManifestCache {
	return &ManifestCache{manifests: make(map[string]domain.ArticleManifest)}
}

// Get returns a cached manifest or domain.ErrNotFound.
func (c *ManifestCache) Get(_ context.Context, id string) (*domain.ArticleManifest, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.manifests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// Set caches a manifest.
func (c *ManifestCache) Set(_ context.Context, manifest *domain.ArticleManifest) error {
	if manifest == nil || manifest.ID == "" {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifests[manifest.ID] = *manifest
	return nil
}

// Invalidate drops a cached manifest.
func (c *ManifestCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.manifests, id)
	return nil
}
