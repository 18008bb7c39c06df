package driven

import (
	"context"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

// ContentStore persists article versions with their sections and media.
type ContentStore interface {
	// UpsertArticle stores an article, replacing its sections and media.
	// CreatedAt of an existing article is preserved.
	UpsertArticle(ctx context.Context, article *domain.StoredArticle) error

	// GetArticle retrieves an article by ID.
	// Returns domain.ErrNotFound if absent.
	GetArticle(ctx context.Context, id string) (*domain.StoredArticle, error)

	// ListManifests returns summaries of all articles, most recently updated first.
	ListManifests(ctx context.Context) ([]domain.ManifestSummary, error)

	// DeleteArticle removes an article with its sections and media.
	DeleteArticle(ctx context.Context, id string) error
}

// ManifestCache caches signed manifests by article ID.
type ManifestCache interface {
	// Get returns a cached manifest. Returns domain.ErrNotFound on a miss.
	Get(ctx context.Context, id string) (*domain.ArticleManifest, error)

	// Set caches a manifest.
	Set(ctx context.Context, manifest *domain.ArticleManifest) error

	// Invalidate removes a cached manifest.
	Invalidate(ctx context.Context, id string) error
}
