package driving

import (
	"context"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// PublishRequest describes a document upload to publish as a new article version.
type PublishRequest struct {
	// ID is the article identity. Defaults to the slug.
	ID string

	// Title is required.
	Title string

	// Slug defaults to the slugified title.
	Slug string

	// Source is the .docx byte source.
	Source driven.Source

	// Options override the configured ingestion defaults.
	Options domain.ParseOptions
}

// PublishResult is the outcome of a publish.
type PublishResult struct {
	Article  *domain.StoredArticle   `json:"article"`
	Manifest *domain.ArticleManifest `json:"manifest"`
}

// ArticleService publishes documents as signed, versioned articles.
type ArticleService interface {
	// Publish ingests the document and stores it as the next version.
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)

	// Get retrieves a stored article.
	Get(ctx context.Context, id string) (*domain.StoredArticle, error)

	// ListManifests returns summaries of all stored articles.
	ListManifests(ctx context.Context) ([]domain.ManifestSummary, error)

	// Manifest returns the signed manifest of the current article version.
	Manifest(ctx context.Context, id string) (*domain.ArticleManifest, error)

	// Verify recomputes the checksum and signature of a stored article.
	// Returns an error wrapping domain.ErrUntrustedContent on mismatch.
	Verify(ctx context.Context, id string) error

	// Delete removes an article.
	Delete(ctx context.Context, id string) error
}
