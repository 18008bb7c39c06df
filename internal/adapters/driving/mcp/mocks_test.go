package mcp

import (
	"context"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
)

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	doc      *domain.ParsedDocument
	media    []domain.MediaItem
	err      error
	lastSrc  driven.Source
	lastOpts domain.ParseOptions
}

func (m *mockIngestionService) Parse(
	_ context.Context,
	src driven.Source,
	opts domain.ParseOptions,
) (*domain.ParsedDocument, error) {
	m.lastSrc = src
	m.lastOpts = opts
	return m.doc, m.err
}

func (m *mockIngestionService) ExtractMedia(_ context.Context, _ driven.Source) ([]domain.MediaItem, error) {
	return m.media, m.err
}

// mockArticleService is a mock implementation of driving.ArticleService.
type mockArticleService struct {
	article   *domain.StoredArticle
	manifest  *domain.ArticleManifest
	summaries []domain.ManifestSummary
	verifyErr error
	err       error
}

func (m *mockArticleService) Publish(_ context.Context, _ driving.PublishRequest) (*driving.PublishResult, error) {
	return &driving.PublishResult{Article: m.article, Manifest: m.manifest}, m.err
}

func (m *mockArticleService) Get(_ context.Context, _ string) (*domain.StoredArticle, error) {
	return m.article, m.err
}

func (m *mockArticleService) ListManifests(_ context.Context) ([]domain.ManifestSummary, error) {
	return m.summaries, m.err
}

func (m *mockArticleService) Manifest(_ context.Context, _ string) (*domain.ArticleManifest, error) {
	return m.manifest, m.err
}

func (m *mockArticleService) Verify(_ context.Context, _ string) error {
	return m.verifyErr
}

func (m *mockArticleService) Delete(_ context.Context, _ string) error {
	return m.err
}
