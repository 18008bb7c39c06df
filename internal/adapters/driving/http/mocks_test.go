package http

import (
	"context"
	"errors"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
)

// Mock services for testing

type mockIngestionService struct {
	parseFn func(ctx context.Context, src driven.Source, opts domain.ParseOptions) (*domain.ParsedDocument, error)
}

func (m *mockIngestionService) Parse(
	ctx context.Context,
	src driven.Source,
	opts domain.ParseOptions,
) (*domain.ParsedDocument, error) {
	if m.parseFn != nil {
		return m.parseFn(ctx, src, opts)
	}
	return nil, errors.New("not implemented")
}

func (m *mockIngestionService) ExtractMedia(_ context.Context, _ driven.Source) ([]domain.MediaItem, error) {
	return nil, errors.New("not implemented")
}

type mockArticleService struct {
	publishFn  func(ctx context.Context, req driving.PublishRequest) (*driving.PublishResult, error)
	getFn      func(ctx context.Context, id string) (*domain.StoredArticle, error)
	listFn     func(ctx context.Context) ([]domain.ManifestSummary, error)
	manifestFn func(ctx context.Context, id string) (*domain.ArticleManifest, error)
	verifyFn   func(ctx context.Context, id string) error
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockArticleService) Publish(ctx context.Context, req driving.PublishRequest) (*driving.PublishResult, error) {
	if m.publishFn != nil {
		return m.publishFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockArticleService) Get(ctx context.Context, id string) (*domain.StoredArticle, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockArticleService) ListManifests(ctx context.Context) ([]domain.ManifestSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []domain.ManifestSummary{}, nil
}

func (m *mockArticleService) Manifest(ctx context.Context, id string) (*domain.ArticleManifest, error) {
	if m.manifestFn != nil {
		return m.manifestFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockArticleService) Verify(ctx context.Context, id string) error {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, id)
	}
	return nil
}

func (m *mockArticleService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
