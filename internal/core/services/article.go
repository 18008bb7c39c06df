package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
	"github.com/custodia-labs/lwb-ingest/internal/manifest"
)

// Ensure ArticleService implements the interface.
var _ driving.ArticleService = (*ArticleService)(nil)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// Slugify lowercases title, drops everything but ASCII letters, digits,
// whitespace and hyphens, and joins the remaining words with hyphens.
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "")
	return slugWhitespace.ReplaceAllString(strings.TrimSpace(s), "-")
}

// ArticleService publishes documents as versioned, signed articles.
type ArticleService struct {
	ingestion driving.IngestionService
	store     driven.ContentStore
	cache     driven.ManifestCache
	secret    string
	now       func() time.Time

	// publishing serializes Publish per article id so versions stay monotonic.
	publishing keyedMutex
}

// NewArticleService creates a new article service.
// cache may be nil, in which case manifests are rebuilt on every request.
func NewArticleService(
	ingestion driving.IngestionService,
	store driven.ContentStore,
	cache driven.ManifestCache,
	secret string,
) *ArticleService {
	return &ArticleService{
		ingestion: ingestion,
		store:     store,
		cache:     cache,
		secret:    secret,
		now:       time.Now,
	}
}

// Publish ingests the document and stores it as the next version of the article.
func (s *ArticleService) Publish(ctx context.Context, req driving.PublishRequest) (*driving.PublishResult, error) {
	if s.secret == "" {
		return nil, domain.ErrMissingSecret
	}

	doc, err := s.ingestion.Parse(ctx, req.Source, req.Options)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	slug := req.Slug
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: cannot derive a slug from title %q", domain.ErrInvalidInput, title)
	}
	id := req.ID
	if id == "" {
		id = slug
	}

	unlock := s.publishing.Lock(id)
	defer unlock()

	version := 1
	prev, err := s.store.GetArticle(ctx, id)
	switch {
	case err == nil:
		version = prev.Version + 1
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}

	now := s.now().UTC()
	article := &domain.StoredArticle{
		ID:        id,
		Slug:      slug,
		Title:     title,
		Version:   version,
		WordCount: doc.WordCount,
		Sections:  make([]domain.StoredSection, len(doc.Sections)),
		Media:     make([]domain.MediaItem, len(doc.Media)),
		HTML:      doc.HTML,
		Text:      doc.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prev != nil {
		article.CreatedAt = prev.CreatedAt
	}
	for i, sec := range doc.Sections {
		article.Sections[i] = domain.StoredSection{Order: i, ContentSection: sec}
	}
	for i, m := range doc.Media {
		article.Media[i] = m.WithoutData()
	}

	m, err := manifest.Build(article.ManifestInput(), s.secret)
	if err != nil {
		return nil, err
	}
	article.Checksum = m.Checksum
	article.Signature = m.Signature

	if err := s.store.UpsertArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("storing %s: %w", id, err)
	}
	s.cacheManifest(ctx, m)

	logger.Info("Published %s v%d (%s)", id, version, m.Checksum[:12])
	return &driving.PublishResult{Article: article, Manifest: m}, nil
}

// Get retrieves a stored article.
func (s *ArticleService) Get(ctx context.Context, id string) (*domain.StoredArticle, error) {
	return s.store.GetArticle(ctx, id)
}

// ListManifests returns summaries of all stored articles.
func (s *ArticleService) ListManifests(ctx context.Context) ([]domain.ManifestSummary, error) {
	items, err := s.store.ListManifests(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ManifestSummary{}
	}
	return items, nil
}

// Manifest returns the signed manifest of the current version, from the
// cache when possible.
func (s *ArticleService) Manifest(ctx context.Context, id string) (*domain.ArticleManifest, error) {
	if s.cache != nil {
		m, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			logger.Debug("Manifest cache hit for %s", id)
			return m, nil
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("Manifest cache read for %s failed: %v", id, err)
		}
	}

	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Build(article.ManifestInput(), s.secret)
	if err != nil {
		return nil, err
	}
	s.cacheManifest(ctx, m)
	return m, nil
}

// Verify recomputes the stored article's checksum and signature.
func (s *ArticleService) Verify(ctx context.Context, id string) error {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	stored := domain.ArticleManifest{
		ID:        article.ID,
		Version:   article.Version,
		Checksum:  article.Checksum,
		Signature: article.Signature,
	}
	return manifest.Verify(stored, article.ManifestInput(), s.secret)
}

// Delete removes an article and its cached manifest.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteArticle(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			logger.Warn("Manifest cache invalidation for %s failed: %v", id, err)
		}
	}
	return nil
}

// cacheManifest stores m in the cache. Cache failures never fail the caller.
func (s *ArticleService) cacheManifest(ctx context.Context, m *domain.ArticleManifest) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, m); err != nil {
		logger.Warn("Manifest cache write for %s failed: %v", m.ID, err)
	}
}
