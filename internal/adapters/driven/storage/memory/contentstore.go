package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore is an in-memory implementation of driven.ContentStore.
type ContentStore struct {
	mu       sync.RWMutex
	articles map[string]domain.StoredArticle
}

// NewContentStore creates a new in-memory content store.
func NewContentStore() *ContentStore {
	return &ContentStore{
		articles: make(map[string]domain.StoredArticle),
	}
}

// UpsertArticle stores or replaces an article version. A version that is not
// newer than the stored one is rejected with ErrVersionConflict.
func (s *ContentStore) UpsertArticle(_ context.Context, article *domain.StoredArticle) error {
	if article == nil || article.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneArticle(article)
	if existing, ok := s.articles[article.ID]; ok {
		if existing.Version >= article.Version {
			return fmt.Errorf("%w: %s is at v%d", domain.ErrVersionConflict, article.ID, existing.Version)
		}
		stored.CreatedAt = existing.CreatedAt
	}
	s.articles[article.ID] = stored
	return nil
}

// GetArticle retrieves an article by ID.
func (s *ContentStore) GetArticle(_ context.Context, id string) (*domain.StoredArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	article, ok := s.articles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneArticle(&article)
	return &out, nil
}

// ListManifests returns summaries ordered by UpdatedAt descending.
func (s *ContentStore) ListManifests(_ context.Context) ([]domain.ManifestSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ManifestSummary, 0, len(s.articles))
	for _, a := range s.articles {
		result = append(result, domain.ManifestSummary{
			ID:        a.ID,
			Title:     a.Title,
			Slug:      a.Slug,
			Version:   a.Version,
			UpdatedAt: a.UpdatedAt,
			WordCount: a.WordCount,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// DeleteArticle removes an article.
func (s *ContentStore) DeleteArticle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.articles, id)
	return nil
}

func cloneArticle(a *domain.StoredArticle) domain.StoredArticle {
	out := *a
	out.Sections = append([]domain.StoredSection(nil), a.Sections...)
	out.Media = make([]domain.MediaItem, len(a.Media))
	for i, m := range a.Media {
		out.Media[i] = m.WithoutData()
	}
	return out
}
