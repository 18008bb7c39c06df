package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore implements driven.ContentStore using PostgreSQL
type ContentStore struct {
	db *DB
}

// NewContentStore creates a new ContentStore
func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// UpsertArticle writes the article row and replaces its sections and media
// in one transaction. created_at is only set on insert. A version that is
// not newer than the stored one is rejected with ErrVersionConflict.
func (s *ContentStore) UpsertArticle(ctx context.Context, article *domain.StoredArticle) error {
	if article == nil || article.ID == "" {
		return domain.ErrInvalidInput
	}

	updatedAt := article.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	createdAt := article.CreatedAt
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO articles (id, slug, title, version, word_count, checksum, signature, html, text, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				slug = EXCLUDED.slug,
				title = EXCLUDED.title,
				version = EXCLUDED.version,
				word_count = EXCLUDED.word_count,
				checksum = EXCLUDED.checksum,
				signature = EXCLUDED.signature,
				html = EXCLUDED.html,
				text = EXCLUDED.text,
				updated_at = EXCLUDED.updated_at
			WHERE articles.version < EXCLUDED.version
		`, article.ID, article.Slug, article.Title, article.Version, article.WordCount, article.Checksum,
			nullString(article.Signature), nullString(article.HTML), nullString(article.Text),
			createdAt, updatedAt)
		if err != nil {
			return fmt.Errorf("saving article: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("saving article: %w", err)
		} else if n == 0 {
			return fmt.Errorf("%w: %s already has v%d or newer", domain.ErrVersionConflict, article.ID, article.Version)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM article_sections WHERE article_id = $1`, article.ID); err != nil {
			return fmt.Errorf("clearing sections: %w", err)
		}
		for _, sec := range article.Sections {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO article_sections (article_id, ord, kind, level, text, html, media_ref_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, article.ID, sec.Order, string(sec.Kind), nullInt(sec.Level),
				nullString(sec.Text), nullString(sec.HTML), nullString(sec.MediaRefID))
			if err != nil {
				return fmt.Errorf("saving section %d: %w", sec.Order, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM media_assets WHERE article_id = $1`, article.ID); err != nil {
			return fmt.Errorf("clearing media: %w", err)
		}
		for i, m := range article.Media {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO media_assets (article_id, id, ord, type, filename, content_type, src, checksum)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, article.ID, m.ID, i, string(m.Type), nullString(m.Filename),
				nullString(m.ContentType), nullString(m.Src), nullString(m.Checksum))
			if err != nil {
				return fmt.Errorf("saving media %s: %w", m.ID, err)
			}
		}

		return nil
	})
}

// GetArticle retrieves an article by ID
func (s *ContentStore) GetArticle(ctx context.Context, id string) (*domain.StoredArticle, error) {
	var a domain.StoredArticle
	var signature, html, text sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, slug, title, version, word_count, checksum, signature, html, text, created_at, updated_at
		FROM articles
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Slug, &a.Title, &a.Version, &a.WordCount, &a.Checksum,
		&signature, &html, &text, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading article: %w", err)
	}
	a.Signature = signature.String
	a.HTML = html.String
	a.Text = text.String

	rows, err := s.db.QueryContext(ctx, `
		SELECT ord, kind, level, text, html, media_ref_id
		FROM article_sections
		WHERE article_id = $1
		ORDER BY ord
	`, id)
	if err != nil {
		return nil, fmt.Errorf("loading sections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sec domain.StoredSection
		var level sql.NullInt64
		var stext, shtml, ref sql.NullString
		if err := rows.Scan(&sec.Order, &sec.Kind, &level, &stext, &shtml, &ref); err != nil {
			return nil, err
		}
		sec.Level = int(level.Int64)
		sec.Text = stext.String
		sec.HTML = shtml.String
		sec.MediaRefID = ref.String
		a.Sections = append(a.Sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := s.db.QueryContext(ctx, `
		SELECT id, type, filename, content_type, src, checksum
		FROM media_assets
		WHERE article_id = $1
		ORDER BY ord
	`, id)
	if err != nil {
		return nil, fmt.Errorf("loading media: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		var m domain.MediaItem
		var filename, contentType, src, checksum sql.NullString
		if err := mrows.Scan(&m.ID, &m.Type, &filename, &contentType, &src, &checksum); err != nil {
			return nil, err
		}
		m.Filename = filename.String
		m.ContentType = contentType.String
		m.Src = src.String
		m.Checksum = checksum.String
		a.Media = append(a.Media, m)
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	return &a, nil
}

// ListManifests returns summaries ordered by updated_at descending
func (s *ContentStore) ListManifests(ctx context.Context) ([]domain.ManifestSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, version, word_count, updated_at
		FROM articles
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ManifestSummary{}
	for rows.Next() {
		var m domain.ManifestSummary
		if err := rows.Scan(&m.ID, &m.Title, &m.Slug, &m.Version, &m.WordCount, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// DeleteArticle removes an article; children cascade
func (s *ContentStore) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
