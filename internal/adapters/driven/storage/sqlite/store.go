package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lwb-ingest/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ContentStore = (*Store)(nil)

// Store is a SQLite-backed content store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lwb/data/content.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lwb", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "content.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// UpsertArticle stores an article version, replacing its sections and media.
// The original created_at is preserved on update. A version that is not
// newer than the stored one is rejected with ErrVersionConflict.
func (s *Store) UpsertArticle(ctx context.Context, article *domain.StoredArticle) error {
	if article == nil || article.ID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	createdAt := article.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := article.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO articles (id, slug, title, version, word_count, checksum, signature, html, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			version = excluded.version,
			word_count = excluded.word_count,
			checksum = excluded.checksum,
			signature = excluded.signature,
			html = excluded.html,
			text = excluded.text,
			updated_at = excluded.updated_at
		WHERE articles.version < excluded.version
	`, article.ID, article.Slug, article.Title, article.Version, article.WordCount, article.Checksum,
		nullString(article.Signature), nullString(article.HTML), nullString(article.Text),
		formatTime(createdAt), formatTime(updatedAt))
	if err != nil {
		return fmt.Errorf("saving article: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("saving article: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: %s already has v%d or newer", domain.ErrVersionConflict, article.ID, article.Version)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM article_sections WHERE article_id = ?", article.ID); err != nil {
		return fmt.Errorf("clearing sections: %w", err)
	}
	for _, sec := range article.Sections {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO article_sections (article_id, ord, kind, level, text, html, media_ref_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, article.ID, sec.Order, string(sec.Kind), nullInt(sec.Level),
			nullString(sec.Text), nullString(sec.HTML), nullString(sec.MediaRefID))
		if err != nil {
			return fmt.Errorf("saving section %d: %w", sec.Order, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM media_assets WHERE article_id = ?", article.ID); err != nil {
		return fmt.Errorf("clearing media: %w", err)
	}
	for i, m := range article.Media {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO media_assets (article_id, ord, id, type, filename, content_type, src, checksum)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, article.ID, i, m.ID, string(m.Type), nullString(m.Filename),
			nullString(m.ContentType), nullString(m.Src), nullString(m.Checksum))
		if err != nil {
			return fmt.Errorf("saving media %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing article: %w", err)
	}
	return nil
}

// GetArticle retrieves an article with its sections and media.
func (s *Store) GetArticle(ctx context.Context, id string) (*domain.StoredArticle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, slug, title, version, word_count, checksum, signature, html, text, created_at, updated_at
		FROM articles WHERE id = ?
	`, id)

	var a domain.StoredArticle
	var signature, html, text sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Version, &a.WordCount, &a.Checksum,
		&signature, &html, &text, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning article: %w", err)
	}
	a.Signature = signature.String
	a.HTML = html.String
	a.Text = text.String
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)

	sections, err := s.loadSections(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Sections = sections

	media, err := s.loadMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Media = media

	return &a, nil
}

// ListManifests returns article summaries, most recently updated first.
func (s *Store) ListManifests(ctx context.Context) ([]domain.ManifestSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, slug, version, word_count, updated_at
		FROM articles ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying manifests: %w", err)
	}
	defer rows.Close()

	result := []domain.ManifestSummary{}
	for rows.Next() {
		var m domain.ManifestSummary
		var updatedAt string
		if err := rows.Scan(&m.ID, &m.Title, &m.Slug, &m.Version, &m.WordCount, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning manifest: %w", err)
		}
		m.UpdatedAt = parseTime(updatedAt)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating manifests: %w", err)
	}
	return result, nil
}

// DeleteArticle removes an article; sections and media cascade.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting article: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) loadSections(ctx context.Context, articleID string) ([]domain.StoredSection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ord, kind, level, text, html, media_ref_id
		FROM article_sections WHERE article_id = ? ORDER BY ord
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.StoredSection //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sec domain.StoredSection
		var kind string
		var level sql.NullInt64
		var text, html, mediaRef sql.NullString
		if err := rows.Scan(&sec.Order, &kind, &level, &text, &html, &mediaRef); err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sec.Kind = domain.SectionKind(kind)
		sec.Level = int(level.Int64)
		sec.Text = text.String
		sec.HTML = html.String
		sec.MediaRefID = mediaRef.String
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return sections, nil
}

func (s *Store) loadMedia(ctx context.Context, articleID string) ([]domain.MediaItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, filename, content_type, src, checksum
		FROM media_assets WHERE article_id = ? ORDER BY ord
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("querying media: %w", err)
	}
	defer rows.Close()

	var media []domain.MediaItem //nolint:prealloc // size unknown from query
	for rows.Next() {
		var m domain.MediaItem
		var typ string
		var filename, contentType, src, checksum sql.NullString
		if err := rows.Scan(&m.ID, &typ, &filename, &contentType, &src, &checksum); err != nil {
			return nil, fmt.Errorf("scanning media: %w", err)
		}
		m.Type = domain.MediaType(typ)
		m.Filename = filename.String
		m.ContentType = contentType.String
		m.Src = src.String
		m.Checksum = checksum.String
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating media: %w", err)
	}
	return media, nil
}

// formatTime renders timestamps so that lexical order matches time order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullString converts an empty string to nil for SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullInt converts zero to nil for SQL NULL.
func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
