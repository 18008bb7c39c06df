// Package app wires the driven adapters and core services from resolved settings.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/lwb-ingest/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/lwb-ingest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lwb-ingest/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/lwb-ingest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lwb-ingest/internal/converters/docx"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/services"
	"github.com/custodia-labs/lwb-ingest/internal/extractor"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
	"github.com/custodia-labs/lwb-ingest/internal/sanitizer"
)

// App holds the services built for one process.
type App struct {
	Settings  *domain.Settings
	Ingestion *services.IngestionService

	// Articles is nil when no manifest secret is configured.
	Articles *services.ArticleService

	closers []io.Closer
}

// NewIngestion builds the conversion pipeline. It needs no storage.
func NewIngestion(settings *domain.Settings) (*services.IngestionService, error) {
	ext, err := extractor.New(settings.Ingest.Strategy)
	if err != nil {
		return nil, err
	}
	conv := docx.New(docx.WithMaxSize(settings.Ingest.MaxFileSize))
	return services.NewIngestionService(conv, sanitizer.New(), ext), nil
}

// Open builds the ingestion pipeline and, when a manifest secret is set,
// the content store, manifest cache and article service.
func Open(ctx context.Context, settings *domain.Settings) (*App, error) {
	ingestion, err := NewIngestion(settings)
	if err != nil {
		return nil, err
	}
	a := &App{Settings: settings, Ingestion: ingestion}

	if settings.ManifestSecret == "" {
		logger.Warn("manifest secret not configured; publishing is disabled")
		return a, nil
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	cache, err := a.openCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Articles = services.NewArticleService(ingestion, store, cache, settings.ManifestSecret)
	return a, nil
}

// RequireArticles returns the article service or ErrMissingSecret.
func (a *App) RequireArticles() (*services.ArticleService, error) {
	if a.Articles == nil {
		return nil, domain.ErrMissingSecret
	}
	return a.Articles, nil
}

// DefaultOptions returns the configured ingestion defaults.
func (a *App) DefaultOptions() domain.ParseOptions {
	return domain.ParseOptions{
		WithHTML:         a.Settings.Ingest.WithHTML,
		ExtractMediaData: a.Settings.Ingest.ExtractMediaData,
	}
}

// Close releases every opened connection.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context) (driven.ContentStore, error) {
	cfg := a.Settings.Storage
	switch cfg.Backend {
	case domain.StorageMemory:
		logger.Info("using in-memory content store")
		return memory.NewContentStore(), nil
	case domain.StoragePostgres:
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.PostgresURL))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		if err := db.InitSchema(ctx); err != nil {
			return nil, err
		}
		logger.Info("using postgres content store")
		return postgres.NewContentStore(db), nil
	case domain.StorageSQLite, "":
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		a.closers = append(a.closers, store)
		logger.Info("using sqlite content store at %s", store.Path())
		return store, nil
	default:
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
}

func (a *App) openCache(ctx context.Context) (driven.ManifestCache, error) {
	cfg := a.Settings.Cache
	if cfg.RedisURL == "" {
		return memory.NewManifestCache(), nil
	}
	client, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client)
	logger.Info("caching manifests in redis")
	return redis.NewManifestCache(client, time.Duration(cfg.TTLSeconds)*time.Second), nil
}
