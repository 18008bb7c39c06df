package domain

import "fmt"

const unknownDescription = "Unknown"

// StorageBackend selects the content store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite is the embedded SQLite store (default).
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres is a PostgreSQL server.
	StoragePostgres StorageBackend = "postgres"

	// StorageMemory keeps articles in process memory only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StoragePostgres, StorageMemory:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (local file)"
	case StoragePostgres:
		return "PostgreSQL"
	case StorageMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// ExtractorStrategy selects how HTML is scanned into sections.
type ExtractorStrategy string

// Available extractor strategies.
const (
	// ExtractorTokenizer walks an HTML token stream and tracks nesting.
	ExtractorTokenizer ExtractorStrategy = "tokenizer"

	// ExtractorRegex is the single-pass, non-recursive tag matcher.
	ExtractorRegex ExtractorStrategy = "regex"
)

// IsValid returns true if the strategy is recognised.
func (s ExtractorStrategy) IsValid() bool {
	return s == ExtractorTokenizer || s == ExtractorRegex
}

// DefaultMaxFileSize is the default upload limit (32 MiB).
const DefaultMaxFileSize int64 = 32 << 20

// IngestSettings holds defaults for ingestion calls.
type IngestSettings struct {
	WithHTML         bool
	ExtractMediaData bool
	MaxFileSize      int64
	Strategy         ExtractorStrategy
}

// StorageSettings configures persistence.
type StorageSettings struct {
	Backend     StorageBackend
	DataDir     string
	PostgresURL string
}

// CacheSettings configures the optional manifest cache.
type CacheSettings struct {
	RedisURL   string
	TTLSeconds int
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr      string
	RateLimit float64
	Burst     int
}

// Settings is the resolved application configuration.
type Settings struct {
	ManifestSecret string
	Ingest         IngestSettings
	Storage        StorageSettings
	Cache          CacheSettings
	Server         ServerSettings
}

// DefaultSettings returns settings with every default applied and no secret.
func DefaultSettings() Settings {
	return Settings{
		Ingest: IngestSettings{
			WithHTML:    true,
			MaxFileSize: DefaultMaxFileSize,
			Strategy:    ExtractorTokenizer,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
		Cache: CacheSettings{
			TTLSeconds: 3600,
		},
		Server: ServerSettings{
			Addr:      ":4433",
			RateLimit: 2,
			Burst:     4,
		},
	}
}

// Validate rejects configurations that cannot be used to sign manifests
// or reach storage.
func (s Settings) Validate() error {
	if s.ManifestSecret == "" {
		return ErrMissingSecret
	}
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", ErrUnsupportedType, s.Storage.Backend)
	}
	if s.Storage.Backend == StoragePostgres && s.Storage.PostgresURL == "" {
		return fmt.Errorf("%w: postgres backend requires storage.postgres_url", ErrInvalidInput)
	}
	if !s.Ingest.Strategy.IsValid() {
		return fmt.Errorf("%w: extractor strategy %q", ErrUnsupportedType, s.Ingest.Strategy)
	}
	if s.Ingest.MaxFileSize <= 0 {
		return fmt.Errorf("%w: ingest.max_file_size must be positive", ErrInvalidInput)
	}
	return nil
}
