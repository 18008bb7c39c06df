package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyManifestSecret   = "manifest.secret"
	keyWithHTML         = "ingest.with_html"
	keyExtractMediaData = "ingest.extract_media_data"
	keyMaxFileSize      = "ingest.max_file_size"
	keyStrategy         = "extractor.strategy"
	keyStorageBackend   = "storage.backend"
	keyStorageDataDir   = "storage.data_dir"
	keyPostgresURL      = "storage.postgres_url"
	keyRedisURL         = "cache.redis_url"
	keyCacheTTL         = "cache.ttl_seconds"
	keyServerAddr       = "server.addr"
	keyServerRateLimit  = "server.rate_limit"
	keyServerBurst      = "server.burst"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvManifestSecret = "LWB_MANIFEST_SECRET"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvRedisURL       = "REDIS_URL"
)

type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindInt
	kindFloat
)

// knownKeys lists every settable key with its value type.
var knownKeys = map[string]keyKind{
	keyManifestSecret:   kindString,
	keyWithHTML:         kindBool,
	keyExtractMediaData: kindBool,
	keyMaxFileSize:      kindInt,
	keyStrategy:         kindString,
	keyStorageBackend:   kindString,
	keyStorageDataDir:   kindString,
	keyPostgresURL:      kindString,
	keyRedisURL:         kindString,
	keyCacheTTL:         kindInt,
	keyServerAddr:       kindString,
	keyServerRateLimit:  kindFloat,
	keyServerBurst:      kindInt,
}

// SettingsService resolves application settings from the config store
// and the environment.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service reading overrides from the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// WithEnv replaces the environment lookup. Used in tests.
func (s *SettingsService) WithEnv(getenv func(string) string) *SettingsService {
	s.getenv = getenv
	return s
}

// Get resolves current settings. It does not validate them.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		ManifestSecret: s.override(EnvManifestSecret, s.configStore.GetString(keyManifestSecret)),
		Ingest: domain.IngestSettings{
			WithHTML:         s.getBool(keyWithHTML, d.Ingest.WithHTML),
			ExtractMediaData: s.getBool(keyExtractMediaData, d.Ingest.ExtractMediaData),
			MaxFileSize:      s.getInt64(keyMaxFileSize, d.Ingest.MaxFileSize),
			Strategy:         domain.ExtractorStrategy(s.getString(keyStrategy, string(d.Ingest.Strategy))),
		},
		Storage: domain.StorageSettings{
			Backend:     domain.StorageBackend(s.getString(keyStorageBackend, string(d.Storage.Backend))),
			DataDir:     s.configStore.GetString(keyStorageDataDir),
			PostgresURL: s.override(EnvDatabaseURL, s.configStore.GetString(keyPostgresURL)),
		},
		Cache: domain.CacheSettings{
			RedisURL:   s.override(EnvRedisURL, s.configStore.GetString(keyRedisURL)),
			TTLSeconds: s.getInt(keyCacheTTL, d.Cache.TTLSeconds),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(keyServerAddr, d.Server.Addr),
			RateLimit: s.getFloat(keyServerRateLimit, d.Server.RateLimit),
			Burst:     s.getInt(keyServerBurst, d.Server.Burst),
		},
	}

	return settings, nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects a boolean", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number", domain.ErrInvalidInput, key)
		}
		parsed = f
	default:
		parsed = value
	}

	return s.configStore.Set(key, parsed)
}

// Validate resolves and validates current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// ConfigPath returns the configuration file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// KnownKeys returns the settable keys in sorted order.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *SettingsService) override(env, val string) string {
	if v := s.getenv(env); v != "" {
		return v
	}
	return val
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	return int64(s.getInt(key, int(defaultVal)))
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// LoadSettings resolves settings from the store and the process environment.
func LoadSettings(store driven.ConfigStore) (*domain.Settings, error) {
	return NewSettingsService(store).Get()
}
