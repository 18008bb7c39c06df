package driving

import "github.com/custodia-labs/lwb-ingest/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves current settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.Settings, error)

	// Set stores a single configuration key.
	Set(key string, value string) error

	// Validate checks the resolved settings, rejecting a missing manifest secret.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// ConfigPath returns the configuration file path.
	ConfigPath() string
}
