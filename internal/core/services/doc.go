// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IngestionService: convert, sanitize and extract one document
//   - ArticleService: version, sign, store and verify articles
//   - SettingsService: resolve configuration from file and environment
package services
