// Package domain defines the core business entities for lwb-ingest.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - MediaItem: A catalogued embedded or linked asset
//   - ContentSection: One typed, ordered block of extracted content
//   - ParsedDocument: The result of ingesting one document
//   - ArticleManifest: A signed summary of one document version
//   - StoredArticle: A persisted article version with its sections and media
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
