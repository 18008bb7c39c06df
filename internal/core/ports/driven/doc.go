// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Converter: Turns a binary document into HTML plus embedded media
//   - Sanitizer: Whitelist filter applied to converter output
//   - SectionExtractor: Scans HTML into ordered content sections
//   - ContentStore: Article persistence (SQLite, PostgreSQL or memory)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ManifestCache: Caches signed manifests (Redis). Without it every
//     manifest read is rebuilt from the content store.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, converter, or extractor package
package driven
