// Package mcp provides an MCP (Model Context Protocol) server adapter for lwb-ingest.
// It lets AI assistants parse documents and inspect published articles and
// their signed manifests.
package mcp

import "errors"

var (
	// ErrMissingIngestionService is returned when the ingestion service is not provided.
	ErrMissingIngestionService = errors.New("mcp: ingestion service is required")

	// ErrArticlesUnavailable is returned by article tools when no article service is configured.
	ErrArticlesUnavailable = errors.New("mcp: article store not configured")
)
