package mcp

import (
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Ingestion parses documents.
	Ingestion driving.IngestionService

	// Articles reads published articles and manifests. Optional.
	Articles driving.ArticleService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ingestion == nil {
		return ErrMissingIngestionService
	}
	return nil
}
