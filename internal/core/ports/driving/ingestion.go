package driving

import (
	"context"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// IngestionService runs the conversion pipeline for a single document:
// convert, sanitize, extract sections.
type IngestionService interface {
	// Parse ingests one document. Conversion failures are fatal and
	// wrap domain.ErrInvalidDocument.
	Parse(ctx context.Context, src driven.Source, opts domain.ParseOptions) (*domain.ParsedDocument, error)

	// ExtractMedia returns the media catalogued while converting the
	// document, with raw bytes materialised.
	ExtractMedia(ctx context.Context, src driven.Source) ([]domain.MediaItem, error)
}
