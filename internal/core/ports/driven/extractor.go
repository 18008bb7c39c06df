package driven

import "github.com/custodia-labs/lwb-ingest/internal/core/domain"

// SectionExtractor scans HTML into ordered content sections.
type SectionExtractor interface {
	// Extract returns the structural sections followed by link-derived
	// sections, plus the media items recorded for upgraded links.
	Extract(html string) ([]domain.ContentSection, []domain.MediaItem)
}
