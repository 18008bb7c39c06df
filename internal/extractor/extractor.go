// Package extractor turns converter HTML into ordered content sections.
//
// Extraction runs in two passes. The structural pass scans top-level
// h1-h6, p, ul, ol, blockquote and iframe spans in source order. The link
// pass then walks every anchor and upgrades YouTube and audio-file links
// into embed and audio sections, which are appended after the structural
// ones together with matching media items.
//
// Extraction is best-effort: malformed or unterminated markup yields fewer
// sections, never an error.
package extractor

import (
	"fmt"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.SectionExtractor = (*Extractor)(nil)

// scanner performs the structural pass.
type scanner interface {
	scan(html string) []domain.ContentSection
}

// Extractor implements driven.SectionExtractor.
type Extractor struct {
	structural scanner
	links      *linkScanner
}

// New creates an extractor using the given structural strategy.
// An empty strategy selects the tokenizer.
func New(strategy domain.ExtractorStrategy) (*Extractor, error) {
	var s scanner
	switch strategy {
	case domain.ExtractorTokenizer, "":
		s = tokenScanner{}
	case domain.ExtractorRegex:
		s = regexScanner{}
	default:
		return nil, fmt.Errorf("%w: extractor strategy %q", domain.ErrUnsupportedType, strategy)
	}
	return &Extractor{structural: s, links: newLinkScanner()}, nil
}

// Extract returns structural sections followed by link-derived sections,
// and the media items recorded for upgraded links.
func (e *Extractor) Extract(html string) ([]domain.ContentSection, []domain.MediaItem) {
	sections := e.structural.scan(html)
	linkSections, media := e.links.scan(html)
	return append(sections, linkSections...), media
}
