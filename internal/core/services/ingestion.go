package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/lwb-ingest/internal/extractor"
	"github.com/custodia-labs/lwb-ingest/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService runs convert, sanitize and extract for one document.
// It holds no per-document state and is safe for concurrent use.
type IngestionService struct {
	converter driven.Converter
	sanitizer driven.Sanitizer
	extractor driven.SectionExtractor
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	converter driven.Converter,
	sanitizer driven.Sanitizer,
	extractor driven.SectionExtractor,
) *IngestionService {
	return &IngestionService{
		converter: converter,
		sanitizer: sanitizer,
		extractor: extractor,
	}
}

// Parse converts the document and extracts its sections and media.
//
// Sections are extracted from the sanitized HTML when opts.WithHTML is set
// and from the raw converter output otherwise. Word count and plain text
// always come from the raw output.
func (s *IngestionService) Parse(ctx context.Context, src driven.Source, opts domain.ParseOptions) (*domain.ParsedDocument, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no document source", domain.ErrInvalidInput)
	}

	logger.Section("Ingestion")
	logger.Debug("Source: %s (html=%t, media data=%t)", src.Name(), opts.WithHTML, opts.ExtractMediaData)

	start := time.Now()
	conv, err := s.converter.Convert(ctx, src, opts)
	if err != nil {
		logger.Warn("Conversion of %s failed: %v", src.Name(), err)
		return nil, fmt.Errorf("converting %s: %w", src.Name(), err)
	}
	logger.Debug("Converted: %d bytes of HTML, %d images in %v", len(conv.HTML), len(conv.Media), time.Since(start))

	markup := conv.HTML
	var sanitized string
	if opts.WithHTML {
		stageStart := time.Now()
		sanitized = s.sanitizer.Sanitize(conv.HTML)
		markup = sanitized
		logger.Debug("Sanitized: %d -> %d bytes in %v", len(conv.HTML), len(sanitized), time.Since(stageStart))
	}

	stageStart := time.Now()
	sections, linkMedia := s.extractor.Extract(markup)
	logger.Debug("Extracted: %d sections, %d link media in %v", len(sections), len(linkMedia), time.Since(stageStart))

	media := make([]domain.MediaItem, 0, len(conv.Media)+len(linkMedia))
	media = append(media, conv.Media...)
	media = append(media, linkMedia...)
	if sections == nil {
		sections = []domain.ContentSection{}
	}

	text := extractor.PlainText(conv.HTML)
	doc := &domain.ParsedDocument{
		Title:     conv.Title,
		Sections:  sections,
		Media:     media,
		WordCount: extractor.WordCount(text),
		HTML:      sanitized,
		Text:      text,
	}

	logger.Info("Parsed %s: %d sections, %d media, %d words in %v",
		src.Name(), len(doc.Sections), len(doc.Media), doc.WordCount, time.Since(start))
	return doc, nil
}

// ExtractMedia returns the converter's media with raw bytes kept.
func (s *IngestionService) ExtractMedia(ctx context.Context, src driven.Source) ([]domain.MediaItem, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no document source", domain.ErrInvalidInput)
	}
	conv, err := s.converter.Convert(ctx, src, domain.ParseOptions{ExtractMediaData: true})
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", src.Name(), err)
	}
	return conv.Media, nil
}
