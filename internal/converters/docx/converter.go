package docx

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Converter converts .docx packages to HTML.
type Converter struct {
	handler ImageHandler
	maxSize int64
}

// Option configures a Converter.
type Option func(*Converter)

// WithImageHandler replaces the default inline data-URI image handler.
func WithImageHandler(h ImageHandler) Option {
	return func(c *Converter) {
		if h != nil {
			c.handler = h
		}
	}
}

// WithMaxSize rejects sources larger than n bytes. Zero disables the limit.
func WithMaxSize(n int64) Option {
	return func(c *Converter) {
		c.maxSize = n
	}
}

// New creates a docx converter.
func New(opts ...Option) *Converter {
	c := &Converter{handler: InlineImage}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SupportedExtensions returns the file extensions this converter reads.
func (c *Converter) SupportedExtensions() []string {
	return []string{".docx"}
}

// Convert reads the source and returns its HTML and embedded images.
func (c *Converter) Convert(ctx context.Context, src driven.Source, opts domain.ParseOptions) (*driven.Conversion, error) {
	r, size, closer, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", src.Name(), err)
	}
	defer closer.Close()

	if c.maxSize > 0 && size > c.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrDocumentTooLarge, src.Name(), size, c.maxSize)
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidDocument, src.Name(), err)
	}
	pkg := newArchive(zr)

	body, ok, err := pkg.read(documentPart)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidDocument, documentPart, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s", domain.ErrInvalidDocument, src.Name(), documentPart)
	}

	var (
		rels   relationshipsXML
		types  contentTypesXML
		styles stylesXML
		nums   numberingXML
		core   coreXML
	)
	for _, part := range []struct {
		name string
		v    any
	}{
		{relsPart, &rels},
		{contentTypesPart, &types},
		{stylesPart, &styles},
		{numberingPart, &nums},
	} {
		if err := pkg.decode(part.name, part.v); err != nil {
			return nil, err
		}
	}
	// A broken core properties part only costs the title.
	_ = pkg.decode(corePart, &core)

	w := &walker{
		ctx:     ctx,
		opts:    opts,
		archive: pkg,
		rels:    make(map[string]relationship, len(rels.Relationships)),
		types:   newContentTypes(types),
		styles:  make(map[string]string, len(styles.Styles)),
		numbers: newNumbering(nums),
		handler: c.handler,
	}
	for _, rel := range rels.Relationships {
		w.rels[rel.ID] = rel
	}
	for _, s := range styles.Styles {
		w.styles[s.ID] = s.Name.Val
	}

	if err := w.walk(body); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("converting %s: %w", src.Name(), err)
	}

	return &driven.Conversion{
		Title: strings.TrimSpace(core.Title),
		HTML:  w.out.String(),
		Media: w.media,
	}, nil
}

// ExtractMedia converts the source keeping image bytes and returns only the media.
func (c *Converter) ExtractMedia(ctx context.Context, src driven.Source) ([]domain.MediaItem, error) {
	conv, err := c.Convert(ctx, src, domain.ParseOptions{ExtractMediaData: true})
	if err != nil {
		return nil, err
	}
	return conv.Media, nil
}
