package domain

// ParseOptions controls a single ingestion call.
type ParseOptions struct {
	// WithHTML sanitizes the converter output and returns it in ParsedDocument.HTML.
	// Section extraction runs on the sanitized HTML when set, on raw HTML otherwise.
	WithHTML bool

	// ExtractMediaData keeps the raw bytes of embedded images in MediaItem.Data.
	ExtractMediaData bool
}

// ParsedDocument is the result of ingesting one document.
// It is an immutable value object created per ingestion call.
type ParsedDocument struct {
	// Title is the document's own title property, if it declares one.
	Title string `json:"title,omitempty"`

	// Sections are the extracted blocks in document order,
	// followed by link-derived embed/audio sections.
	Sections []ContentSection `json:"sections"`

	// Media holds converter images followed by link-derived media.
	Media []MediaItem `json:"media"`

	// WordCount counts whitespace-split tokens of the unsanitized plain text.
	WordCount int `json:"wordCount"`

	// HTML is the sanitized HTML, only when ParseOptions.WithHTML was set.
	HTML string `json:"html,omitempty"`

	// Text is the plain text of the unsanitized HTML.
	Text string `json:"text,omitempty"`
}

// ParseSummary is a truncated view of a ParsedDocument for display.
type ParseSummary struct {
	File          string           `json:"file"`
	Title         string           `json:"title,omitempty"`
	WordCount     int              `json:"wordCount"`
	Sections      []ContentSection `json:"sections"`
	SectionsTotal int              `json:"sectionsTotal"`
	Media         []MediaItem      `json:"media"`
	MediaTotal    int              `json:"mediaTotal"`
}

// Summary returns the first limit sections and media items of d, with
// media bytes dropped. A limit of zero or less keeps everything.
func (d *ParsedDocument) Summary(file string, limit int) ParseSummary {
	sections := d.Sections
	if limit > 0 && len(sections) > limit {
		sections = sections[:limit]
	}
	media := d.Media
	if limit > 0 && len(media) > limit {
		media = media[:limit]
	}

	s := ParseSummary{
		File:          file,
		Title:         d.Title,
		WordCount:     d.WordCount,
		Sections:      append([]ContentSection{}, sections...),
		SectionsTotal: len(d.Sections),
		Media:         make([]MediaItem, len(media)),
		MediaTotal:    len(d.Media),
	}
	for i, m := range media {
		s.Media[i] = m.WithoutData()
	}
	return s
}
