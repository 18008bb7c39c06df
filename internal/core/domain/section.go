package domain

// SectionKind identifies the kind of an extracted content block.
type SectionKind string

// Available section kinds.
const (
	SectionHeading   SectionKind = "heading"
	SectionParagraph SectionKind = "paragraph"
	SectionList      SectionKind = "list"
	SectionQuote     SectionKind = "quote"
	SectionImage     SectionKind = "image"
	SectionAudio     SectionKind = "audio"
	SectionVideo     SectionKind = "video"
	SectionEmbed     SectionKind = "embed"
)

// IsValid returns true if the section kind is recognised.
func (k SectionKind) IsValid() bool {
	switch k {
	case SectionHeading, SectionParagraph, SectionList, SectionQuote,
		SectionImage, SectionAudio, SectionVideo, SectionEmbed:
		return true
	default:
		return false
	}
}

// ContentSection is one typed block of extracted document content.
// Sections keep the relative order of their originating tags.
type ContentSection struct {
	// Kind is the block type.
	Kind SectionKind `json:"kind"`

	// Level is the heading depth (1-6). Zero for non-headings.
	Level int `json:"level,omitempty"`

	// Text is the plain text payload. List items are newline-joined.
	Text string `json:"text,omitempty"`

	// HTML is reserved for richer per-block markup.
	HTML string `json:"html,omitempty"`

	// MediaRefID optionally references a MediaItem.
	MediaRefID string `json:"mediaRefId,omitempty"`
}
