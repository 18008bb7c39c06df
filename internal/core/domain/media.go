package domain

// MediaType identifies the kind of a catalogued asset.
type MediaType string

// Available media types.
const (
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
	MediaEmbed MediaType = "embed"
)

// IsValid returns true if the media type is recognised.
func (t MediaType) IsValid() bool {
	switch t {
	case MediaImage, MediaAudio, MediaVideo, MediaEmbed:
		return true
	default:
		return false
	}
}

// MediaItem is a catalog entry for an embedded or linked asset.
//
// Items carrying Data always have a Checksum computed over those exact bytes.
// Link-based items (Src set) carry a checksum over the UTF-8 bytes of the
// link itself, which serves as an identity key rather than an integrity check.
type MediaItem struct {
	// Type is the kind of asset.
	Type MediaType `json:"type"`

	// ID is a generated identifier. It is never part of the manifest checksum.
	ID string `json:"id"`

	// Filename is the generated file name for binary assets.
	Filename string `json:"filename,omitempty"`

	// ContentType is the declared MIME type for binary assets.
	ContentType string `json:"contentType,omitempty"`

	// Data holds the raw bytes, only when explicitly requested.
	Data []byte `json:"-"`

	// Src is the URI for link-based media.
	Src string `json:"src,omitempty"`

	// Checksum is the 64-char lowercase hex SHA-256.
	Checksum string `json:"checksum,omitempty"`
}

// WithoutData returns a copy of the item with Data cleared.
func (m MediaItem) WithoutData() MediaItem {
	m.Data = nil
	return m
}
