package domain

// ManifestInput is the content a manifest is derived from.
type ManifestInput struct {
	ID        string
	Title     string
	Version   int
	Sections  []ContentSection
	Media     []MediaItem
	WordCount *int
}

// ArticleManifest is a signed summary of one document version.
//
// Checksum is a pure function of (ID, Version, Sections, Media) and
// Signature is HMAC-SHA256 over Checksum with the configured secret.
type ArticleManifest struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Version       int    `json:"version"`
	WordCount     *int   `json:"wordCount,omitempty"`
	SectionsCount int    `json:"sectionsCount"`
	MediaCount    int    `json:"mediaCount"`
	Checksum      string `json:"checksum"`
	Signature     string `json:"signature"`
}
