package domain

import "time"

// StoredSection is a ContentSection with its persisted position.
type StoredSection struct {
	Order int `json:"order"`
	ContentSection
}

// StoredArticle is a persisted article version.
// Media is stored as metadata only; binary data is never persisted here.
type StoredArticle struct {
	ID        string          `json:"id"`
	Slug      string          `json:"slug"`
	Title     string          `json:"title"`
	Version   int             `json:"version"`
	WordCount int             `json:"wordCount"`
	Sections  []StoredSection `json:"sections"`
	Media     []MediaItem     `json:"media"`
	Checksum  string          `json:"checksum"`
	Signature string          `json:"signature,omitempty"`
	HTML      string          `json:"html,omitempty"`
	Text      string          `json:"text,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ContentSections returns the sections ordered as stored, without positions.
func (a *StoredArticle) ContentSections() []ContentSection {
	out := make([]ContentSection, len(a.Sections))
	for i, s := range a.Sections {
		out[i] = s.ContentSection
	}
	return out
}

// ManifestInput returns the manifest input for this article version.
func (a *StoredArticle) ManifestInput() ManifestInput {
	wc := a.WordCount
	return ManifestInput{
		ID:        a.ID,
		Title:     a.Title,
		Version:   a.Version,
		Sections:  a.ContentSections(),
		Media:     a.Media,
		WordCount: &wc,
	}
}

// ManifestSummary is one entry of the public manifest listing.
type ManifestSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	WordCount int       `json:"wordCount"`
}
