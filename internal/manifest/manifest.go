// Package manifest builds and verifies signed article manifests.
//
// A manifest's checksum is the SHA-256 of a canonical JSON projection of
// the article's id, version, sections and media. Generated media ids, raw
// bytes and content types are not part of the projection, so two ingestions
// of the same document produce the same checksum. The signature is an
// HMAC-SHA256 over the hex checksum.
package manifest

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/lwb-ingest/internal/checksum"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

// sectionProjection is the checksum-relevant part of a ContentSection.
type sectionProjection struct {
	Kind       domain.SectionKind `json:"k"`
	Level      int                `json:"l,omitempty"`
	Text       string             `json:"t"`
	MediaRefID string             `json:"m,omitempty"`
}

// mediaProjection is the checksum-relevant part of a MediaItem.
type mediaProjection struct {
	Type     domain.MediaType `json:"t"`
	Filename string           `json:"f,omitempty"`
	Checksum string           `json:"c,omitempty"`
	Src      string           `json:"s,omitempty"`
}

// canonical fixes the key order of the serialized projection.
type canonical struct {
	ID       string              `json:"id"`
	Version  int                 `json:"version"`
	Sections []sectionProjection `json:"sections"`
	Media    []mediaProjection   `json:"media"`
}

// Build computes the checksum and signature for in.
func Build(in domain.ManifestInput, secret string) (*domain.ArticleManifest, error) {
	if secret == "" {
		return nil, domain.ErrMissingSecret
	}

	sum, err := Checksum(in)
	if err != nil {
		return nil, err
	}

	return &domain.ArticleManifest{
		ID:            in.ID,
		Title:         in.Title,
		Version:       in.Version,
		WordCount:     in.WordCount,
		SectionsCount: len(in.Sections),
		MediaCount:    len(in.Media),
		Checksum:      sum,
		Signature:     Sign(sum, secret),
	}, nil
}

// Checksum returns the content checksum of in. It needs no secret.
func Checksum(in domain.ManifestInput) (string, error) {
	if in.ID == "" {
		return "", fmt.Errorf("%w: manifest id is required", domain.ErrInvalidInput)
	}
	if in.Version < 1 {
		return "", fmt.Errorf("%w: manifest version must be >= 1, got %d", domain.ErrInvalidInput, in.Version)
	}

	data, err := Canonical(in)
	if err != nil {
		return "", err
	}
	return checksum.Sum(data), nil
}

// Canonical returns the serialized projection the checksum is computed over.
func Canonical(in domain.ManifestInput) ([]byte, error) {
	c := canonical{
		ID:       in.ID,
		Version:  in.Version,
		Sections: make([]sectionProjection, len(in.Sections)),
		Media:    make([]mediaProjection, len(in.Media)),
	}
	for i, s := range in.Sections {
		c.Sections[i] = sectionProjection{Kind: s.Kind, Level: s.Level, Text: s.Text, MediaRefID: s.MediaRefID}
	}
	for i, m := range in.Media {
		c.Media[i] = mediaProjection{Type: m.Type, Filename: m.Filename, Checksum: m.Checksum, Src: m.Src}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding manifest projection: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Sign returns hex(HMAC-SHA256(secret, sum)).
func Sign(sum, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sum))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the manifest for in and compares it with m.
// Any mismatch is reported as domain.ErrUntrustedContent.
func Verify(m domain.ArticleManifest, in domain.ManifestInput, secret string) error {
	if secret == "" {
		return domain.ErrMissingSecret
	}
	if m.ID != in.ID || m.Version != in.Version {
		return fmt.Errorf("%w: identity mismatch", domain.ErrUntrustedContent)
	}

	sum, err := Checksum(in)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(sum), []byte(m.Checksum)) {
		return fmt.Errorf("%w: checksum mismatch", domain.ErrUntrustedContent)
	}
	if !hmac.Equal([]byte(Sign(sum, secret)), []byte(m.Signature)) {
		return fmt.Errorf("%w: signature mismatch", domain.ErrUntrustedContent)
	}
	return nil
}
