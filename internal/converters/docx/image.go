package docx

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/lwb-ingest/internal/checksum"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

// Image is an embedded picture as found in the package.
type Image struct {
	// ContentType is the MIME type declared for the image part.
	ContentType string
	// AltText is the drawing's description, if any.
	AltText string

	data []byte
}

// Bytes returns the raw image bytes.
func (img *Image) Bytes() []byte {
	return img.data
}

// Base64 returns the image bytes base64-encoded.
func (img *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.data)
}

// ImageHandler catalogues one embedded image. It returns the media item to
// record and the src to write into the img tag. Handlers are invoked
// sequentially in document order.
type ImageHandler func(ctx context.Context, img *Image, opts domain.ParseOptions) (domain.MediaItem, string, error)

// ImageReadError reports an image relationship that could not be read.
type ImageReadError struct {
	RelID string
	Part  string
	Err   error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("reading image %s (%s): %v", e.RelID, e.Part, e.Err)
}

func (e *ImageReadError) Unwrap() error {
	return e.Err
}

// InlineImage is the default handler. It records an image media item with a
// generated id and filename and a checksum over the raw bytes, keeps the
// bytes only when opts.ExtractMediaData is set, and returns a data URI.
func InlineImage(_ context.Context, img *Image, opts domain.ParseOptions) (domain.MediaItem, string, error) {
	data := img.Bytes()
	id := uuid.NewString()

	item := domain.MediaItem{
		Type:        domain.MediaImage,
		ID:          id,
		Filename:    "image-" + id + "." + extension(img.ContentType),
		ContentType: img.ContentType,
		Checksum:    checksum.Sum(data),
	}
	if opts.ExtractMediaData {
		item.Data = data
	}

	return item, "data:" + img.ContentType + ";base64," + img.Base64(), nil
}

// extension derives a file extension from a MIME type: "image/png" -> "png".
func extension(contentType string) string {
	_, sub, ok := strings.Cut(contentType, "/")
	if !ok {
		return "bin"
	}
	sub, _, _ = strings.Cut(sub, ";")
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return "bin"
	}
	return sub
}
