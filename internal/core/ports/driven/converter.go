package driven

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

// Source is a document byte source: a file path or an in-memory buffer.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Open returns a random-access reader over the document and its size.
	Open() (io.ReaderAt, int64, io.Closer, error)
}

// FileSource reads a document from the filesystem.
type FileSource string

// Name returns the file path.
func (f FileSource) Name() string { return string(f) }

// Open opens the file for random access.
func (f FileSource) Open() (io.ReaderAt, int64, io.Closer, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, 0, nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, nil, err
	}
	return file, info.Size(), file, nil
}

// BytesSource is a document held in memory, e.g. a multipart upload.
type BytesSource struct {
	Filename string
	Content  []byte
}

// Name returns the original filename.
func (b BytesSource) Name() string { return b.Filename }

// Open wraps the buffer in a reader.
func (b BytesSource) Open() (io.ReaderAt, int64, io.Closer, error) {
	return bytes.NewReader(b.Content), int64(len(b.Content)), io.NopCloser(nil), nil
}

// Conversion is the output of a Converter: unsanitized HTML plus the
// media catalogued while producing it, in document order.
type Conversion struct {
	Title string
	HTML  string
	Media []domain.MediaItem
}

// Converter turns a binary document into HTML.
type Converter interface {
	// SupportedExtensions returns the file extensions this converter reads.
	SupportedExtensions() []string

	// Convert converts the source. Any failure to read the document is
	// returned wrapped around domain.ErrInvalidDocument; no partial result
	// is returned.
	Convert(ctx context.Context, src Source, opts domain.ParseOptions) (*Conversion, error)
}
