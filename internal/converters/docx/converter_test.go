package docx

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lwb-ingest/internal/checksum"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

func convert(t *testing.T, d *docBuilder, opts domain.ParseOptions) *driven.Conversion {
	t.Helper()
	conv, err := New().Convert(context.Background(), d.source(t), opts)
	require.NoError(t, err)
	return conv
}

func TestConverter_SupportedExtensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().SupportedExtensions())
}

func TestConvert_BlockStyles(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  string
	}{
		{"title", "Title", "<h1>Text</h1>"},
		{"subtitle", "Subtitle", "<h2>Text</h2>"},
		{"heading 1", "Heading1", "<h1>Text</h1>"},
		{"heading 3", "Heading3", "<h3>Text</h3>"},
		{"undeclared heading id", "Heading5", "<h5>Text</h5>"},
		{"quote", "Quote", "<blockquote><p>Text</p></blockquote>"},
		{"intense quote by name", "Zitat", "<blockquote><p>Text</p></blockquote>"},
		{"no style", "", "<p>Text</p>"},
		{"unknown style", "Caption", "<p>Text</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := convert(t, newDoc().para(tt.style, run("Text")), domain.ParseOptions{})
			assert.Equal(t, tt.want, conv.HTML)
		})
	}
}

func TestConvert_RunFormatting(t *testing.T) {
	tests := []struct {
		name string
		runs string
		want string
	}{
		{
			name: "escapes text",
			runs: run("Fish &amp; chips &lt;3"),
			want: "<p>Fish &amp; chips &lt;3</p>",
		},
		{
			name: "bold and italic",
			runs: `<w:r><w:rPr><w:b/><w:i/></w:rPr><w:t>both</w:t></w:r>`,
			want: "<p><strong><em>both</em></strong></p>",
		},
		{
			name: "bold switched off",
			runs: `<w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>plain</w:t></w:r>`,
			want: "<p>plain</p>",
		},
		{
			name: "line break and tab",
			runs: `<w:r><w:t>a</w:t><w:br/><w:t>b</w:t><w:tab/><w:t>c</w:t></w:r>`,
			want: "<p>a<br />b c</p>",
		},
		{
			name: "page break ignored",
			runs: `<w:r><w:t>a</w:t><w:br w:type="page"/></w:r>`,
			want: "<p>a</p>",
		},
		{
			name: "multiple runs",
			runs: run("Hello ") + `<w:r><w:rPr><w:i/></w:rPr><w:t>world</w:t></w:r>`,
			want: "<p>Hello <em>world</em></p>",
		},
		{
			name: "deleted text dropped",
			runs: run("kept") + `<w:del><w:r><w:delText>gone</w:delText></w:r></w:del>`,
			want: "<p>kept</p>",
		},
		{
			name: "inserted text kept",
			runs: `<w:ins>` + run("new") + `</w:ins>`,
			want: "<p>new</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := convert(t, newDoc().para("", tt.runs), domain.ParseOptions{})
			assert.Equal(t, tt.want, conv.HTML)
		})
	}
}

func TestConvert_Lists(t *testing.T) {
	d := newDoc().
		item("1", "0", "one").
		item("1", "0", "two").
		item("2", "0", "first").
		item("2", "1", "nested").
		para("", run("after"))

	conv := convert(t, d, domain.ParseOptions{})

	assert.Equal(t,
		"<ul><li>one</li><li>two</li></ul><ol><li>first</li><li>nested</li></ol><p>after</p>",
		conv.HTML)
}

func TestConvert_ListClosedAtEnd(t *testing.T) {
	conv := convert(t, newDoc().item("1", "0", "only"), domain.ParseOptions{})
	assert.Equal(t, "<ul><li>only</li></ul>", conv.HTML)
}

func TestConvert_SkipsEmptyParagraphs(t *testing.T) {
	d := newDoc().
		raw("<w:p/>").
		para("", run("   ")).
		para("", run("text"))

	conv := convert(t, d, domain.ParseOptions{})
	assert.Equal(t, "<p>text</p>", conv.HTML)
}

func TestConvert_TableCells(t *testing.T) {
	d := newDoc().raw(`<w:tbl><w:tr><w:tc><w:p>` + run("left") + `</w:p></w:tc><w:tc><w:p>` +
		run("right") + `</w:p></w:tc></w:tr></w:tbl>`)

	conv := convert(t, d, domain.ParseOptions{})
	assert.Equal(t, "<p>left</p><p>right</p>", conv.HTML)
}

func TestConvert_Hyperlinks(t *testing.T) {
	d := newDoc().
		rel("rId5", relHyperlink, "https://example.com/page", true).
		para("", run("Visit ")+`<w:hyperlink r:id="rId5">`+run("site")+`</w:hyperlink>`).
		para("", `<w:hyperlink w:anchor="intro">`+run("top")+`</w:hyperlink>`).
		para("", `<w:hyperlink r:id="rId404">`+run("dangling")+`</w:hyperlink>`)

	conv := convert(t, d, domain.ParseOptions{})

	assert.Equal(t,
		`<p>Visit <a href="https://example.com/page">site</a></p>`+
			`<p><a href="#intro">top</a></p>`+
			`<p>dangling</p>`,
		conv.HTML)
}

func TestConvert_InlineImage(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "media/image1.png", false).
		part("word/media/image1.png", pngBytes).
		para("", drawing("rId9", "A dot"))

	conv := convert(t, d, domain.ParseOptions{})

	require.Len(t, conv.Media, 1)
	item := conv.Media[0]
	assert.Equal(t, domain.MediaImage, item.Type)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "image-"+item.ID+".png", item.Filename)
	assert.Equal(t, "image/png", item.ContentType)
	assert.Equal(t, checksum.Sum(pngBytes), item.Checksum)
	assert.Nil(t, item.Data, "bytes are kept only on request")

	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	assert.Equal(t, `<p><img src="`+src+`" alt="A dot" /></p>`, conv.HTML)
}

func TestConvert_ImageDataOnRequest(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "media/image1.png", false).
		part("word/media/image1.png", pngBytes).
		para("", drawing("rId9", ""))

	conv := convert(t, d, domain.ParseOptions{ExtractMediaData: true})

	require.Len(t, conv.Media, 1)
	assert.Equal(t, pngBytes, conv.Media[0].Data)
	assert.Equal(t, checksum.Sum(conv.Media[0].Data), conv.Media[0].Checksum)
	assert.NotContains(t, conv.HTML, "alt=")
}

func TestConvert_ImagesInDocumentOrder(t *testing.T) {
	second := append([]byte{}, pngBytes...)
	second[len(second)-1] ^= 0xff

	d := newDoc().
		rel("rId1", relImage, "media/a.png", false).
		rel("rId2", relImage, "media/b.png", false).
		part("word/media/a.png", pngBytes).
		part("word/media/b.png", second).
		para("", drawing("rId2", "b")).
		para("", drawing("rId1", "a"))

	conv := convert(t, d, domain.ParseOptions{})

	require.Len(t, conv.Media, 2)
	assert.Equal(t, checksum.Sum(second), conv.Media[0].Checksum)
	assert.Equal(t, checksum.Sum(pngBytes), conv.Media[1].Checksum)
	assert.NotEqual(t, conv.Media[0].ID, conv.Media[1].ID)
}

func TestConvert_ImageContentTypeFallback(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "media/photo.jpeg", false).
		part("word/media/photo.jpeg", []byte{0xff, 0xd8, 0xff}).
		para("", drawing("rId9", ""))

	conv := convert(t, d, domain.ParseOptions{})

	require.Len(t, conv.Media, 1)
	assert.Equal(t, "image/jpeg", conv.Media[0].ContentType)
	assert.Equal(t, "jpeg", strings.TrimPrefix(filepath.Ext(conv.Media[0].Filename), "."))
}

func TestConvert_ExternalImageIgnored(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "https://example.com/x.png", true).
		para("", run("caption")+drawing("rId9", ""))

	conv := convert(t, d, domain.ParseOptions{})

	assert.Empty(t, conv.Media)
	assert.Equal(t, "<p>caption</p>", conv.HTML)
}

func TestConvert_MissingImagePart(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "media/missing.png", false).
		para("", drawing("rId9", ""))

	_, err := New().Convert(context.Background(), d.source(t), domain.ParseOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	var readErr *ImageReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "rId9", readErr.RelID)
	assert.Equal(t, "word/media/missing.png", readErr.Part)
}

func TestConvert_CustomImageHandler(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "media/image1.png", false).
		part("word/media/image1.png", pngBytes).
		para("", drawing("rId9", "dot"))

	var seen []string
	handler := func(_ context.Context, img *Image, _ domain.ParseOptions) (domain.MediaItem, string, error) {
		seen = append(seen, img.ContentType+"|"+img.AltText)
		return domain.MediaItem{Type: domain.MediaImage, ID: "fixed"}, "/media/fixed.png", nil
	}

	conv, err := New(WithImageHandler(handler)).Convert(context.Background(), d.source(t), domain.ParseOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"image/png|dot"}, seen)
	assert.Equal(t, `<p><img src="/media/fixed.png" alt="dot" /></p>`, conv.HTML)
	require.Len(t, conv.Media, 1)
	assert.Equal(t, "fixed", conv.Media[0].ID)
}

func TestConvert_ImageHandlerError(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "media/image1.png", false).
		part("word/media/image1.png", pngBytes).
		para("", drawing("rId9", ""))

	boom := errors.New("boom")
	handler := func(context.Context, *Image, domain.ParseOptions) (domain.MediaItem, string, error) {
		return domain.MediaItem{}, "", boom
	}

	conv, err := New(WithImageHandler(handler)).Convert(context.Background(), d.source(t), domain.ParseOptions{})

	assert.Nil(t, conv)
	assert.ErrorIs(t, err, boom)
}

func TestConvert_Title(t *testing.T) {
	d := newDoc().
		part(corePart, []byte(`<?xml version="1.0" encoding="UTF-8"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title> Field Notes </dc:title></cp:coreProperties>`)).
		para("", run("body"))

	conv := convert(t, d, domain.ParseOptions{})
	assert.Equal(t, "Field Notes", conv.Title)
}

func TestConvert_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content func(t *testing.T) []byte
	}{
		{"not a zip", func(*testing.T) []byte { return []byte("definitely not a docx") }},
		{"empty", func(*testing.T) []byte { return nil }},
		{"missing document part", func(t *testing.T) []byte { return newDoc().without(documentPart).bytes(t) }},
		{"malformed body", func(t *testing.T) []byte { return newDoc().raw("<w:p><w:r>").bytes(t) }},
		{"malformed relationships", func(t *testing.T) []byte {
			return newDoc().part(relsPart, []byte("<Relationships><oops")).bytes(t)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := driven.BytesSource{Filename: "bad.docx", Content: tt.content(t)}

			conv, err := New().Convert(context.Background(), src, domain.ParseOptions{})

			assert.Nil(t, conv)
			assert.ErrorIs(t, err, domain.ErrInvalidDocument)
		})
	}
}

func TestConvert_SizeLimit(t *testing.T) {
	src := newDoc().para("", run("text")).source(t)

	_, err := New(WithMaxSize(16)).Convert(context.Background(), src, domain.ParseOptions{})
	assert.ErrorIs(t, err, domain.ErrDocumentTooLarge)

	_, err = New(WithMaxSize(1 << 20)).Convert(context.Background(), src, domain.ParseOptions{})
	assert.NoError(t, err)
}

func TestConvert_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Convert(ctx, newDoc().para("", run("text")).source(t), domain.ParseOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvert_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	require.NoError(t, os.WriteFile(path, newDoc().para("Heading1", run("On disk")).bytes(t), 0600))

	conv, err := New().Convert(context.Background(), driven.FileSource(path), domain.ParseOptions{})

	require.NoError(t, err)
	assert.Equal(t, "<h1>On disk</h1>", conv.HTML)
}

func TestConvert_MissingFile(t *testing.T) {
	_, err := New().Convert(context.Background(), driven.FileSource(filepath.Join(t.TempDir(), "nope.docx")), domain.ParseOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractMedia(t *testing.T) {
	d := newDoc().
		rel("rId9", relImage, "media/image1.png", false).
		part("word/media/image1.png", pngBytes).
		para("", drawing("rId9", ""))

	media, err := New().ExtractMedia(context.Background(), d.source(t))

	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, pngBytes, media[0].Data)
}
