package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lwb-ingest/internal/checksum"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

// strategies runs a test body against both structural scanners.
func strategies(t *testing.T, fn func(t *testing.T, e *Extractor)) {
	t.Helper()
	for _, s := range []domain.ExtractorStrategy{domain.ExtractorTokenizer, domain.ExtractorRegex} {
		t.Run(string(s), func(t *testing.T) {
			e, err := New(s)
			require.NoError(t, err)
			fn(t, e)
		})
	}
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New("dom")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	e, err := New("")
	require.NoError(t, err)
	assert.IsType(t, tokenScanner{}, e.structural)
}

func TestExtract_HeadingAndParagraphs(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, media := e.Extract("<h1>Title</h1><p>First paragraph.</p><p>Second paragraph.</p>")

		require.Len(t, sections, 3)
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionHeading, Level: 1, Text: "Title"}, sections[0])
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionParagraph, Text: "First paragraph."}, sections[1])
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionParagraph, Text: "Second paragraph."}, sections[2])
		assert.Empty(t, media)
	})
}

func TestExtract_WhitespaceParagraphDropped(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract("<p>   </p><p>\n\t</p><p>kept</p>")

		require.Len(t, sections, 1)
		assert.Equal(t, "kept", sections[0].Text)
	})
}

func TestExtract_HeadingLevels(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract("<h2> Two </h2><h6>Six</h6><H3>Three</H3><h4></h4>")

		require.Len(t, sections, 4)
		assert.Equal(t, 2, sections[0].Level)
		assert.Equal(t, "Two", sections[0].Text)
		assert.Equal(t, 6, sections[1].Level)
		assert.Equal(t, 3, sections[2].Level)
		assert.Equal(t, "Three", sections[2].Text)
		assert.Equal(t, domain.SectionHeading, sections[3].Kind, "empty headings are kept")
		assert.Empty(t, sections[3].Text)
	})
}

func TestExtract_InlineMarkupStripped(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract(`<p>Some <strong>bold</strong> and <em>italic</em> text</p>`)

		require.Len(t, sections, 1)
		assert.Equal(t, "Some bold and italic text", sections[0].Text)
	})
}

func TestExtract_Lists(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract("<ul><li>A</li><li> </li><li><em>B</em></li></ul><ol><li></li></ol><ol><li>1</li></ol>")

		require.Len(t, sections, 2)
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionList, Text: "A\nB"}, sections[0])
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionList, Text: "1"}, sections[1])
	})
}

func TestExtract_Quote(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract("<blockquote>Wise words</blockquote><blockquote>  </blockquote>")

		require.Len(t, sections, 1)
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionQuote, Text: "Wise words"}, sections[0])
	})
}

func TestExtract_Iframe(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract(
			`<iframe src="https://player.example.com/1" allowfullscreen></iframe>` +
				`<iframe>src='https://player.example.com/2'</iframe>` +
				`<iframe></iframe>`)

		require.Len(t, sections, 2)
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionEmbed, Text: "https://player.example.com/1"}, sections[0])
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionEmbed, Text: "https://player.example.com/2"}, sections[1])
	})
}

func TestExtract_OrderPreserved(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract("<p>one</p><h2>two</h2><ul><li>three</li></ul><blockquote>four</blockquote><p>five</p>")

		kinds := make([]domain.SectionKind, len(sections))
		for i, s := range sections {
			kinds[i] = s.Kind
		}
		assert.Equal(t, []domain.SectionKind{
			domain.SectionParagraph, domain.SectionHeading, domain.SectionList,
			domain.SectionQuote, domain.SectionParagraph,
		}, kinds)
	})
}

func TestExtract_UnterminatedSkipped(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract("<h1>Title</h1><p>never closed")

		require.Len(t, sections, 1)
		assert.Equal(t, domain.SectionHeading, sections[0].Kind)
	})
}

func TestExtract_RecoversAfterUnterminatedParagraph(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, _ := e.Extract("<h1>A</h1><p>unterminated <p>well formed</p><p>next</p>")

		require.Len(t, sections, 3)
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionHeading, Level: 1, Text: "A"}, sections[0])
		assert.Equal(t, domain.SectionParagraph, sections[1].Kind)
		assert.Contains(t, sections[1].Text, "well formed")
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionParagraph, Text: "next"}, sections[2])
	})
}

func TestTokenizer_ReopenedBlockDropsUnterminated(t *testing.T) {
	e, err := New(domain.ExtractorTokenizer)
	require.NoError(t, err)

	tests := []struct {
		name string
		html string
		want []domain.ContentSection
	}{
		{
			name: "paragraph",
			html: "<p>lost<p>kept</p>",
			want: []domain.ContentSection{{Kind: domain.SectionParagraph, Text: "kept"}},
		},
		{
			name: "heading",
			html: "<h2>lost<h2>Kept</h2><p>body</p>",
			want: []domain.ContentSection{
				{Kind: domain.SectionHeading, Level: 2, Text: "Kept"},
				{Kind: domain.SectionParagraph, Text: "body"},
			},
		},
		{
			name: "quote still nests",
			html: "<blockquote>outer<blockquote>inner</blockquote></blockquote><p>after</p>",
			want: []domain.ContentSection{
				{Kind: domain.SectionQuote, Text: "outerinner"},
				{Kind: domain.SectionParagraph, Text: "after"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, _ := e.Extract(tt.html)
			assert.Equal(t, tt.want, sections)
		})
	}
}

func TestTokenizer_NestedBlocks(t *testing.T) {
	e, err := New(domain.ExtractorTokenizer)
	require.NoError(t, err)

	sections, _ := e.Extract("<blockquote><p>First</p><p>Second</p></blockquote><p>After</p>")

	require.Len(t, sections, 2)
	assert.Equal(t, domain.ContentSection{Kind: domain.SectionQuote, Text: "First\nSecond"}, sections[0])
	assert.Equal(t, "After", sections[1].Text)
}

func TestTokenizer_NestedLists(t *testing.T) {
	e, err := New(domain.ExtractorTokenizer)
	require.NoError(t, err)

	sections, _ := e.Extract("<ul><li>Outer<ul><li>Inner</li></ul></li><li>Next</li></ul>")

	require.Len(t, sections, 1)
	assert.Equal(t, "OuterInner\nNext", sections[0].Text)
}

func TestTokenizer_EntitiesDecoded(t *testing.T) {
	e, err := New(domain.ExtractorTokenizer)
	require.NoError(t, err)

	sections, _ := e.Extract("<p>Fish &amp; chips &lt;3</p>")

	require.Len(t, sections, 1)
	assert.Equal(t, "Fish & chips <3", sections[0].Text)
}

func TestTokenizer_ScriptInsideBlockIgnored(t *testing.T) {
	e, err := New(domain.ExtractorTokenizer)
	require.NoError(t, err)

	sections, _ := e.Extract("<p>visible<script>hidden()</script></p>")

	require.Len(t, sections, 1)
	assert.Equal(t, "visible", sections[0].Text)
}

func TestTokenizer_LineBreaks(t *testing.T) {
	e, err := New(domain.ExtractorTokenizer)
	require.NoError(t, err)

	sections, _ := e.Extract("<p>line one<br/>line two</p>")

	require.Len(t, sections, 1)
	assert.Equal(t, "line one\nline two", sections[0].Text)
}

func TestRegex_NestingIsLossy(t *testing.T) {
	e, err := New(domain.ExtractorRegex)
	require.NoError(t, err)

	// The blockquote closes at the first </blockquote>, swallowing the
	// inner paragraphs; the trailing paragraph is still found.
	sections, _ := e.Extract("<blockquote><p>First</p><p>Second</p></blockquote><p>After</p>")

	require.Len(t, sections, 2)
	assert.Equal(t, domain.ContentSection{Kind: domain.SectionQuote, Text: "FirstSecond"}, sections[0])
	assert.Equal(t, "After", sections[1].Text)
}

func TestExtract_YouTubeLinkUpgrade(t *testing.T) {
	strategies(t, func(t *testing.T, e *Extractor) {
		sections, media := e.Extract(`<h1>A</h1><p>hello <a href="https://youtu.be/xyz123">watch</a></p>`)

		require.Len(t, sections, 3)
		assert.Equal(t, domain.SectionHeading, sections[0].Kind)
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionParagraph, Text: "hello watch"}, sections[1])
		assert.Equal(t, domain.ContentSection{Kind: domain.SectionEmbed, Text: "https://youtu.be/xyz123"}, sections[2])

		require.Len(t, media, 1)
		assert.Equal(t, domain.MediaEmbed, media[0].Type)
		assert.Equal(t, "https://youtu.be/xyz123", media[0].Src)
		assert.Equal(t, checksum.SumString("https://youtu.be/xyz123"), media[0].Checksum)
		assert.NotEmpty(t, media[0].ID)
	})
}

func TestLinkScanner_Patterns(t *testing.T) {
	tests := []struct {
		href string
		kind domain.SectionKind
	}{
		{"https://youtu.be/abc", domain.SectionEmbed},
		{"https://www.youtube.com/watch?v=abc", domain.SectionEmbed},
		{"https://www.youtube.com/embed/abc", domain.SectionEmbed},
		{"https://youtube.com/shorts/abc", domain.SectionEmbed},
		{"https://cdn.example.com/ep1.mp3", domain.SectionAudio},
		{"https://cdn.example.com/ep1.WAV?dl=1", domain.SectionAudio},
		{"https://cdn.example.com/ep1.m4a#t=30", domain.SectionAudio},
		{"https://example.com/page", ""},
		{"https://example.com/ep1.mp3.html", ""},
		{"https://vimeo.com/123", ""},
	}

	l := newLinkScanner()
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			sections, media := l.scan(`<a href="` + tt.href + `">x</a>`)
			if tt.kind == "" {
				assert.Empty(t, sections)
				assert.Empty(t, media)
				return
			}
			require.Len(t, sections, 1)
			require.Len(t, media, 1)
			assert.Equal(t, tt.kind, sections[0].Kind)
			assert.Equal(t, tt.href, sections[0].Text)
			assert.Equal(t, string(tt.kind), string(media[0].Type))
		})
	}
}

func TestLinkScanner_DocumentOrderAndDecodedHref(t *testing.T) {
	ids := []string{"id-1", "id-2"}
	l := &linkScanner{newID: func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}}

	sections, media := l.scan(`<p><a href="https://a.example/x.mp3">a</a></p>` +
		`<a href="https://www.youtube.com/watch?v=q&amp;t=1">b</a><a>no href</a><a href="">empty</a>`)

	require.Len(t, sections, 2)
	assert.Equal(t, domain.SectionAudio, sections[0].Kind)
	assert.Equal(t, "https://www.youtube.com/watch?v=q&t=1", sections[1].Text)
	assert.Equal(t, "id-1", media[0].ID)
	assert.Equal(t, "id-2", media[1].ID)
}

func TestExtract_LinkSectionsTrailStructural(t *testing.T) {
	e, err := New(domain.ExtractorTokenizer)
	require.NoError(t, err)

	sections, _ := e.Extract(`<p><a href="https://youtu.be/first">v</a></p><p>after</p>`)

	require.Len(t, sections, 3)
	assert.Equal(t, domain.SectionParagraph, sections[0].Kind)
	assert.Equal(t, domain.SectionParagraph, sections[1].Kind)
	assert.Equal(t, domain.SectionEmbed, sections[2].Kind)
}
