package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/custodia-labs/lwb-ingest/internal/checksum"
	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

var (
	youTubePattern   = regexp.MustCompile(`(?i)youtu\.be/|youtube\.com/(watch\?v=|embed/|shorts/)`)
	audioFilePattern = regexp.MustCompile(`(?i)\.(mp3|wav|m4a)(\?|#|$)`)
)

// linkScanner upgrades anchors pointing at embeddable or audio media.
type linkScanner struct {
	newID func() string
}

func newLinkScanner() *linkScanner {
	return &linkScanner{newID: uuid.NewString}
}

// scan walks every a[href] in document order.
func (l *linkScanner) scan(src string) ([]domain.ContentSection, []domain.MediaItem) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, nil
	}

	var sections []domain.ContentSection
	var media []domain.MediaItem
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		var kind domain.SectionKind
		var typ domain.MediaType
		switch {
		case youTubePattern.MatchString(href):
			kind, typ = domain.SectionEmbed, domain.MediaEmbed
		case audioFilePattern.MatchString(href):
			kind, typ = domain.SectionAudio, domain.MediaAudio
		default:
			return
		}

		sections = append(sections, domain.ContentSection{Kind: kind, Text: href})
		media = append(media, domain.MediaItem{
			Type:     typ,
			ID:       l.newID(),
			Src:      href,
			Checksum: checksum.SumString(href),
		})
	})

	return sections, media
}
