package extractor

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

var (
	// openTagPattern matches the opening tag of a captured block.
	openTagPattern = regexp.MustCompile(`(?i)<(h[1-6]|p|ul|ol|blockquote|iframe)(\s[^>]*)?>`)

	// listItemPattern matches li spans inside a list body.
	listItemPattern = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)

	// tagPattern matches any markup tag.
	tagPattern = regexp.MustCompile(`<[^>]+>`)
)

// closeTagPatterns holds the closing-tag matcher for each captured block.
var closeTagPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(blockTags))
	for tag := range blockTags {
		m[tag] = regexp.MustCompile(`(?i)</` + tag + `\s*>`)
	}
	return m
}()

// regexScanner is the legacy single-pass scanner. Each opening tag is paired
// with the nearest matching closing tag, so same-tag nesting is not
// understood. An opening tag without a close is skipped and scanning resumes
// just after its "<".
type regexScanner struct{}

func (regexScanner) scan(src string) []domain.ContentSection {
	var sections []domain.ContentSection

	pos := 0
	for pos < len(src) {
		loc := openTagPattern.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			break
		}
		openStart, openEnd := pos+loc[0], pos+loc[1]
		tag := strings.ToLower(src[pos+loc[2] : pos+loc[3]])
		attrs := ""
		if loc[4] >= 0 {
			attrs = src[pos+loc[4] : pos+loc[5]]
		}

		closeLoc := closeTagPatterns[tag].FindStringIndex(src[openEnd:])
		if closeLoc == nil {
			pos = openStart + 1
			continue
		}
		inner := src[openEnd : openEnd+closeLoc[0]]
		pos = openEnd + closeLoc[1]

		if s, ok := legacySection(tag, attrs, inner); ok {
			sections = append(sections, s)
		}
	}

	return sections
}

func legacySection(tag, attrs, inner string) (domain.ContentSection, bool) {
	switch tag {
	case "p":
		text := strings.TrimSpace(StripTags(inner))
		return domain.ContentSection{Kind: domain.SectionParagraph, Text: text}, text != ""
	case "blockquote":
		text := strings.TrimSpace(StripTags(inner))
		return domain.ContentSection{Kind: domain.SectionQuote, Text: text}, text != ""
	case "ul", "ol":
		var items []string
		for _, m := range listItemPattern.FindAllStringSubmatch(inner, -1) {
			items = append(items, strings.TrimSpace(StripTags(m[1])))
		}
		text := joinItems(items)
		return domain.ContentSection{Kind: domain.SectionList, Text: text}, text != ""
	case "iframe":
		m := iframeSrcPattern.FindStringSubmatch(attrs)
		if m == nil {
			m = iframeSrcPattern.FindStringSubmatch(inner)
		}
		if m == nil {
			return domain.ContentSection{}, false
		}
		return domain.ContentSection{Kind: domain.SectionEmbed, Text: m[1]}, true
	default:
		return domain.ContentSection{
			Kind:  domain.SectionHeading,
			Level: int(tag[1] - '0'),
			Text:  strings.TrimSpace(StripTags(inner)),
		}, true
	}
}
