package extractor

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

// iframeSrcPattern finds a src attribute inside raw markup.
var iframeSrcPattern = regexp.MustCompile(`(?i)src=["']([^"']+)["']`)

// blockTags are the elements the structural pass captures.
var blockTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "ul": true, "ol": true, "blockquote": true, "iframe": true,
}

// nestingTags are the captured elements that may contain themselves.
var nestingTags = map[string]bool{"ul": true, "ol": true, "blockquote": true}

// tokenScanner walks the HTML token stream with golang.org/x/net/html.
// Same-tag nesting is tracked by depth for lists and quotes, so a
// blockquote containing paragraphs becomes a single quote section. A
// paragraph or heading reopened before it is closed is dropped as
// unterminated and the scan resumes at the new tag.
type tokenScanner struct{}

// block accumulates one top-level span.
type block struct {
	tag   string
	depth int
	text  strings.Builder
	src   string

	items   []string
	item    *strings.Builder
	liDepth int
}

func (b *block) isList() bool {
	return b.tag == "ul" || b.tag == "ol"
}

func (b *block) write(s string) {
	if b.isList() {
		if b.item != nil {
			b.item.WriteString(s)
		}
		return
	}
	b.text.WriteString(s)
}

func (tokenScanner) scan(src string) []domain.ContentSection {
	var sections []domain.ContentSection
	var cur *block
	var skip string

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// End of input. A block still open here is unterminated and dropped.
			return sections

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := z.TagName()
			name := string(tn)

			if cur == nil {
				if !blockTags[name] {
					continue
				}
				if tt == html.SelfClosingTagToken && name != "iframe" {
					continue
				}
				cur = &block{tag: name, depth: 1}
				if name == "iframe" {
					cur.src = attr(z, hasAttr, "src")
					if tt == html.SelfClosingTagToken {
						sections = appendBlock(sections, cur)
						cur = nil
					}
				}
				continue
			}

			if tt == html.SelfClosingTagToken {
				if name == "br" {
					cur.write("\n")
				}
				continue
			}
			switch {
			case name == cur.tag && nestingTags[name]:
				cur.depth++
			case name == cur.tag:
				cur = &block{tag: name, depth: 1}
			case name == "script", name == "style":
				skip = name
			case name == "br":
				cur.write("\n")
			case name == "li":
				if cur.isList() {
					if cur.liDepth == 0 {
						cur.item = &strings.Builder{}
					}
					cur.liDepth++
				}
			}

		case html.EndTagToken:
			if cur == nil {
				continue
			}
			tn, _ := z.TagName()
			name := string(tn)

			if name == skip {
				skip = ""
				continue
			}
			if (name == "p" || name == "div") && name != cur.tag {
				cur.write("\n")
			}
			if name == "li" && cur.isList() && cur.liDepth > 0 {
				cur.liDepth--
				if cur.liDepth == 0 {
					cur.items = append(cur.items, strings.TrimSpace(cur.item.String()))
					cur.item = nil
				}
			}
			if name == cur.tag {
				cur.depth--
				if cur.depth == 0 {
					sections = appendBlock(sections, cur)
					cur = nil
				}
			}

		case html.TextToken:
			if cur == nil || skip != "" {
				continue
			}
			if cur.tag == "iframe" {
				if cur.src == "" {
					if m := iframeSrcPattern.FindStringSubmatch(string(z.Raw())); m != nil {
						cur.src = m[1]
					}
				}
				continue
			}
			cur.write(string(z.Text()))
		}
	}
}

// appendBlock maps a finished block to its section, applying the emptiness rules.
func appendBlock(sections []domain.ContentSection, b *block) []domain.ContentSection {
	switch b.tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return append(sections, domain.ContentSection{
			Kind:  domain.SectionHeading,
			Level: int(b.tag[1] - '0'),
			Text:  strings.TrimSpace(b.text.String()),
		})
	case "p":
		if text := strings.TrimSpace(b.text.String()); text != "" {
			return append(sections, domain.ContentSection{Kind: domain.SectionParagraph, Text: text})
		}
	case "blockquote":
		if text := strings.TrimSpace(b.text.String()); text != "" {
			return append(sections, domain.ContentSection{Kind: domain.SectionQuote, Text: text})
		}
	case "ul", "ol":
		if text := joinItems(b.items); text != "" {
			return append(sections, domain.ContentSection{Kind: domain.SectionList, Text: text})
		}
	case "iframe":
		if b.src != "" {
			return append(sections, domain.ContentSection{Kind: domain.SectionEmbed, Text: b.src})
		}
	}
	return sections
}

// joinItems newline-joins the non-empty items.
func joinItems(items []string) string {
	kept := items[:0:0]
	for _, it := range items {
		if it != "" {
			kept = append(kept, it)
		}
	}
	return strings.Join(kept, "\n")
}

// attr returns the value of the named attribute of the current tag.
func attr(z *html.Tokenizer, hasAttr bool, name string) string {
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == name {
			return string(val)
		}
	}
	return ""
}
