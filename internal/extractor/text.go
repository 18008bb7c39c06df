package extractor

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags removes every markup tag from s, leaving entities untouched.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// PlainText returns the readable text of an HTML fragment. Entities are
// decoded, script and style bodies are dropped, and block boundaries
// become whitespace so adjacent paragraphs do not merge into one word.
func PlainText(src string) string {
	var b strings.Builder
	skip := ""

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := z.TagName()
			name := string(tn)
			if name == "script" || name == "style" {
				skip = name
				continue
			}
			if breaksText(name) {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			tn, _ := z.TagName()
			name := string(tn)
			if name == skip {
				skip = ""
				continue
			}
			if breaksText(name) {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == "" {
				b.Write(z.Text())
			}
		}
	}
}

// WordCount counts whitespace-separated tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

func breaksText(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "ul", "ol", "blockquote", "tr", "td", "th",
		"h1", "h2", "h3", "h4", "h5", "h6", "iframe", "img", "figure", "figcaption":
		return true
	}
	return false
}
