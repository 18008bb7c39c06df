// Package sanitizer strips unsafe markup from converter output.
package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/lwb-ingest/internal/core/ports/driven"
)

// Ensure Sanitizer implements the interface.
var _ driven.Sanitizer = (*Sanitizer)(nil)

// baseTags is the conventional safe set for article content.
var baseTags = []string{
	"address", "article", "aside", "footer", "header",
	"h1", "h2", "h3", "h4", "h5", "h6", "hgroup", "main", "nav", "section",
	"blockquote", "dd", "div", "dl", "dt", "hr", "li", "ol", "p", "pre", "ul",
	"abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn", "em", "i",
	"kbd", "mark", "q", "rb", "rp", "rt", "rtc", "ruby", "s", "samp", "small",
	"span", "strong", "sub", "sup", "time", "u", "var", "wbr",
	"caption", "col", "colgroup", "table", "tbody", "td", "tfoot", "th", "thead", "tr",
}

// mediaTags are allowed on top of baseTags for rich reading content.
var mediaTags = []string{"img", "iframe", "figure", "figcaption", "a"}

// Sanitizer is a whitelist HTML filter backed by bluemonday.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a sanitizer with the article policy.
func New() *Sanitizer {
	return &Sanitizer{policy: Policy()}
}

// Policy returns the article whitelist. Everything not named here,
// including script and style elements and event handler attributes, is removed.
func Policy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(baseTags...)
	p.AllowElements(mediaTags...)

	p.AllowAttrs("style").Globally()
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("src", "allow", "allowfullscreen", "frameborder").OnElements("iframe")
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")

	p.AllowURLSchemes("http", "https", "ftp", "mailto", "tel")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	// Converter images are inlined as data URIs.
	p.AllowDataURIImages()

	return p
}

// Sanitize returns html with everything outside the whitelist stripped.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
