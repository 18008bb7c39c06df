package driven

// Sanitizer removes unsafe markup from untrusted HTML.
type Sanitizer interface {
	// Sanitize returns html with everything outside the whitelist stripped.
	Sanitize(html string) string
}
