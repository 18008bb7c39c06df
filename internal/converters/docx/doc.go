// Package docx converts Office Open XML word-processing documents to HTML.
//
// The converter reads word/document.xml and walks its body in document
// order, emitting a small HTML vocabulary: headings, paragraphs, lists,
// blockquotes, links, line breaks, strong/em and images. Styles, tables and
// footnotes are reduced to that vocabulary; the result is lossy by design of
// the reading surface it feeds.
//
// Embedded images are passed, one at a time and in document order, to an
// ImageHandler which catalogues them as media items and returns the src
// written into the img tag. The default handler inlines images as data URIs.
package docx
