package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"path"
	"strconv"
	"strings"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

// walker converts one document body. It is single-use and not shared
// between conversions.
type walker struct {
	ctx      context.Context
	opts     domain.ParseOptions
	archive  *archive
	rels     map[string]relationship
	types    contentTypes
	styles   map[string]string
	numbers  numbering
	handler  ImageHandler
	out      strings.Builder
	media    []domain.MediaItem
	openList string // "ul", "ol" or ""
}

// paragraph is a converted w:p before it is placed in a block.
type paragraph struct {
	style  string
	numID  string
	ilvl   string
	inline strings.Builder
}

func (p *paragraph) numbered() bool {
	return p.numID != "" && p.numID != "0"
}

// walk converts the whole of document.xml.
func (w *walker) walk(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidDocument, documentPart, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "p" {
			// Tables, sections and other containers are descended into.
			continue
		}

		if err := w.ctx.Err(); err != nil {
			return err
		}
		p, err := w.readParagraph(dec)
		if err != nil {
			return err
		}
		w.emit(p)
	}
	w.closeList()
	return nil
}

// emit writes a paragraph as a block, opening and closing lists as needed.
func (w *walker) emit(p *paragraph) {
	content := p.inline.String()

	if p.numbered() {
		tag := "ul"
		if w.numbers.ordered(p.numID, p.ilvl) {
			tag = "ol"
		}
		if w.openList != tag {
			w.closeList()
			w.out.WriteString("<" + tag + ">")
			w.openList = tag
		}
		w.out.WriteString("<li>" + content + "</li>")
		return
	}

	w.closeList()
	if strings.TrimSpace(content) == "" {
		return
	}

	switch kind, level := w.classify(p.style); kind {
	case "heading":
		tag := "h" + strconv.Itoa(level)
		w.out.WriteString("<" + tag + ">" + content + "</" + tag + ">")
	case "quote":
		w.out.WriteString("<blockquote><p>" + content + "</p></blockquote>")
	default:
		w.out.WriteString("<p>" + content + "</p>")
	}
}

func (w *walker) closeList() {
	if w.openList != "" {
		w.out.WriteString("</" + w.openList + ">")
		w.openList = ""
	}
}

// classify maps a paragraph style to a block kind. The style's display
// name is preferred over its id so localized ids still resolve.
func (w *walker) classify(styleID string) (string, int) {
	name := w.styles[styleID]
	if name == "" {
		name = styleID
	}
	name = strings.ReplaceAll(strings.ToLower(name), " ", "")

	switch name {
	case "title":
		return "heading", 1
	case "subtitle":
		return "heading", 2
	case "quote", "intensequote":
		return "quote", 0
	}
	if rest, ok := strings.CutPrefix(name, "heading"); ok {
		if n, err := strconv.Atoi(rest); err == nil && n >= 1 {
			return "heading", min(n, 6)
		}
	}
	return "paragraph", 0
}

// readParagraph consumes a w:p element after its start tag.
func (w *walker) readParagraph(dec *xml.Decoder) (*paragraph, error) {
	p := &paragraph{}
	depth := 0
	for {
		tok, err := w.token(dec)
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := w.readParagraphProps(dec, p); err != nil {
					return nil, err
				}
			case "r":
				if err := w.readRun(dec, &p.inline); err != nil {
					return nil, err
				}
			case "hyperlink":
				if err := w.readHyperlink(dec, t, &p.inline); err != nil {
					return nil, err
				}
			case "del", "moveFrom":
				if err := dec.Skip(); err != nil {
					return nil, w.syntax(err)
				}
			default:
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return p, nil
			}
			depth--
		}
	}
}

func (w *walker) readParagraphProps(dec *xml.Decoder, p *paragraph) error {
	depth := 0
	for {
		tok, err := w.token(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pStyle":
				p.style = attr(t, "val")
			case "numId":
				p.numID = attr(t, "val")
			case "ilvl":
				p.ilvl = attr(t, "val")
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// readRun consumes a w:r element and writes its HTML to out.
func (w *walker) readRun(dec *xml.Decoder, out *strings.Builder) error {
	var bold, italic bool
	var b strings.Builder
	for {
		tok, err := w.token(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				bold, italic, err = w.readRunProps(dec)
				if err != nil {
					return err
				}
			case "t":
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return w.syntax(err)
				}
				b.WriteString(html.EscapeString(text))
			case "br", "cr":
				if attr(t, "type") != "page" {
					b.WriteString("<br />")
				}
				if err := dec.Skip(); err != nil {
					return w.syntax(err)
				}
			case "tab":
				b.WriteString(" ")
				if err := dec.Skip(); err != nil {
					return w.syntax(err)
				}
			case "drawing", "pict", "object":
				if err := w.readDrawing(dec, &b); err != nil {
					return err
				}
			default:
				// delText, instrText, footnoteReference and the like carry no reading text.
				if err := dec.Skip(); err != nil {
					return w.syntax(err)
				}
			}
		case xml.EndElement:
			// Every child is consumed above, so this is the run's own end tag.
			content := b.String()
			if content != "" {
				if italic {
					content = "<em>" + content + "</em>"
				}
				if bold {
					content = "<strong>" + content + "</strong>"
				}
				out.WriteString(content)
			}
			return nil
		}
	}
}

func (w *walker) readRunProps(dec *xml.Decoder) (bold, italic bool, err error) {
	depth := 0
	for {
		tok, err := w.token(dec)
		if err != nil {
			return false, false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "b":
				bold = toggle(t)
			case "i":
				italic = toggle(t)
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				return bold, italic, nil
			}
			depth--
		}
	}
}

// readHyperlink consumes a w:hyperlink and writes an anchor around its runs.
func (w *walker) readHyperlink(dec *xml.Decoder, start xml.StartElement, out *strings.Builder) error {
	href := ""
	if rel, ok := w.rels[attr(start, "id")]; ok && rel.external() {
		href = rel.Target
	} else if anchor := attr(start, "anchor"); anchor != "" {
		href = "#" + anchor
	}

	var inner strings.Builder
	depth := 0
	for {
		tok, err := w.token(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				if err := w.readRun(dec, &inner); err != nil {
					return err
				}
				continue
			}
			depth++
		case xml.EndElement:
			if depth > 0 {
				depth--
				continue
			}
			if href == "" {
				out.WriteString(inner.String())
			} else {
				out.WriteString(`<a href="` + html.EscapeString(href) + `">` + inner.String() + "</a>")
			}
			return nil
		}
	}
}

// readDrawing consumes a drawing, finds the embedded picture reference and
// hands the image to the handler.
func (w *walker) readDrawing(dec *xml.Decoder, out *strings.Builder) error {
	alt := ""
	depth := 0
	for {
		tok, err := w.token(dec)
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "docPr":
				alt = attr(t, "descr")
			case "blip":
				if err := w.image(attr(t, "embed"), alt, out); err != nil {
					return err
				}
			case "imagedata":
				if err := w.image(attr(t, "id"), alt, out); err != nil {
					return err
				}
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

// image resolves an image relationship and runs the handler.
// Linked (external) images and unknown ids are ignored.
func (w *walker) image(relID, alt string, out *strings.Builder) error {
	rel, ok := w.rels[relID]
	if relID == "" || !ok || rel.external() {
		return nil
	}

	part := rel.partName()
	data, found, err := w.archive.read(part)
	if err == nil && !found {
		err = errors.New("part not found")
	}
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidDocument, &ImageReadError{RelID: relID, Part: part, Err: err})
	}

	contentType := w.types.lookup(part)
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(part))
	}

	item, src, err := w.handler(w.ctx, &Image{ContentType: contentType, AltText: alt, data: data}, w.opts)
	if err != nil {
		return fmt.Errorf("image handler: %w", err)
	}
	w.media = append(w.media, item)

	out.WriteString(`<img src="` + html.EscapeString(src) + `"`)
	if alt != "" {
		out.WriteString(` alt="` + html.EscapeString(alt) + `"`)
	}
	out.WriteString(" />")
	return nil
}

// token reads the next token, treating a premature end of input as a corrupt document.
func (w *walker) token(dec *xml.Decoder) (xml.Token, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, w.syntax(err)
	}
	return tok, nil
}

func (w *walker) syntax(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidDocument, documentPart, err)
}

// attr returns the value of the attribute with the given local name.
func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggle reads an on/off property such as w:b, which is on unless w:val says otherwise.
func toggle(se xml.StartElement) bool {
	switch strings.ToLower(attr(se, "val")) {
	case "0", "false", "off", "none":
		return false
	default:
		return true
	}
}
