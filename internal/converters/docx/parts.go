package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

const (
	documentPart     = "word/document.xml"
	relsPart         = "word/_rels/document.xml.rels"
	contentTypesPart = "[Content_Types].xml"
	stylesPart       = "word/styles.xml"
	numberingPart    = "word/numbering.xml"
	corePart         = "docProps/core.xml"
)

// archive indexes the parts of an opened package.
type archive struct {
	files map[string]*zip.File
}

func newArchive(r *zip.Reader) *archive {
	a := &archive{files: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		a.files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return a
}

// read returns the bytes of a part. ok is false when the part is absent.
func (a *archive) read(name string) (data []byte, ok bool, err error) {
	f, exists := a.files[name]
	if !exists {
		return nil, false, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, true, err
	}
	defer rc.Close()
	data, err = io.ReadAll(rc)
	return data, true, err
}

// decode unmarshals an optional part into v. Absent parts leave v untouched.
func (a *archive) decode(name string, v any) error {
	data, ok, err := a.read(name)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidDocument, name, err)
	}
	if !ok {
		return nil
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidDocument, name, err)
	}
	return nil
}

// relationship is one entry of document.xml.rels.
type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

func (r relationship) external() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// partName resolves the target against the word/ directory.
func (r relationship) partName() string {
	if strings.HasPrefix(r.Target, "/") {
		return strings.TrimPrefix(r.Target, "/")
	}
	return path.Join("word", r.Target)
}

type relationshipsXML struct {
	Relationships []relationship `xml:"Relationship"`
}

type contentTypesXML struct {
	Defaults []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// contentTypes resolves a part name to its declared MIME type.
type contentTypes struct {
	byExt  map[string]string
	byPart map[string]string
}

func newContentTypes(x contentTypesXML) contentTypes {
	ct := contentTypes{byExt: map[string]string{}, byPart: map[string]string{}}
	for _, d := range x.Defaults {
		ct.byExt[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, o := range x.Overrides {
		ct.byPart[strings.TrimPrefix(o.PartName, "/")] = o.ContentType
	}
	return ct
}

func (ct contentTypes) lookup(part string) string {
	if t, ok := ct.byPart[part]; ok {
		return t
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(part)), ".")
	return ct.byExt[ext]
}

type stylesXML struct {
	Styles []struct {
		ID   string `xml:"styleId,attr"`
		Name struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

type numberingXML struct {
	Abstract []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Level  string `xml:"ilvl,attr"`
			Format struct {
				Val string `xml:"val,attr"`
			} `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID       string `xml:"numId,attr"`
		Abstract struct {
			Val string `xml:"val,attr"`
		} `xml:"abstractNumId"`
	} `xml:"num"`
}

// numbering answers whether a numbered paragraph belongs to an ordered list.
type numbering struct {
	formats map[string]string // numId/ilvl -> numFmt
}

func newNumbering(x numberingXML) numbering {
	abstract := make(map[string]map[string]string)
	for _, a := range x.Abstract {
		levels := make(map[string]string)
		for _, l := range a.Levels {
			levels[l.Level] = l.Format.Val
		}
		abstract[a.ID] = levels
	}

	n := numbering{formats: make(map[string]string)}
	for _, num := range x.Nums {
		for lvl, format := range abstract[num.Abstract.Val] {
			n.formats[num.ID+"/"+lvl] = format
		}
	}
	return n
}

func (n numbering) ordered(numID, ilvl string) bool {
	if ilvl == "" {
		ilvl = "0"
	}
	switch n.formats[numID+"/"+ilvl] {
	case "decimal", "decimalZero", "lowerLetter", "upperLetter", "lowerRoman", "upperRoman":
		return true
	default:
		return false
	}
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}
