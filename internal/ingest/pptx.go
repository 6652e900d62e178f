package ingest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Presentation is the content extracted from one .pptx file.
type Presentation struct {
	Modified  time.Time
	Slides    []ParsedSlide
	Thumbnail []byte
	ThumbExt  string
}

// ParsedSlide is the text content of one slide.
type ParsedSlide struct {
	Number int
	Text   string
	Notes  string
}

const (
	relSlide      = "/slide"
	relNotesSlide = "/notesSlide"
)

type xmlPresentation struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type xmlRelationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

type xmlCoreProperties struct {
	Modified string `xml:"modified"`
}

type xmlSlide struct {
	Tree xmlShapeTree `xml:"cSld>spTree"`
}

type xmlShapeTree struct {
	Shapes []xmlShape     `xml:"sp"`
	Groups []xmlShapeTree `xml:"grpSp"`
	Frames []xmlFrame     `xml:"graphicFrame"`
}

type xmlShape struct {
	Placeholder *struct {
		Type string `xml:"type,attr"`
	} `xml:"nvSpPr>nvPr>ph"`
	Offset *xmlOffset   `xml:"spPr>xfrm>off"`
	Body   *xmlTextBody `xml:"txBody"`
}

type xmlFrame struct {
	Offset *xmlOffset `xml:"xfrm>off"`
	Rows   []struct {
		Cells []struct {
			Body *xmlTextBody `xml:"txBody"`
		} `xml:"tc"`
	} `xml:"graphic>graphicData>tbl>tr"`
}

type xmlOffset struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type xmlTextBody struct {
	Paragraphs []struct {
		Items []struct {
			XMLName xml.Name
			Text    string `xml:"t"`
		} `xml:",any"`
	} `xml:"p"`
}

func (b *xmlTextBody) text() string {
	if b == nil {
		return ""
	}
	lines := make([]string, 0, len(b.Paragraphs))
	for _, p := range b.Paragraphs {
		var sb strings.Builder
		for _, it := range p.Items {
			switch it.XMLName.Local {
			case "r", "fld":
				sb.WriteString(it.Text)
			case "br":
				sb.WriteString("\n")
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type positionedText struct {
	top, left int64
	text      string
}

func (t *xmlShapeTree) collect(out []positionedText) []positionedText {
	for _, sp := range t.Shapes {
		if sp.Body == nil {
			continue
		}
		out = append(out, positioned(sp.Offset, sp.Body.text()))
	}
	for _, fr := range t.Frames {
		var cells []string
		for _, row := range fr.Rows {
			for _, c := range row.Cells {
				if s := c.Body.text(); s != "" {
					cells = append(cells, s)
				}
			}
		}
		if len(cells) > 0 {
			out = append(out, positioned(fr.Offset, strings.Join(cells, "\n")))
		}
	}
	for i := range t.Groups {
		out = t.Groups[i].collect(out)
	}
	return out
}

func positioned(off *xmlOffset, text string) positionedText {
	p := positionedText{text: text}
	if off != nil {
		p.top, p.left = off.Y, off.X
	}
	return p
}

var blankLines = regexp.MustCompile(`\n{2,}`)

// slideText joins the text of every shape, reading top to bottom then left
// to right.
func slideText(tree *xmlShapeTree) string {
	items := tree.collect(nil)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].top != items[j].top {
			return items[i].top < items[j].top
		}
		return items[i].left < items[j].left
	})
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, strings.TrimSpace(it.text))
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	return blankLines.ReplaceAllString(text, "\n")
}

// notesText returns the text of the body placeholder of a notes slide.
func notesText(tree *xmlShapeTree) string {
	var parts []string
	for _, sp := range tree.Shapes {
		if sp.Placeholder == nil || sp.Placeholder.Type != "body" {
			continue
		}
		if s := sp.Body.text(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

type archive struct {
	files map[string]*zip.File
}

func (a *archive) decode(name string, v interface{}) error {
	f, ok := a.files[name]
	if !ok {
		return fmt.Errorf("missing part %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

func (a *archive) read(name string) ([]byte, bool) {
	f, ok := a.files[name]
	if !ok {
		return nil, false
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false
	}
	return data, true
}

// rels reads the relationship part belonging to part.
func (a *archive) rels(part string) (xmlRelationships, error) {
	var r xmlRelationships
	name := path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
	if _, ok := a.files[name]; !ok {
		return r, nil
	}
	err := a.decode(name, &r)
	return r, err
}

// resolve turns a relationship target into a part name.
func resolve(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(source), target)
}

// ParsePPTX extracts slide text, notes, the modified time and the embedded
// thumbnail from a .pptx file.
func ParsePPTX(filename string) (*Presentation, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer zr.Close()

	a := &archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[f.Name] = f
	}

	const presPart = "ppt/presentation.xml"
	var pres xmlPresentation
	if err := a.decode(presPart, &pres); err != nil {
		return nil, err
	}
	presRels, err := a.rels(presPart)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(presRels.Items))
	for _, r := range presRels.Items {
		if strings.HasSuffix(r.Type, relSlide) {
			targets[r.ID] = resolve(presPart, r.Target)
		}
	}

	p := &Presentation{}
	for i, id := range pres.SlideIDs {
		part, ok := targets[id.RelID]
		if !ok {
			return nil, fmt.Errorf("slide %d: no relationship %q", i+1, id.RelID)
		}
		var sld xmlSlide
		if err := a.decode(part, &sld); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		ps := ParsedSlide{Number: i + 1, Text: slideText(&sld.Tree)}

		slideRels, err := a.rels(part)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		for _, r := range slideRels.Items {
			if !strings.HasSuffix(r.Type, relNotesSlide) {
				continue
			}
			var notes xmlSlide
			if err := a.decode(resolve(part, r.Target), &notes); err == nil {
				ps.Notes = notesText(&notes.Tree)
			}
			break
		}
		p.Slides = append(p.Slides, ps)
	}

	var core xmlCoreProperties
	if err := a.decode("docProps/core.xml", &core); err == nil && core.Modified != "" {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(core.Modified)); err == nil {
			p.Modified = t
		}
	}

	for _, name := range []string{"docProps/thumbnail.jpeg", "docProps/thumbnail.jpg", "docProps/thumbnail.png"} {
		if data, ok := a.read(name); ok {
			p.Thumbnail = data
			p.ThumbExt = path.Ext(name)
			break
		}
	}

	return p, nil
}
