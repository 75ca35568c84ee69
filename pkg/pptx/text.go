package pptx

import (
	"strings"

	"baliance.com/gooxml/schema/soo/dml"
	"baliance.com/gooxml/schema/soo/pml"
)

// Slide is a view over a single slide's shape tree.
type Slide struct {
	x *pml.Sld
}

// Shape is a top-level auto shape on a slide.
type Shape struct {
	x *pml.CT_Shape
}

func (s Slide) X() *pml.Sld {
	return s.x
}

func (s Slide) shapes() []*pml.CT_Shape {
	if s.x == nil || s.x.CSld == nil || s.x.CSld.SpTree == nil {
		return nil
	}
	var out []*pml.CT_Shape
	for _, choice := range s.x.CSld.SpTree.Choice {
		out = append(out, choice.Sp...)
	}
	return out
}

// Title returns the slide's title placeholder (title or centered title).
func (s Slide) Title() (Shape, bool) {
	for _, sp := range s.shapes() {
		ph := placeholderOf(sp)
		if ph == nil {
			continue
		}
		if ph.TypeAttr == pml.ST_PlaceholderTypeTitle || ph.TypeAttr == pml.ST_PlaceholderTypeCtrTitle {
			return Shape{x: sp}, true
		}
	}
	return Shape{}, false
}

// Placeholders returns every placeholder shape in tree order.
func (s Slide) Placeholders() []Shape {
	var out []Shape
	for _, sp := range s.shapes() {
		if placeholderOf(sp) != nil {
			out = append(out, Shape{x: sp})
		}
	}
	return out
}

// Placeholder returns the placeholder with the given idx.
func (s Slide) Placeholder(idx uint32) (Shape, bool) {
	for _, sp := range s.shapes() {
		ph := placeholderOf(sp)
		if ph != nil && ph.IdxAttr != nil && *ph.IdxAttr == idx {
			return Shape{x: sp}, true
		}
	}
	return Shape{}, false
}

// TextShapes returns every top-level shape carrying a text frame.
func (s Slide) TextShapes() []Shape {
	var out []Shape
	for _, sp := range s.shapes() {
		if sp.TxBody != nil {
			out = append(out, Shape{x: sp})
		}
	}
	return out
}

func placeholderOf(sp *pml.CT_Shape) *pml.CT_Placeholder {
	if sp == nil || sp.NvSpPr == nil || sp.NvSpPr.NvPr == nil {
		return nil
	}
	return sp.NvSpPr.NvPr.Ph
}

func (sh Shape) X() *pml.CT_Shape {
	return sh.x
}

// Same reports whether both values refer to the same underlying shape.
func (sh Shape) Same(o Shape) bool {
	return sh.x != nil && sh.x == o.x
}

func (sh Shape) HasText() bool {
	return sh.x != nil && sh.x.TxBody != nil
}

func (sh Shape) Name() string {
	if sh.x == nil || sh.x.NvSpPr == nil || sh.x.NvSpPr.CNvPr == nil {
		return ""
	}
	return sh.x.NvSpPr.CNvPr.NameAttr
}

// Paragraphs returns the plain text of each paragraph. Line breaks are
// rendered as a vertical tab.
func (sh Shape) Paragraphs() []string {
	if !sh.HasText() {
		return nil
	}
	out := make([]string, 0, len(sh.x.TxBody.P))
	for _, p := range sh.x.TxBody.P {
		out = append(out, paragraphText(p))
	}
	return out
}

// Text returns all paragraphs joined by newlines.
func (sh Shape) Text() string {
	return strings.Join(sh.Paragraphs(), "\n")
}

func paragraphText(p *dml.CT_TextParagraph) string {
	var b strings.Builder
	for _, r := range p.EG_TextRun {
		switch {
		case r.R != nil:
			b.WriteString(r.R.T)
		case r.Br != nil:
			b.WriteString("\v")
		case r.Fld != nil && r.Fld.T != nil:
			b.WriteString(*r.Fld.T)
		}
	}
	return b.String()
}

func (sh Shape) ensureBody() *dml.CT_TextBody {
	if sh.x.TxBody == nil {
		sh.x.TxBody = dml.NewCT_TextBody()
	}
	return sh.x.TxBody
}

// SetText replaces the text frame's content with a single paragraph holding
// text. The first paragraph's properties are retained.
func (sh Shape) SetText(text string) {
	body := sh.ensureBody()
	var first *dml.CT_TextParagraph
	if len(body.P) > 0 {
		first = body.P[0]
	} else {
		first = dml.NewCT_TextParagraph()
	}
	first.EG_TextRun = []*dml.EG_TextRun{newRun(text)}
	body.P = []*dml.CT_TextParagraph{first}
}

// Clear leaves a single empty paragraph in the text frame.
func (sh Shape) Clear() {
	body := sh.ensureBody()
	var first *dml.CT_TextParagraph
	if len(body.P) > 0 {
		first = body.P[0]
		first.EG_TextRun = nil
	} else {
		first = dml.NewCT_TextParagraph()
	}
	body.P = []*dml.CT_TextParagraph{first}
}

// AddParagraph appends a left-aligned paragraph at the given outline level.
func (sh Shape) AddParagraph(text string, level int32) {
	body := sh.ensureBody()
	p := dml.NewCT_TextParagraph()
	p.PPr = dml.NewCT_TextParagraphProperties()
	lvl := level
	p.PPr.LvlAttr = &lvl
	p.PPr.AlgnAttr = dml.ST_TextAlignTypeL
	p.EG_TextRun = []*dml.EG_TextRun{newRun(text)}
	body.P = append(body.P, p)
}

func newRun(text string) *dml.EG_TextRun {
	r := dml.NewEG_TextRun()
	r.R = dml.NewCT_RegularTextRun()
	r.R.T = text
	return r
}
