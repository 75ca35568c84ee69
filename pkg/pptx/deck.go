// Package pptx is a thin layer over gooxml's presentation package exposing the
// handful of operations the deck pipeline needs: opening decks, walking slide
// text, cloning layouts into new slides and serializing to memory.
package pptx

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"baliance.com/gooxml/presentation"
	"baliance.com/gooxml/schema/soo/dml"
	"baliance.com/gooxml/schema/soo/pml"
)

// EMUPerInch converts inches to English Metric Units.
const EMUPerInch = 914400

var ErrNoLayouts = errors.New("pptx: deck has no slide layouts")

// Deck wraps an open presentation.
type Deck struct {
	p *presentation.Presentation
}

// New returns an empty deck with the built-in "Title Slide" and
// "Title and Content" layouts.
func New() (*Deck, error) {
	data, err := blankPackage()
	if err != nil {
		return nil, err
	}
	return Read(data)
}

// Open reads the deck stored at path.
func Open(path string) (*Deck, error) {
	p, err := presentation.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck %s: %w", path, err)
	}
	return wrap(p), nil
}

// Read parses a serialized deck.
func Read(data []byte) (*Deck, error) {
	p, err := presentation.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return wrap(p), nil
}

func wrap(p *presentation.Presentation) *Deck {
	// Templates saved without slides carry no sldIdLst; gooxml appends to it.
	if p.X().SldIdLst == nil {
		p.X().SldIdLst = pml.NewCT_SlideIdList()
	}
	return &Deck{p: p}
}

// X exposes the underlying gooxml presentation.
func (d *Deck) X() *presentation.Presentation {
	return d.p
}

func (d *Deck) SlideCount() int {
	return len(d.p.Slides())
}

// Slides returns the slides in deck order.
func (d *Deck) Slides() []Slide {
	src := d.p.Slides()
	out := make([]Slide, 0, len(src))
	for _, s := range src {
		out = append(out, Slide{x: s.X()})
	}
	return out
}

func (d *Deck) LayoutCount() int {
	return len(d.p.SlideLayouts())
}

// SetSlideSize sets the slide dimensions in EMU.
func (d *Deck) SetSlideSize(cx, cy int64) {
	if d.p.X().SldSz == nil {
		d.p.X().SldSz = pml.NewCT_SlideSize()
	}
	d.p.X().SldSz.CxAttr = int32(cx)
	d.p.X().SldSz.CyAttr = int32(cy)
}

// SlideSize returns the slide dimensions in EMU.
func (d *Deck) SlideSize() (cx, cy int64) {
	if d.p.X().SldSz == nil {
		return 0, 0
	}
	return int64(d.p.X().SldSz.CxAttr), int64(d.p.X().SldSz.CyAttr)
}

// TruncateSlides removes slides from the end of the deck until at most keep remain.
func (d *Deck) TruncateSlides(keep int) error {
	for {
		slides := d.p.Slides()
		if len(slides) <= keep {
			return nil
		}
		if err := d.p.RemoveSlide(slides[len(slides)-1]); err != nil {
			return fmt.Errorf("remove slide %d: %w", len(slides), err)
		}
	}
}

// AddSlide appends a slide based on the layout at layoutIndex. The new slide
// receives fresh copies of the layout's placeholders (date, footer and slide
// number excluded) that inherit position and formatting from the layout.
func (d *Deck) AddSlide(layoutIndex int) (Slide, error) {
	layouts := d.p.SlideLayouts()
	if len(layouts) == 0 {
		return Slide{}, ErrNoLayouts
	}
	if layoutIndex < 0 || layoutIndex >= len(layouts) {
		return Slide{}, fmt.Errorf("pptx: layout index %d out of range (%d layouts)", layoutIndex, len(layouts))
	}
	layout := layouts[layoutIndex]

	s, err := d.p.AddSlideWithLayout(layout)
	if err != nil {
		return Slide{}, fmt.Errorf("add slide with layout %d: %w", layoutIndex, err)
	}

	slide := Slide{x: s.X()}
	slide.replacePlaceholders(layoutPlaceholders(layout.X()))
	return slide, nil
}

// Bytes serializes the deck into memory. Slide relationships orphaned by
// TruncateSlides are pruned from the package.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.p.Save(&buf); err != nil {
		return nil, fmt.Errorf("save deck: %w", err)
	}
	data, err := pruneSlideRels(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("prune slide relationships: %w", err)
	}
	return data, nil
}

// Save writes the deck to path.
func (d *Deck) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save deck %s: %w", path, err)
	}
	return nil
}

type layoutPlaceholder struct {
	name string
	ph   *pml.CT_Placeholder
}

func layoutPlaceholders(l *pml.SldLayout) []layoutPlaceholder {
	var out []layoutPlaceholder
	if l == nil || l.CSld == nil || l.CSld.SpTree == nil {
		return out
	}
	for _, choice := range l.CSld.SpTree.Choice {
		for _, sp := range choice.Sp {
			ph := placeholderOf(sp)
			if ph == nil {
				continue
			}
			switch ph.TypeAttr {
			case pml.ST_PlaceholderTypeDt, pml.ST_PlaceholderTypeFtr, pml.ST_PlaceholderTypeSldNum:
				continue
			}
			name := ""
			if sp.NvSpPr.CNvPr != nil {
				name = sp.NvSpPr.CNvPr.NameAttr
			}
			out = append(out, layoutPlaceholder{name: name, ph: ph})
		}
	}
	return out
}

func (s Slide) replacePlaceholders(src []layoutPlaceholder) {
	tree := s.x.CSld.SpTree
	tree.Choice = nil
	for i, lp := range src {
		sp := pml.NewCT_Shape()
		sp.NvSpPr.CNvPr.IdAttr = uint32(i + 2)
		sp.NvSpPr.CNvPr.NameAttr = lp.name
		if sp.NvSpPr.CNvPr.NameAttr == "" {
			sp.NvSpPr.CNvPr.NameAttr = fmt.Sprintf("Placeholder %d", i+1)
		}
		ph := pml.NewCT_Placeholder()
		ph.TypeAttr = lp.ph.TypeAttr
		if lp.ph.IdxAttr != nil {
			idx := *lp.ph.IdxAttr
			ph.IdxAttr = &idx
		}
		sp.NvSpPr.NvPr.Ph = ph

		sp.TxBody = dml.NewCT_TextBody()
		sp.TxBody.P = []*dml.CT_TextParagraph{dml.NewCT_TextParagraph()}

		choice := pml.NewCT_GroupShapeChoice()
		choice.Sp = append(choice.Sp, sp)
		tree.Choice = append(tree.Choice, choice)
	}
}
