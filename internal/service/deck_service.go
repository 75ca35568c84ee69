// FILE: internal/service/deck_service.go
package service

import (
	"errors"
	"fmt"
	"os"

	"ai-deckbot-be/internal/constant"
	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/pptx"
)

const (
	ModeTemplated = "templated"
	ModeScratch   = "scratch"
)

var (
	ErrEmptyStructure      = errors.New("deck structure has no slides")
	ErrMissingPlaceholder  = errors.New("layout is missing a required placeholder")
	scratchSlideCX         = int64(16 * pptx.EMUPerInch)
	scratchSlideCY         = int64(9 * pptx.EMUPerInch)
	contentBodyPlaceholder = uint32(1)
)

type IDeckService interface {
	// Assemble renders structure into a .pptx. templatePath is optional; a
	// path that does not exist selects from-scratch mode.
	Assemble(structure entity.DeckStructure, style entity.StyleLabel, templatePath string, lang entity.Language) ([]byte, error)
}

type deckService struct {
	logger logger.ILogger
}

func NewDeckService(log logger.ILogger) IDeckService {
	return &deckService{logger: log}
}

// AssemblyMode reports which mode Assemble will use for templatePath.
func AssemblyMode(templatePath string) string {
	if templatePath == "" {
		return ModeScratch
	}
	if info, err := os.Stat(templatePath); err != nil || info.IsDir() {
		return ModeScratch
	}
	return ModeTemplated
}

func (s *deckService) Assemble(structure entity.DeckStructure, style entity.StyleLabel, templatePath string, lang entity.Language) (data []byte, err error) {
	if len(structure.Slides) == 0 {
		return nil, ErrEmptyStructure
	}

	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("assemble deck: %v", r)
		}
	}()

	mode := AssemblyMode(templatePath)
	// Style is accepted for compatibility; no theming is applied.
	s.logger.Debug("DECK", "Assembling deck", map[string]interface{}{
		"mode":   mode,
		"style":  string(style),
		"slides": len(structure.Slides),
	})

	var deck *pptx.Deck
	if mode == ModeTemplated {
		deck, err = s.openTemplate(templatePath, structure.Slides[0])
	} else {
		deck, err = s.newDeck(structure.Slides[0], lang)
	}
	if err != nil {
		return nil, err
	}

	for i, spec := range structure.Slides[1:] {
		if err := addContentSlide(deck, spec); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+2, err)
		}
	}

	data, err = deck.Bytes()
	if err != nil {
		return nil, err
	}
	if err := pptx.CheckPackage(data); err != nil {
		return nil, err
	}
	return data, nil
}

// openTemplate keeps only the template's first slide and retitles it. The rest
// of the cover is left as designed.
func (s *deckService) openTemplate(path string, cover entity.SlideSpec) (*pptx.Deck, error) {
	deck, err := pptx.Open(path)
	if err != nil {
		return nil, err
	}
	if err := deck.TruncateSlides(1); err != nil {
		return nil, err
	}
	if deck.SlideCount() > 0 {
		if title, ok := deck.Slides()[0].Title(); ok {
			title.SetText(cover.Title)
		}
	}
	return deck, nil
}

func (s *deckService) newDeck(cover entity.SlideSpec, lang entity.Language) (*pptx.Deck, error) {
	deck, err := pptx.New()
	if err != nil {
		return nil, err
	}
	deck.SetSlideSize(scratchSlideCX, scratchSlideCY)

	slide, err := deck.AddSlide(0)
	if err != nil {
		return nil, err
	}
	title, ok := slide.Title()
	if !ok {
		return nil, fmt.Errorf("%w: cover title", ErrMissingPlaceholder)
	}
	subtitle, ok := slide.Placeholder(1)
	if !ok {
		return nil, fmt.Errorf("%w: cover subtitle", ErrMissingPlaceholder)
	}

	title.SetText(cover.Title)
	if lang == entity.LanguageEN {
		subtitle.SetText(constant.CoverSubtitleEN)
	} else {
		subtitle.SetText(constant.CoverSubtitleRU)
	}
	return deck, nil
}

func addContentSlide(deck *pptx.Deck, spec entity.SlideSpec) error {
	layout := 0
	if deck.LayoutCount() > 1 {
		layout = 1
	}
	slide, err := deck.AddSlide(layout)
	if err != nil {
		return err
	}

	if title, ok := slide.Title(); ok {
		title.SetText(spec.Title)
	}

	placeholders := slide.Placeholders()
	if len(placeholders) <= 1 {
		return nil
	}
	body, ok := slide.Placeholder(contentBodyPlaceholder)
	if !ok {
		body = placeholders[1]
	}
	body.Clear()
	for _, point := range spec.Points {
		body.AddParagraph(constant.BulletPrefix+point, 0)
	}
	return nil
}
