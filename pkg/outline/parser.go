package outline

import (
	"ai-deckbot-be/internal/entity"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var (
	ErrMalformedModelOutput = errors.New("model output contains no decodable JSON object")
	ErrMissingSlides        = errors.New("model output has no slides array")
	ErrSlideCountMismatch   = errors.New("model output slide count mismatch")
	ErrMissingTitle         = errors.New("slide without a string title")
	ErrInvalidPoints        = errors.New("slide points are not a list of strings")
)

// Parser extracts a deck structure from raw model output.
type Parser struct {
	// Repair passes candidates that fail to decode through jsonrepair once.
	Repair bool
}

// Parse tries the greedy first-{ to last-} span, then the first balanced
// object. The first candidate that decodes is validated; its validation error
// is returned if no later candidate validates either.
func (p Parser) Parse(content string, slideCount int) (entity.DeckStructure, error) {
	var firstErr error
	for _, candidate := range Candidates(content) {
		raw, err := p.decode(candidate)
		if err != nil {
			continue
		}
		deck, err := Validate(raw, slideCount)
		if err == nil {
			return deck, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return entity.DeckStructure{}, firstErr
	}
	return entity.DeckStructure{}, ErrMalformedModelOutput
}

func (p Parser) decode(candidate string) (interface{}, error) {
	var raw interface{}
	err := json.Unmarshal([]byte(candidate), &raw)
	if err == nil {
		return raw, nil
	}
	if !p.Repair {
		return nil, err
	}
	fixed, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return nil, fmt.Errorf("repair: %w", repairErr)
	}
	if err := json.Unmarshal([]byte(fixed), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Candidates returns the distinct JSON object spans found in content, in
// the order they should be tried.
func Candidates(content string) []string {
	var out []string
	start := strings.Index(content, "{")
	if start < 0 {
		return out
	}
	if end := strings.LastIndex(content, "}"); end > start {
		out = append(out, content[start:end+1])
	}
	if balanced, ok := balancedObject(content[start:]); ok && (len(out) == 0 || out[0] != balanced) {
		out = append(out, balanced)
	}
	return out
}

// balancedObject returns the prefix of s (which starts with '{') up to its
// matching closing brace, ignoring braces inside JSON strings.
func balancedObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// Validate checks a decoded value against the outline shape: an object with a
// slides array of exactly slideCount objects, each with a string title.
// Points are optional but must be strings when present.
func Validate(raw interface{}, slideCount int) (entity.DeckStructure, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return entity.DeckStructure{}, ErrMissingSlides
	}
	slides, ok := obj["slides"].([]interface{})
	if !ok {
		return entity.DeckStructure{}, ErrMissingSlides
	}
	if len(slides) != slideCount {
		return entity.DeckStructure{}, fmt.Errorf("%w: got %d, want %d", ErrSlideCountMismatch, len(slides), slideCount)
	}

	deck := entity.DeckStructure{Slides: make([]entity.SlideSpec, 0, len(slides))}
	for i, s := range slides {
		slide, ok := s.(map[string]interface{})
		if !ok {
			return entity.DeckStructure{}, fmt.Errorf("%w: slide %d is not an object", ErrMissingTitle, i)
		}
		title, ok := slide["title"].(string)
		if !ok {
			return entity.DeckStructure{}, fmt.Errorf("%w: slide %d", ErrMissingTitle, i)
		}
		spec := entity.SlideSpec{Title: title}
		if sub, ok := slide["subtitle"].(string); ok {
			spec.Subtitle = sub
		}
		if rawPoints, present := slide["points"]; present && rawPoints != nil {
			list, ok := rawPoints.([]interface{})
			if !ok {
				return entity.DeckStructure{}, fmt.Errorf("%w: slide %d", ErrInvalidPoints, i)
			}
			for _, p := range list {
				text, ok := p.(string)
				if !ok {
					return entity.DeckStructure{}, fmt.Errorf("%w: slide %d", ErrInvalidPoints, i)
				}
				spec.Points = append(spec.Points, text)
			}
		}
		deck.Slides = append(deck.Slides, spec)
	}
	return deck, nil
}
