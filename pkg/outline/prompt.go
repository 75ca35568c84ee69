// Package outline builds the outline prompt sent to the model, turns the
// model's free-form reply into a validated deck structure and produces the
// deterministic fallback outline.
package outline

import (
	"ai-deckbot-be/internal/constant"
	"ai-deckbot-be/internal/entity"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BuildPrompt renders the outline request. The template structure, when
// present, is embedded as indented JSON with non-ASCII text left unescaped.
func BuildPrompt(topic string, lang entity.Language, slideCount int, tmpl *entity.TemplateStructure) (string, error) {
	promptFmt, blockFmt, phrase := constant.OutlinePromptRU, constant.OutlineTemplateBlockRU, constant.LanguagePhraseRU
	if lang == entity.LanguageEN {
		promptFmt, blockFmt, phrase = constant.OutlinePromptEN, constant.OutlineTemplateBlockEN, constant.LanguagePhraseEN
	}

	block := ""
	if tmpl != nil {
		encoded, err := encodeTemplate(tmpl)
		if err != nil {
			return "", err
		}
		block = fmt.Sprintf(blockFmt, encoded)
	}

	return fmt.Sprintf(promptFmt, phrase, topic, slideCount, block), nil
}

func encodeTemplate(tmpl *entity.TemplateStructure) (string, error) {
	normalized := entity.TemplateStructure{Slides: make([]entity.TemplateSlide, len(tmpl.Slides))}
	for i, s := range tmpl.Slides {
		points := s.Points
		if points == nil {
			points = []string{}
		}
		normalized.Slides[i] = entity.TemplateSlide{Title: s.Title, Points: points}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized); err != nil {
		return "", fmt.Errorf("encode template structure: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
