package outline

import (
	"ai-deckbot-be/internal/constant"
	"ai-deckbot-be/internal/entity"
	"fmt"
)

// BuildFallback returns a deterministic outline of exactly slideCount slides:
// a cover carrying the topic followed by generic aspect slides.
func BuildFallback(topic string, slideCount int, lang entity.Language) entity.DeckStructure {
	if slideCount < 1 {
		slideCount = 1
	}
	aspect := constant.FallbackAspectRU
	points := []string{constant.FallbackProblemRU, constant.FallbackSolutionRU, constant.FallbackResultRU}
	if lang == entity.LanguageEN {
		aspect = constant.FallbackAspectEN
		points = []string{constant.FallbackProblemEN, constant.FallbackSolutionEN, constant.FallbackResultEN}
	}

	slides := make([]entity.SlideSpec, 0, slideCount)
	slides = append(slides, entity.SlideSpec{Title: topic, Subtitle: constant.FallbackSubtitle})
	for i := 1; i < slideCount; i++ {
		slides = append(slides, entity.SlideSpec{
			Title:  fmt.Sprintf(aspect, i),
			Points: append([]string(nil), points...),
		})
	}
	return entity.DeckStructure{Slides: slides}
}
