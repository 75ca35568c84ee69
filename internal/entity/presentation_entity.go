package entity

import (
	"github.com/google/uuid"
)

type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
)

// ParseLanguage maps unknown values to fallback.
func ParseLanguage(s string, fallback Language) Language {
	switch Language(s) {
	case LanguageRU, LanguageEN:
		return Language(s)
	}
	return fallback
}

type SlideSpec struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Points   []string `json:"points,omitempty"`
}

type DeckStructure struct {
	Slides []SlideSpec `json:"slides"`
}

type StructureSource string

const (
	SourceModel    StructureSource = "model"
	SourceFallback StructureSource = "fallback"
)

// StructureResult always carries a usable structure. Err holds the reason the
// fallback was used.
type StructureResult struct {
	Structure DeckStructure
	Source    StructureSource
	Err       error
}

func (r StructureResult) Degraded() bool {
	return r.Source == SourceFallback
}

type PresentationRequest struct {
	Topic        string
	Language     Language
	SlideCount   int
	TemplateName string
	Channel      string // telegram, websocket, http, cli
}

// PresentationPlan is a request with its template resolved and inspected.
type PresentationPlan struct {
	Topic      string
	Language   Language
	SlideCount int
	Channel    string
	Template   *TemplateDescriptor
	Inspection TemplateInspection
}

func (p *PresentationPlan) TemplateName() string {
	if p.Template == nil {
		return ""
	}
	return p.Template.Name
}

type Presentation struct {
	Id          uuid.UUID
	FileName    string
	Data        []byte
	SlideCount  int
	Source      StructureSource
	Template    string
	FallbackErr error
}
