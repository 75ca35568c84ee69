package dto

import (
	"ai-deckbot-be/internal/entity"

	"github.com/google/uuid"
)

type TemplateResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type TemplateStructureResponse struct {
	Name      string                    `json:"name"`
	Style     entity.StyleLabel         `json:"style"`
	Slides    int                       `json:"slides"`
	Structure *entity.TemplateStructure `json:"structure"`
	Degraded  bool                      `json:"degraded"`
	Error     string                    `json:"error,omitempty"`
}

// GeneratePresentationRequest drives both /structure and /generate.
type GeneratePresentationRequest struct {
	Topic      string `json:"topic" validate:"required"`
	SlideCount int    `json:"slide_count" validate:"required,min=1"`
	Language   string `json:"language" validate:"omitempty,oneof=ru en"`
	Template   string `json:"template"`
}

type StructureResponse struct {
	Topic          string                 `json:"topic"`
	Template       string                 `json:"template,omitempty"`
	Source         entity.StructureSource `json:"source"`
	FallbackReason string                 `json:"fallback_reason,omitempty"`
	Structure      entity.DeckStructure   `json:"structure"`
}

// GeneratePresentationResponse is the JSON form of /generate (?format=json).
// Data is the .pptx, base64 encoded by encoding/json.
type GeneratePresentationResponse struct {
	Id             uuid.UUID              `json:"id"`
	FileName       string                 `json:"file_name"`
	SlideCount     int                    `json:"slide_count"`
	Source         entity.StructureSource `json:"source"`
	FallbackReason string                 `json:"fallback_reason,omitempty"`
	Template       string                 `json:"template,omitempty"`
	SizeBytes      int                    `json:"size_bytes"`
	Data           []byte                 `json:"data"`
}
