// FILE: internal/service/template_service.go
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/internal/pkg/logger"
	"ai-deckbot-be/pkg/pptx"
)

// MinPointLength is the rune count a paragraph must exceed to count as a point.
const MinPointLength = 10

const templateExt = ".pptx"

type ITemplateService interface {
	ListTemplates() []entity.TemplateDescriptor
	ExtractStructure(path string) entity.TemplateInspection
	Resolve(name string) (entity.TemplateDescriptor, bool)
	Dir() string
}

type templateService struct {
	dir    string
	logger logger.ILogger
}

// NewTemplateService ensures the templates directory exists.
func NewTemplateService(dir string, log logger.ILogger) (ITemplateService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create templates dir %s: %w", dir, err)
	}
	return &templateService{dir: dir, logger: log}, nil
}

func (s *templateService) Dir() string {
	return s.dir
}

func (s *templateService) ListTemplates() []entity.TemplateDescriptor {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("TEMPLATE", "Failed to list templates", map[string]interface{}{"dir": s.dir, "error": err.Error()})
		return []entity.TemplateDescriptor{}
	}

	result := make([]entity.TemplateDescriptor, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), templateExt) {
			continue
		}
		result = append(result, entity.TemplateDescriptor{
			Name: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path: filepath.Join(s.dir, e.Name()),
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// Resolve only considers base names, so "../x" cannot escape the directory.
func (s *templateService) Resolve(name string) (entity.TemplateDescriptor, bool) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return entity.TemplateDescriptor{}, false
	}
	for _, t := range s.ListTemplates() {
		if t.Name == name {
			return t, true
		}
	}
	return entity.TemplateDescriptor{}, false
}

func (s *templateService) ExtractStructure(path string) (result entity.TemplateInspection) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	defer func() {
		if r := recover(); r != nil {
			result = entity.TemplateInspection{Style: entity.StyleBusiness, Err: fmt.Errorf("read template %s: %v", path, r)}
		}
		if result.Err != nil {
			s.logger.Warn("TEMPLATE", "Template inspection degraded", map[string]interface{}{"path": path, "error": result.Err.Error()})
		}
	}()

	deck, err := pptx.Open(path)
	if err != nil {
		return entity.TemplateInspection{Style: entity.StyleBusiness, Err: err}
	}

	structure := &entity.TemplateStructure{Slides: make([]entity.TemplateSlide, 0, deck.SlideCount())}
	for _, slide := range deck.Slides() {
		structure.Slides = append(structure.Slides, inspectSlide(slide))
	}

	s.logger.Debug("TEMPLATE", "Template inspected", map[string]interface{}{"path": path, "slides": len(structure.Slides)})
	return entity.TemplateInspection{Structure: structure, Style: entity.StyleFromName(stem)}
}

func inspectSlide(slide pptx.Slide) entity.TemplateSlide {
	out := entity.TemplateSlide{Points: []string{}}

	title, hasTitle := slide.Title()
	if hasTitle {
		out.Title = title.Text()
	}

	for _, shape := range slide.TextShapes() {
		if hasTitle && shape.Same(title) {
			continue
		}
		for _, p := range shape.Paragraphs() {
			text := strings.TrimSpace(p)
			if len([]rune(text)) > MinPointLength {
				out.Points = append(out.Points, text)
			}
		}
	}
	return out
}
