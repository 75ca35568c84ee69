package entity

import "strings"

type StyleLabel string

const (
	StyleBusiness StyleLabel = "business"
	StyleCreative StyleLabel = "creative"
	StyleMinimal  StyleLabel = "minimal"
	StyleDark     StyleLabel = "dark"
)

// TemplateDescriptor names a deck in the templates directory. Name is the file stem.
type TemplateDescriptor struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type TemplateSlide struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type TemplateStructure struct {
	Slides []TemplateSlide `json:"slides"`
}

// TemplateInspection is the outcome of reading a template deck. A degraded
// inspection has no structure and the default style.
type TemplateInspection struct {
	Structure *TemplateStructure
	Style     StyleLabel
	Err       error
}

func (i TemplateInspection) Degraded() bool {
	return i.Err != nil
}

// SlideCount is zero for degraded or empty inspections.
func (i TemplateInspection) SlideCount() int {
	if i.Structure == nil {
		return 0
	}
	return len(i.Structure.Slides)
}

// StyleFromName derives a style label from a template file name.
func StyleFromName(name string) StyleLabel {
	lower := strings.ToLower(name)
	for _, s := range []StyleLabel{StyleCreative, StyleMinimal, StyleDark} {
		if strings.Contains(lower, string(s)) {
			return s
		}
	}
	return StyleBusiness
}
