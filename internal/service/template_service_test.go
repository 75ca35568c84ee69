package service

import (
	"os"
	"path/filepath"
	"testing"

	"ai-deckbot-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTemplateServiceCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "presentations")
	svc, err := NewTemplateService(dir, nopLogger)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Empty(t, svc.ListTemplates())
}

func TestListTemplates(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "b_dark", nil)
	writeTemplate(t, dir, "a_plain", nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pptx"), 0o755))

	svc, err := NewTemplateService(dir, nopLogger)
	require.NoError(t, err)

	list := svc.ListTemplates()
	require.Len(t, list, 2)
	assert.Equal(t, "a_plain", list[0].Name)
	assert.Equal(t, "b_dark", list[1].Name)
	assert.Equal(t, filepath.Join(dir, "a_plain.pptx"), list[0].Path)
}

func TestExtractStructure(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "Creative_Pitch", []entity.TemplateSlide{
		{Title: "Cover", Points: []string{"  short  ", "A sufficiently long subtitle"}},
		{Title: "Agenda", Points: []string{"exactly10!", "eleven runes", "   padded but long enough   "}},
		{Title: "Пустой"},
	})

	svc, err := NewTemplateService(dir, nopLogger)
	require.NoError(t, err)

	got := svc.ExtractStructure(path)
	require.False(t, got.Degraded())
	assert.Equal(t, entity.StyleCreative, got.Style)
	require.Equal(t, 3, got.SlideCount())

	assert.Equal(t, entity.TemplateSlide{Title: "Cover", Points: []string{"A sufficiently long subtitle"}}, got.Structure.Slides[0])
	assert.Equal(t, entity.TemplateSlide{Title: "Agenda", Points: []string{"eleven runes", "padded but long enough"}}, got.Structure.Slides[1])
	assert.Equal(t, "Пустой", got.Structure.Slides[2].Title)
	assert.NotNil(t, got.Structure.Slides[2].Points)
	assert.Empty(t, got.Structure.Slides[2].Points)
}

func TestExtractStructureCountsRunesNotBytes(t *testing.T) {
	dir := t.TempDir()
	// Ten Cyrillic runes are twenty bytes but still too short.
	path := writeTemplate(t, dir, "ru", []entity.TemplateSlide{
		{Title: "T", Points: []string{"абвгдежзий", "абвгдежзийк"}},
	})
	svc, err := NewTemplateService(dir, nopLogger)
	require.NoError(t, err)

	got := svc.ExtractStructure(path)
	require.False(t, got.Degraded())
	assert.Equal(t, []string{"абвгдежзийк"}, got.Structure.Slides[0].Points)
}

func TestExtractStructureDegradesOnUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewTemplateService(dir, nopLogger)
	require.NoError(t, err)

	corrupt := filepath.Join(dir, "dark_broken.pptx")
	require.NoError(t, os.WriteFile(corrupt, []byte("definitely not a zip"), 0o644))

	for _, path := range []string{corrupt, filepath.Join(dir, "missing.pptx")} {
		got := svc.ExtractStructure(path)
		assert.True(t, got.Degraded())
		assert.Nil(t, got.Structure)
		assert.Equal(t, entity.StyleBusiness, got.Style)
		assert.Equal(t, 0, got.SlideCount())
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "minimal", nil)
	svc, err := NewTemplateService(dir, nopLogger)
	require.NoError(t, err)

	tmpl, ok := svc.Resolve("minimal")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "minimal.pptx"), tmpl.Path)

	for _, name := range []string{"", "missing", "../minimal", "sub/minimal", `..\minimal`} {
		_, ok := svc.Resolve(name)
		assert.False(t, ok, name)
	}
}
