package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ai-deckbot-be/internal/entity"
	"ai-deckbot-be/pkg/pptx"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestGenerateWritesDeck(t *testing.T) {
	dir := t.TempDir()
	out, stderr, err := run(t, "generate",
		"--provider", "mock", "--templates", dir, "--lang", "en",
		"--topic", "Solar energy", "-n", "3", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "3 slides")
	assert.Contains(t, stderr, "fallback outline")

	data, err := os.ReadFile(filepath.Join(dir, "Solar energy_new.pptx"))
	require.NoError(t, err)
	deck, err := pptx.Read(data)
	require.NoError(t, err)
	assert.Equal(t, 3, deck.SlideCount())
}

func TestOutlinePrintsStructure(t *testing.T) {
	out, _, err := run(t, "outline", "--provider", "mock", "--templates", t.TempDir(), "--lang", "en", "--topic", "Rust", "-n", "2")
	require.NoError(t, err)

	var structure entity.DeckStructure
	require.NoError(t, json.Unmarshal([]byte(out), &structure))
	require.Len(t, structure.Slides, 2)
	assert.Equal(t, "Rust", structure.Slides[0].Title)
}

func TestTemplatesAndInspect(t *testing.T) {
	dir := t.TempDir()
	deck, err := pptx.New()
	require.NoError(t, err)
	s, err := deck.AddSlide(1)
	require.NoError(t, err)
	title, _ := s.Title()
	title.SetText("Agenda")
	path := filepath.Join(dir, "creative_pitch.pptx")
	require.NoError(t, deck.Save(path))

	out, _, err := run(t, "templates", "--templates", dir, "--provider", "mock")
	require.NoError(t, err)
	assert.Contains(t, out, "creative_pitch")

	out, _, err = run(t, "inspect", path, "--provider", "mock")
	require.NoError(t, err)
	assert.Contains(t, out, "style: creative")
	assert.Contains(t, out, `"Agenda"`)
}

func TestGenerateRequiresTopic(t *testing.T) {
	_, _, err := run(t, "generate", "--provider", "mock", "--templates", t.TempDir())
	assert.Error(t, err)
}

func TestEventsRequiresURL(t *testing.T) {
	_, _, err := run(t, "events", "--nats", "")
	assert.Error(t, err)
}
