package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHasLayoutsAndNoSlides(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	assert.Equal(t, 0, d.SlideCount())
	assert.Equal(t, 2, d.LayoutCount())

	cx, cy := d.SlideSize()
	assert.Equal(t, int64(blankSlideCX), cx)
	assert.Equal(t, int64(blankSlideCY), cy)
}

func TestAddSlideClonesLayoutPlaceholders(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	title, err := d.AddSlide(0)
	require.NoError(t, err)
	_, ok := title.Title()
	assert.True(t, ok)
	_, ok = title.Placeholder(1)
	assert.True(t, ok, "title layout exposes a subtitle at idx 1")

	content, err := d.AddSlide(1)
	require.NoError(t, err)
	assert.Len(t, content.Placeholders(), 2)
	_, ok = content.Placeholder(1)
	assert.True(t, ok)

	_, err = d.AddSlide(5)
	assert.Error(t, err)
	assert.Equal(t, 2, d.SlideCount())
}

func TestTextRoundTripsThroughBytes(t *testing.T) {
	d, err := New()
	require.NoError(t, err)

	s, err := d.AddSlide(1)
	require.NoError(t, err)
	title, ok := s.Title()
	require.True(t, ok)
	title.SetText("Quarterly review")

	body, ok := s.Placeholder(1)
	require.True(t, ok)
	body.Clear()
	body.AddParagraph("• First point", 0)
	body.AddParagraph("• Second point", 0)

	data, err := d.Bytes()
	require.NoError(t, err)

	reread, err := Read(data)
	require.NoError(t, err)
	require.Equal(t, 1, reread.SlideCount())

	slide := reread.Slides()[0]
	gotTitle, ok := slide.Title()
	require.True(t, ok)
	assert.Equal(t, "Quarterly review", gotTitle.Text())

	gotBody, ok := slide.Placeholder(1)
	require.True(t, ok)
	assert.Equal(t, []string{"", "• First point", "• Second point"}, gotBody.Paragraphs())
}

func TestSetTextKeepsSingleParagraph(t *testing.T) {
	d, err := New()
	require.NoError(t, err)
	s, err := d.AddSlide(1)
	require.NoError(t, err)

	body, _ := s.Placeholder(1)
	body.AddParagraph("one", 0)
	body.AddParagraph("two", 0)
	body.SetText("only")

	assert.Equal(t, []string{"only"}, body.Paragraphs())
}

func TestTruncateSlides(t *testing.T) {
	d, err := New()
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := d.AddSlide(1)
		require.NoError(t, err)
	}

	require.NoError(t, d.TruncateSlides(1))
	assert.Equal(t, 1, d.SlideCount())

	require.NoError(t, d.TruncateSlides(3))
	assert.Equal(t, 1, d.SlideCount())

	data, err := d.Bytes()
	require.NoError(t, err)
	require.NoError(t, CheckPackage(data))

	reread, err := Read(data)
	require.NoError(t, err)
	assert.Equal(t, 1, reread.SlideCount())
}

func TestTruncatedTemplateAcceptsNewSlides(t *testing.T) {
	for _, tc := range []struct {
		template int
		added    int
	}{
		{1, 0}, {2, 0}, {3, 2}, {10, 0}, {10, 2},
	} {
		src, err := New()
		require.NoError(t, err)
		for i := 0; i < tc.template; i++ {
			s, err := src.AddSlide(1)
			require.NoError(t, err)
			title, _ := s.Title()
			title.SetText(fmt.Sprintf("Template %d", i+1))
		}
		path := filepath.Join(t.TempDir(), "template.pptx")
		require.NoError(t, src.Save(path))

		d, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, d.TruncateSlides(1))
		for i := 0; i < tc.added; i++ {
			s, err := d.AddSlide(1)
			require.NoError(t, err)
			title, _ := s.Title()
			title.SetText(fmt.Sprintf("New %d", i+1))
		}

		data, err := d.Bytes()
		require.NoError(t, err)
		require.NoError(t, CheckPackage(data), "template=%d added=%d", tc.template, tc.added)

		reread, err := Read(data)
		require.NoError(t, err)
		slides := reread.Slides()
		require.Len(t, slides, 1+tc.added, "template=%d added=%d", tc.template, tc.added)

		first, ok := slides[0].Title()
		require.True(t, ok)
		assert.Equal(t, "Template 1", first.Text())
		if tc.added > 0 {
			last, ok := slides[len(slides)-1].Title()
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("New %d", tc.added), last.Text())
		}
	}
}

func TestCheckPackageReportsDanglingSlideRelationship(t *testing.T) {
	d, err := New()
	require.NoError(t, err)
	_, err = d.AddSlide(1)
	require.NoError(t, err)
	data, err := d.Bytes()
	require.NoError(t, err)
	require.NoError(t, CheckPackage(data))

	broken := rewritePart(t, data, presentationRelsPart, func(xml string) string {
		extra := `<Relationship Id="rIdStale" Type="` + slideRelType + `" Target="slides/slide9.xml"/>`
		return strings.Replace(xml, "</Relationships>", extra+"</Relationships>", 1)
	})
	err = CheckPackage(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slides/slide9.xml")

	pruned, err := pruneSlideRels(broken)
	require.NoError(t, err)
	assert.NoError(t, CheckPackage(pruned))
}

func rewritePart(t *testing.T, data []byte, name string, edit func(string) string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if f.Name != name {
			require.NoError(t, zw.Copy(f))
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write([]byte(edit(string(content))))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSaveAndOpen(t *testing.T) {
	d, err := New()
	require.NoError(t, err)
	s, err := d.AddSlide(0)
	require.NoError(t, err)
	title, _ := s.Title()
	title.SetText("Saved")

	path := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, d.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	opened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, opened.SlideCount())
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read([]byte("not a zip"))
	assert.Error(t, err)
}
