package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

const (
	presentationPart     = "ppt/presentation.xml"
	presentationRelsPart = "ppt/_rels/presentation.xml.rels"
	officeRelNS          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	slideRelType         = officeRelNS + "/slide"
)

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

// packageParts reads every part of a zip package into memory.
func packageParts(data []byte) (*zip.Reader, map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, nil, err
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		parts[f.Name] = b
	}
	return zr, parts, nil
}

// listedSlideRels returns the relationship IDs referenced from sldIdLst.
func listedSlideRels(presentationXML []byte) (map[string]bool, error) {
	ids := map[string]bool{}
	dec := xml.NewDecoder(bytes.NewReader(presentationXML))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, a := range se.Attr {
			if a.Name.Local == "id" && (a.Name.Space == officeRelNS || a.Name.Space == "r") {
				ids[a.Value] = true
			}
		}
	}
}

func slideTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("ppt", target)
}

// danglingSlideRels reports slide relationships of the presentation part that
// are not listed in sldIdLst or whose target part is absent.
func danglingSlideRels(parts map[string][]byte) ([]relationship, relationships, error) {
	var rels relationships
	presXML, ok := parts[presentationPart]
	if !ok {
		return nil, rels, fmt.Errorf("pptx: package has no %s", presentationPart)
	}
	relsXML, ok := parts[presentationRelsPart]
	if !ok {
		return nil, rels, nil
	}
	if err := xml.Unmarshal(relsXML, &rels); err != nil {
		return nil, rels, fmt.Errorf("parse %s: %w", presentationRelsPart, err)
	}
	listed, err := listedSlideRels(presXML)
	if err != nil {
		return nil, rels, fmt.Errorf("parse %s: %w", presentationPart, err)
	}

	var dangling []relationship
	for _, r := range rels.Rels {
		if r.Type != slideRelType {
			continue
		}
		if _, exists := parts[slideTarget(r.Target)]; !listed[r.ID] || !exists {
			dangling = append(dangling, r)
		}
	}
	return dangling, rels, nil
}

// CheckPackage reports slide relationships in a serialized deck that point at
// unlisted or missing slides.
func CheckPackage(data []byte) error {
	_, parts, err := packageParts(data)
	if err != nil {
		return err
	}
	dangling, _, err := danglingSlideRels(parts)
	if err != nil {
		return err
	}
	if len(dangling) == 0 {
		return nil
	}
	targets := make([]string, 0, len(dangling))
	for _, r := range dangling {
		targets = append(targets, r.ID+"->"+r.Target)
	}
	sort.Strings(targets)
	return fmt.Errorf("pptx: dangling slide relationships: %s", strings.Join(targets, ", "))
}

// pruneSlideRels drops the slide relationships gooxml leaves behind after
// RemoveSlide. The package is returned unchanged when nothing dangles.
func pruneSlideRels(data []byte) ([]byte, error) {
	zr, parts, err := packageParts(data)
	if err != nil {
		return nil, err
	}
	dangling, rels, err := danglingSlideRels(parts)
	if err != nil || len(dangling) == 0 {
		return data, err
	}

	drop := make(map[string]bool, len(dangling))
	for _, r := range dangling {
		drop[r.ID] = true
	}
	kept := rels.Rels[:0]
	for _, r := range rels.Rels {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	rels.Rels = kept

	relsXML, err := xml.Marshal(rels)
	if err != nil {
		return nil, err
	}
	relsXML = append([]byte(xml.Header), relsXML...)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		if f.Name != presentationRelsPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(relsXML); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
