package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Blank package layout. Layout 0 is "Title Slide" (ctrTitle + subTitle idx 1),
// layout 1 is "Title and Content" (title + body idx 1).
const (
	blankSlideCX = 14630400 // 16in
	blankSlideCY = 8229600  // 9in

	nsA = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeAppProps       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
)

type zipPart struct {
	name    string
	content string
}

// blankPackage renders the parts of an empty deck: one master, two layouts,
// one theme and no slides.
func blankPackage() ([]byte, error) {
	parts := []zipPart{
		{"[Content_Types].xml", contentTypesXML()},
		{"_rels/.rels", relsXML(
			rel{"rId1", relTypeOfficeDocument, "ppt/presentation.xml"},
			rel{"rId2", relTypeCoreProps, "docProps/core.xml"},
			rel{"rId3", relTypeAppProps, "docProps/app.xml"},
		)},
		{"docProps/core.xml", corePropsXML},
		{"docProps/app.xml", appPropsXML},
		{"ppt/presentation.xml", presentationXML()},
		{"ppt/_rels/presentation.xml.rels", relsXML(
			rel{"rId1", relTypeSlideMaster, "slideMasters/slideMaster1.xml"},
			rel{"rId2", relTypeTheme, "theme/theme1.xml"},
		)},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", relsXML(
			rel{"rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml"},
			rel{"rId2", relTypeSlideLayout, "../slideLayouts/slideLayout2.xml"},
			rel{"rId3", relTypeTheme, "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout1.xml", titleLayoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", relsXML(
			rel{"rId1", relTypeSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout2.xml", contentLayoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout2.xml.rels", relsXML(
			rel{"rId1", relTypeSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/theme/theme1.xml", themeXML},
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, part := range parts {
		f, err := w.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", part.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close blank package: %w", err)
	}
	return buf.Bytes(), nil
}

type rel struct {
	id, typ, target string
}

func relsXML(rels ...rel) string {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func contentTypesXML() string {
	const (
		layoutCT = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	)
	return xmlHeader +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
		`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="` + layoutCT + `"/>` +
		`<Override PartName="/ppt/slideLayouts/slideLayout2.xml" ContentType="` + layoutCT + `"/>` +
		`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
		`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
		`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
		`</Types>`
}

const corePropsXML = xmlHeader +
	`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
	`xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
	`<dc:title>Presentation</dc:title><dc:creator>deckbot</dc:creator>` +
	`</cp:coreProperties>`

const appPropsXML = xmlHeader +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" ` +
	`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
	`<Application>deckbot</Application></Properties>`

func presentationXML() string {
	return xmlHeader +
		`<p:presentation ` + nsA + ` ` + nsR + ` ` + nsP + ` saveSubsetFonts="1">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldIdLst/>` +
		fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/>`, blankSlideCX, blankSlideCY) +
		`<p:notesSz cx="6858000" cy="9144000"/>` +
		`</p:presentation>`
}

const groupShapeHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

// placeholderXML renders a placeholder shape; idx < 0 omits the idx attribute.
func placeholderXML(id int, name, phType string, idx int, x, y, cx, cy int64) string {
	ph := fmt.Sprintf(`<p:ph type="%s"/>`, phType)
	if idx >= 0 {
		ph = fmt.Sprintf(`<p:ph type="%s" idx="%d"/>`, phType, idx)
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>%s</p:nvPr></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:endParaRPr lang="en-US"/></a:p></p:txBody></p:sp>`,
		id, name, ph, x, y, cx, cy)
}

func slideMasterXML() string {
	return xmlHeader +
		`<p:sldMaster ` + nsA + ` ` + nsR + ` ` + nsP + `>` +
		`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` +
		groupShapeHeader +
		placeholderXML(2, "Title Placeholder 1", "title", -1, 731520, 365760, 13167360, 1371600) +
		placeholderXML(3, "Text Placeholder 2", "body", 1, 731520, 1920240, 13167360, 5669280) +
		`</p:spTree></p:cSld>` +
		`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" ` +
		`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/><p:sldLayoutId id="2147483650" r:id="rId2"/></p:sldLayoutIdLst>` +
		`<p:txStyles>` +
		`<p:titleStyle><a:lvl1pPr algn="l"><a:defRPr sz="4400" b="1"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>` +
		`<p:bodyStyle><a:lvl1pPr marL="0" indent="0" algn="l"><a:buNone/><a:defRPr sz="2400"><a:solidFill><a:schemeClr val="tx1"/></a:solidFill><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:bodyStyle>` +
		`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle>` +
		`</p:txStyles>` +
		`</p:sldMaster>`
}

func titleLayoutXML() string {
	return xmlHeader +
		`<p:sldLayout ` + nsA + ` ` + nsR + ` ` + nsP + ` type="title" preserve="1">` +
		`<p:cSld name="Title Slide"><p:spTree>` +
		groupShapeHeader +
		placeholderXML(2, "Title 1", "ctrTitle", -1, 1828800, 2286000, 10972800, 1828800) +
		placeholderXML(3, "Subtitle 2", "subTitle", 1, 1828800, 4343400, 10972800, 1371600) +
		`</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sldLayout>`
}

func contentLayoutXML() string {
	return xmlHeader +
		`<p:sldLayout ` + nsA + ` ` + nsR + ` ` + nsP + ` type="obj" preserve="1">` +
		`<p:cSld name="Title and Content"><p:spTree>` +
		groupShapeHeader +
		placeholderXML(2, "Title 1", "title", -1, 731520, 365760, 13167360, 1371600) +
		placeholderXML(3, "Content Placeholder 2", "body", 1, 731520, 1920240, 13167360, 5669280) +
		`</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sldLayout>`
}

const themeXML = xmlHeader +
	`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` + phClrFill + phClrFill + phClrFill + `</a:fillStyleLst>` +
	`<a:lnStyleLst>` + phClrLine + phClrLine + phClrLine + `</a:lnStyleLst>` +
	`<a:effectStyleLst>` + emptyEffect + emptyEffect + emptyEffect + `</a:effectStyleLst>` +
	`<a:bgFillStyleLst>` + phClrFill + phClrFill + phClrFill + `</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements></a:theme>`

const (
	phClrFill   = `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	phClrLine   = `<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>`
	emptyEffect = `<a:effectStyle><a:effectLst/></a:effectStyle>`
)
