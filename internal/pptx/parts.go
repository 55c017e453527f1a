package pptx

import (
	"fmt"
	"strings"
)

const namespaces = `xmlns:a="` + nsDrawingML + `" xmlns:r="` + nsOfficeDocRels + `" xmlns:p="` + nsPresentationML + `"`

func backgroundXML(color string) string {
	if color == "" {
		return ""
	}
	return fmt.Sprintf(`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, clr(color))
}

func slideXML(s *Slide, tree string) []byte {
	return []byte(xmlHeader + `<p:sld ` + namespaces + `><p:cSld>` + backgroundXML(s.Background) + tree +
		`</p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
}

func layoutXML(l *Layout, tree string) []byte {
	return []byte(xmlHeader + `<p:sldLayout ` + namespaces + ` preserve="1"><p:cSld name="` + esc(l.Name) + `">` +
		backgroundXML(l.Background) + tree +
		`</p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`)
}

func masterXML(layouts int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:sldMaster ` + namespaces + `><p:cSld>`)
	b.WriteString(`<p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>`)
	b.WriteString(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr></p:spTree>`)
	b.WriteString(`</p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst>`)
	for i := 0; i < layouts; i++ {
		fmt.Fprintf(&b, `<p:sldLayoutId id="%d" r:id="rId%d"/>`, 2147483649+i, i+1)
	}
	b.WriteString(`</p:sldLayoutIdLst>`)
	b.WriteString(`<p:txStyles>`)
	b.WriteString(`<p:titleStyle><a:lvl1pPr><a:defRPr sz="3200"><a:latin typeface="+mj-lt"/></a:defRPr></a:lvl1pPr></p:titleStyle>`)
	b.WriteString(`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="1800"><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:bodyStyle>`)
	b.WriteString(`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"><a:latin typeface="+mn-lt"/></a:defRPr></a:lvl1pPr></p:otherStyle>`)
	b.WriteString(`</p:txStyles></p:sldMaster>`)
	return []byte(b.String())
}

func presentationXML(slides int) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<p:presentation ` + namespaces + ` saveSubsetFonts="1">`)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if slides > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := 0; i < slides; i++ {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, EMU(SlideWidth), EMU(SlideHeight))
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return []byte(b.String())
}

func presPropsXML() []byte {
	return []byte(xmlHeader + `<p:presentationPr ` + namespaces + `/>`)
}

func viewPropsXML() []byte {
	return []byte(xmlHeader + `<p:viewPr ` + namespaces + `><p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`)
}

func tableStylesXML() []byte {
	return []byte(xmlHeader + `<a:tblStyleLst xmlns:a="` + nsDrawingML + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`)
}

func coreXML(d *Deck) []byte {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, esc(d.Title))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, esc(d.Author))
	fmt.Fprintf(&b, `<dc:language>%s</dc:language>`, esc(d.lang()))
	fmt.Fprintf(&b, `<dc:identifier>urn:uuid:%s</dc:identifier>`, d.ID())
	b.WriteString(`</cp:coreProperties>`)
	return []byte(b.String())
}

func appXML(d *Deck) []byte {
	return []byte(fmt.Sprintf(xmlHeader+`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`+
		`<Application>campaign-deck</Application><PresentationFormat>On-screen Show (16:9)</PresentationFormat><Slides>%d</Slides></Properties>`, len(d.Slides)))
}

func themeXML(t Theme) []byte {
	name := t.Name
	if name == "" {
		name = "Office Theme"
	}
	major := orDefault(t.MajorFont, "Calibri")
	minor := orDefault(t.MinorFont, "Calibri")
	dark := clrOr(t.Dark, "000000")
	light := clrOr(t.Light, "FFFFFF")
	defaults := [6]string{"4472C4", "ED7D31", "A5A5A5", "FFC000", "5B9BD5", "70AD47"}

	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<a:theme xmlns:a="%s" name="%s"><a:themeElements>`, nsDrawingML, esc(name))
	fmt.Fprintf(&b, `<a:clrScheme name="%s">`, esc(name))
	fmt.Fprintf(&b, `<a:dk1><a:srgbClr val="%s"/></a:dk1><a:lt1><a:srgbClr val="%s"/></a:lt1>`, dark, light)
	fmt.Fprintf(&b, `<a:dk2><a:srgbClr val="%s"/></a:dk2><a:lt2><a:srgbClr val="%s"/></a:lt2>`, dark, light)
	for i := range t.Accents {
		fmt.Fprintf(&b, `<a:accent%d><a:srgbClr val="%s"/></a:accent%d>`, i+1, clrOr(t.Accents[i], defaults[i]), i+1)
	}
	b.WriteString(`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink></a:clrScheme>`)
	fmt.Fprintf(&b, `<a:fontScheme name="%s">`, esc(name))
	fmt.Fprintf(&b, `<a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`, esc(major))
	fmt.Fprintf(&b, `<a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`, esc(minor))
	b.WriteString(`</a:fontScheme>`)
	fmt.Fprintf(&b, `<a:fmtScheme name="%s">`, esc(name))
	b.WriteString(`<a:fillStyleLst>` + strings.Repeat(`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`, 3) + `</a:fillStyleLst>`)
	b.WriteString(`<a:lnStyleLst>`)
	for _, w := range []int{6350, 12700, 19050} {
		fmt.Fprintf(&b, `<a:ln w="%d"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>`, w)
	}
	b.WriteString(`</a:lnStyleLst>`)
	b.WriteString(`<a:effectStyleLst>` + strings.Repeat(`<a:effectStyle><a:effectLst/></a:effectStyle>`, 3) + `</a:effectStyleLst>`)
	b.WriteString(`<a:bgFillStyleLst>` + strings.Repeat(`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`, 3) + `</a:bgFillStyleLst>`)
	b.WriteString(`</a:fmtScheme></a:themeElements></a:theme>`)
	return []byte(b.String())
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
