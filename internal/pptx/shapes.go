package pptx

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"
)

const slideNumFieldID = "{B6F15528-21DE-4FAA-801E-634DDDAF4B2B}"

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// clr normalises a colour to six uppercase hex digits, or "" when invalid
func clr(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	if len(c) != 6 {
		return ""
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return ""
		}
	}
	return c
}

func clrOr(c, def string) string {
	if v := clr(c); v != "" {
		return v
	}
	return def
}

func solidFill(c string) string {
	if v := clr(c); v != "" {
		return `<a:solidFill><a:srgbClr val="` + v + `"/></a:solidFill>`
	}
	return `<a:noFill/>`
}

func pt(points float64) int64 {
	return int64(math.Round(points * 12700))
}

func xfrm(b Box) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, EMU(b.X), EMU(b.Y), EMU(math.Max(b.W, 0)), EMU(math.Max(b.H, 0)))
}

func elementName(name, kind string, id int) string {
	if name == "" {
		name = fmt.Sprintf("%s %d", kind, id)
	}
	return esc(name)
}

func writeTextBox(b *strings.Builder, id int, t *TextBox, lang string) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, elementName(t.Name, "TextBox", id))
	b.WriteString(`<p:spPr>` + xfrm(t.Box) + `<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>` + solidFill(t.Fill) + `</p:spPr>`)

	wrap := "square"
	if t.NoWrap {
		wrap = "none"
	}
	anchor := t.Anchor
	if anchor == "" {
		anchor = AnchorTop
	}
	fmt.Fprintf(b, `<p:txBody><a:bodyPr wrap="%s" lIns="91440" tIns="45720" rIns="91440" bIns="45720" rtlCol="0" anchor="%s"><a:normAutofit/></a:bodyPr><a:lstStyle/>`, wrap, anchor)
	if len(t.Paragraphs) == 0 {
		b.WriteString(`<a:p/>`)
	}
	for _, p := range t.Paragraphs {
		writeParagraph(b, p, lang)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func writeParagraph(b *strings.Builder, p Paragraph, lang string) {
	attrs := ""
	if p.Bullet != nil {
		indent := 228600 * (p.Level + 1)
		attrs += fmt.Sprintf(` marL="%d" indent="-228600"`, indent)
	}
	if p.Level > 0 {
		attrs += fmt.Sprintf(` lvl="%d"`, p.Level)
	}
	if p.Align != "" {
		attrs += fmt.Sprintf(` algn="%s"`, p.Align)
	}

	b.WriteString(`<a:p><a:pPr` + attrs + `>`)
	if p.SpaceAfter > 0 {
		fmt.Fprintf(b, `<a:spcAft><a:spcPts val="%d"/></a:spcAft>`, int(math.Round(p.SpaceAfter*100)))
	}
	if p.Bullet != nil {
		if c := clr(p.Bullet.Color); c != "" {
			fmt.Fprintf(b, `<a:buClr><a:srgbClr val="%s"/></a:buClr>`, c)
		}
		char := p.Bullet.Char
		if char == "" {
			char = "•"
		}
		fmt.Fprintf(b, `<a:buFont typeface="Arial"/><a:buChar char="%s"/>`, esc(char))
	} else {
		b.WriteString(`<a:buNone/>`)
	}
	b.WriteString(`</a:pPr>`)

	for _, r := range p.Runs {
		writeRun(b, r, lang)
	}
	b.WriteString(`</a:p>`)
}

func runProps(f Font, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<a:rPr lang="%s"`, esc(lang))
	if f.Size > 0 {
		fmt.Fprintf(&b, ` sz="%d"`, int(math.Round(f.Size*100)))
	}
	if f.Bold {
		b.WriteString(` b="1"`)
	}
	if f.Italic {
		b.WriteString(` i="1"`)
	}
	b.WriteString(` dirty="0">`)
	if c := clr(f.Color); c != "" {
		fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, c)
	}
	if f.Face != "" {
		fmt.Fprintf(&b, `<a:latin typeface="%s"/>`, esc(f.Face))
	}
	b.WriteString(`</a:rPr>`)
	return b.String()
}

func writeRun(b *strings.Builder, r Run, lang string) {
	if r.Field == FieldSlideNum {
		text := r.Text
		if text == "" {
			text = "‹#›"
		}
		fmt.Fprintf(b, `<a:fld id="%s" type="slidenum">%s<a:t>%s</a:t></a:fld>`, slideNumFieldID, runProps(r.Font, lang), esc(text))
		return
	}
	fmt.Fprintf(b, `<a:r>%s<a:t>%s</a:t></a:r>`, runProps(r.Font, lang), esc(r.Text))
}

func lineXML(color string, width float64) string {
	c := clr(color)
	if c == "" {
		return `<a:ln><a:noFill/></a:ln>`
	}
	if width <= 0 {
		width = 1
	}
	return fmt.Sprintf(`<a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`, pt(width), c)
}

func writeShape(b *strings.Builder, id int, s *Shape) {
	geom := s.Geometry
	if geom == "" {
		geom = GeomRect
	}

	var av strings.Builder
	for _, g := range s.Adjust {
		fmt.Fprintf(&av, `<a:gd name="%s" fmla="val %d"/>`, esc(g.Name), g.Value)
	}
	prst := fmt.Sprintf(`<a:prstGeom prst="%s"><a:avLst>%s</a:avLst></a:prstGeom>`, geom, av.String())

	if geom == GeomLine {
		fmt.Fprintf(b, `<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="%d" name="%s"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>`, id, elementName(s.Name, "Line", id))
		b.WriteString(`<p:spPr>` + xfrm(s.Box) + prst + lineXML(s.Line, s.LineWidth) + `</p:spPr></p:cxnSp>`)
		return
	}

	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`, id, elementName(s.Name, "Shape", id))
	b.WriteString(`<p:spPr>` + xfrm(s.Box) + prst + solidFill(s.Fill) + lineXML(s.Line, s.LineWidth) + `</p:spPr></p:sp>`)
}

// coverCrop returns srcRect insets (1/1000 percent) that make an image of
// pw x ph pixels fill box without distortion.
func coverCrop(pw, ph int, box Box) (l, t, r, bt int) {
	l, t, r, bt = containInset(pw, ph, box)
	return t, l, bt, r
}

// containInset returns fillRect insets (1/1000 percent) that fit an image of
// pw x ph pixels inside box without distortion.
func containInset(pw, ph int, box Box) (l, t, r, bt int) {
	if pw <= 0 || ph <= 0 || box.W <= 0 || box.H <= 0 {
		return 0, 0, 0, 0
	}
	imgRatio := float64(pw) / float64(ph)
	boxRatio := box.W / box.H
	if math.Abs(imgRatio-boxRatio) < 1e-6 {
		return 0, 0, 0, 0
	}
	if imgRatio > boxRatio {
		side := int(math.Round((1 - boxRatio/imgRatio) / 2 * 100000))
		return 0, side, 0, side
	}
	side := int(math.Round((1 - imgRatio/boxRatio) / 2 * 100000))
	return side, 0, side, 0
}

func writePicture(b *strings.Builder, id int, p *Picture, rid string) {
	fmt.Fprintf(b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s" descr="%s"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`,
		id, elementName(p.Name, "Picture", id), esc(p.Descr))
	fmt.Fprintf(b, `<p:blipFill><a:blip r:embed="%s"/>`, rid)
	fill := `<a:fillRect/>`
	switch p.Fit {
	case FitCover:
		if l, t, r, bt := coverCrop(p.PixelW, p.PixelH, p.Box); l+t+r+bt > 0 {
			fmt.Fprintf(b, `<a:srcRect l="%d" t="%d" r="%d" b="%d"/>`, l, t, r, bt)
		}
	case FitContain:
		if l, t, r, bt := containInset(p.PixelW, p.PixelH, p.Box); l+t+r+bt > 0 {
			fill = fmt.Sprintf(`<a:fillRect l="%d" t="%d" r="%d" b="%d"/>`, l, t, r, bt)
		}
	}
	b.WriteString(`<a:stretch>` + fill + `</a:stretch></p:blipFill>`)
	b.WriteString(`<p:spPr>` + xfrm(p.Box) + `<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}

func writeTable(b *strings.Builder, id int, t *Table, lang string) {
	widths := t.columnWidths()
	fmt.Fprintf(b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`,
		id, elementName(t.Name, "Table", id))
	fmt.Fprintf(b, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`, EMU(t.Box.X), EMU(t.Box.Y), EMU(t.Box.W), EMU(t.Box.H))
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr/><a:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(b, `<a:gridCol w="%d"/>`, EMU(w))
	}
	b.WriteString(`</a:tblGrid>`)

	border := ""
	if c := clr(t.BorderColor); c != "" {
		edge := fmt.Sprintf(`w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, pt(0.75), c)
		border = `<a:lnL ` + edge + `</a:lnL><a:lnR ` + edge + `</a:lnR><a:lnT ` + edge + `</a:lnT><a:lnB ` + edge + `</a:lnB>`
	}

	rowH := EMU(t.RowHeight())
	for ri, row := range t.Rows {
		fmt.Fprintf(b, `<a:tr h="%d">`, rowH)
		for ci := range widths {
			text := ""
			if ci < len(row) {
				text = row[ci]
			}
			align := AlignCenter
			if ci == 0 {
				align = AlignLeft
			}
			fill := t.Fill
			if t.ZebraFill != "" && ri > 0 && ri%2 == 0 {
				fill = t.ZebraFill
			}

			b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>`)
			fmt.Fprintf(b, `<a:p><a:pPr algn="%s"/>`, align)
			if text != "" {
				fmt.Fprintf(b, `<a:r>%s<a:t>%s</a:t></a:r>`, runProps(t.Font, lang), esc(text))
			}
			b.WriteString(`</a:p></a:txBody>`)
			b.WriteString(`<a:tcPr marL="45720" marR="45720" marT="22860" marB="22860" anchor="ctr">` + border + solidFill(fill) + `</a:tcPr></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}
