package rendering

import (
	"github.com/jonathan/campaign-deck/internal/pptx"
)

const footerY = 5.2

func footerBox(rc *Context, color string) *pptx.TextBox {
	text := rc.Scheme.FooterText(rc.Language, rc.ClientName, rc.Period)
	return textBox("Footer", pptx.Box{X: marginX, Y: footerY, W: 7.2, H: 0.3},
		pptx.Plain(text, rc.body(9, color), pptx.AlignLeft))
}

func slideNumberBox(rc *Context, color string) *pptx.TextBox {
	return textBox("Slide Number", pptx.Box{X: 8.9, Y: footerY, W: 0.6, H: 0.3}, pptx.Paragraph{
		Runs:  []pptx.Run{{Field: pptx.FieldSlideNum, Font: rc.body(9, color)}},
		Align: pptx.AlignRight,
	})
}

// logoElement is the scheme's logo: a wordmark when the scheme has logo text,
// otherwise the logo placeholder image.
func logoElement(rc *Context, box pptx.Box, color string) pptx.Element {
	if !rc.Scheme.LogoImage && rc.Scheme.LogoText != "" {
		tb := textBox("Logo", box, pptx.Plain(rc.Scheme.LogoText, rc.headline(10, color), pptx.AlignRight))
		tb.Anchor = pptx.AnchorMiddle
		return tb
	}
	return logoPicture(box)
}

// MasterLayouts defines the title, content and section layouts of the generic
// path from the scheme: backgrounds, footer, slide number and logo.
func MasterLayouts(rc *Context) []*pptx.Layout {
	c := rc.Scheme.Colors
	names := rc.Scheme.Layouts
	logoBox := pptx.Box{X: 8.6, Y: 0.2, W: 0.9, H: 0.4}

	title := &pptx.Layout{
		Name:       names.Title,
		Background: c.BackgroundDark,
		Elements: []pptx.Element{
			&pptx.Shape{Name: "Accent Bar", Geometry: pptx.GeomRect, Box: pptx.Box{X: 0, Y: 5.475, W: pptx.SlideWidth, H: 0.15}, Fill: c.Accent},
			logoElement(rc, pptx.Box{X: marginX, Y: 0.4, W: 1.6, H: 0.45}, c.TextOnDark),
		},
	}

	content := &pptx.Layout{
		Name:       names.Content,
		Background: c.BackgroundLight,
		Elements: []pptx.Element{
			&pptx.Shape{Name: "Top Bar", Geometry: pptx.GeomRect, Box: pptx.Box{X: 0, Y: 0, W: pptx.SlideWidth, H: 0.08}, Fill: c.Primary},
			&pptx.Shape{Name: "Footer Rule", Geometry: pptx.GeomLine, Box: pptx.Box{X: marginX, Y: 5.12, W: contentW}, Line: rc.Scheme.Table.Border, LineWidth: 0.75},
			footerBox(rc, c.TextSubtle),
			slideNumberBox(rc, c.TextSubtle),
			logoElement(rc, logoBox, c.Primary),
		},
	}

	section := &pptx.Layout{
		Name:       names.Section,
		Background: c.Primary,
		Elements: []pptx.Element{
			footerBox(rc, c.TextOnDark),
			slideNumberBox(rc, c.TextOnDark),
			logoElement(rc, logoBox, c.TextOnDark),
		},
	}

	// Schemes may point several roles at one layout name; keep the first.
	out := []*pptx.Layout{title}
	for _, l := range []*pptx.Layout{content, section} {
		dup := false
		for _, existing := range out {
			if existing.Name == l.Name {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	return out
}

// FixedLayouts defines the single blank layout of the fixed report: a white
// page with a thin brand band, footer and slide number. The corner logo is
// placed by each page.
func FixedLayouts(rc *Context) []*pptx.Layout {
	c := rc.Scheme.Colors
	return []*pptx.Layout{{
		Name:       rc.Scheme.Layouts.Content,
		Background: c.BackgroundLight,
		Elements: []pptx.Element{
			&pptx.Shape{Name: "Brand Band", Geometry: pptx.GeomRect, Box: pptx.Box{X: 0, Y: 5.5, W: pptx.SlideWidth, H: 0.125}, Fill: c.Primary},
			footerBox(rc, c.TextSubtle),
			slideNumberBox(rc, c.TextSubtle),
		},
	}}
}
