package rendering

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/campaign-deck/internal/pptx"
	"github.com/jonathan/campaign-deck/internal/types"
)

// RenderGeneric dispatches a generic slide record to its renderer
func RenderGeneric(rc *Context, slide types.SlideContent) (*pptx.Slide, error) {
	switch s := slide.(type) {
	case *types.TitleSlide:
		return renderTitle(rc, s)
	case *types.AgendaSlide:
		return renderAgenda(rc, s)
	case *types.SectionSlide:
		return renderSection(rc, s)
	case *types.ExecutiveSummarySlide:
		return renderExecutiveSummary(rc, s)
	case *types.KPIHighlightsSlide:
		return renderKPIHighlights(rc, s)
	case *types.DetailedAnalysisSlide:
		return renderDetailedAnalysis(rc, s)
	case *types.CreativeAnalysisSlide:
		return renderCreativeAnalysis(rc, s)
	case *types.ConclusionsSlide:
		return renderConclusions(rc, s)
	case *types.AnnexSlide:
		return renderAnnex(rc, s)
	case *types.ThankYouSlide:
		return renderThankYou(rc, s)
	case *types.UnknownSlide:
		return nil, &UnknownKindError{Kind: s.Type}
	case nil:
		return nil, &RenderError{Message: "missing slide record"}
	default:
		return nil, &UnknownKindError{Kind: string(slide.Kind())}
	}
}

func nilRecord(kind types.SlideKind) error {
	return &RenderError{Message: fmt.Sprintf("%s slide has no content record", kind)}
}

func (rc *Context) contentSlide() *pptx.Slide {
	return &pptx.Slide{Layout: rc.Scheme.Layouts.Content}
}

// TitleText picks the title slide's heading: the slide's own title, then the
// deck title, then the language default.
func TitleText(rc *Context, slideTitle string) string {
	return firstNonEmpty(slideTitle, rc.DeckTitle, rc.labels().DefaultTitle)
}

func renderTitle(rc *Context, s *types.TitleSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindTitle)
	}
	c := rc.Scheme.Colors
	slide := &pptx.Slide{Layout: rc.Scheme.Layouts.Title}

	slide.Add(textBox("Title", pptx.Box{X: marginX, Y: 1.7, W: contentW, H: 1.1},
		pptx.Plain(TitleText(rc, s.Title), rc.headline(36, c.TextOnDark), pptx.AlignLeft)))

	if st := strings.TrimSpace(s.Subtitle); st != "" {
		slide.Add(textBox("Subtitle", pptx.Box{X: marginX, Y: 2.85, W: contentW, H: 0.5},
			pptx.Plain(st, rc.body(18, c.Accent), pptx.AlignLeft)))
	}
	if meta := joinNonEmpty(" · ", rc.ClientName, rc.Period); meta != "" {
		slide.Add(textBox("Client", pptx.Box{X: marginX, Y: 3.45, W: contentW, H: 0.4},
			pptx.Plain(meta, rc.body(14, c.TextOnDark), pptx.AlignLeft)))
	}
	if tag := rc.Scheme.TaglineText(rc.Language); tag != "" {
		font := rc.body(12, c.TextOnDark)
		font.Italic = true
		slide.Add(textBox("Tagline", pptx.Box{X: marginX, Y: 4.6, W: contentW, H: 0.35},
			pptx.Plain(tag, font, pptx.AlignLeft)))
	}
	return slide, nil
}

func renderAgenda(rc *Context, s *types.AgendaSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindAgenda)
	}
	slide := rc.contentSlide()
	addTitle(slide, rc, s.SlideHeader)
	if tb := bulletBox("Agenda", pptx.Box{X: marginX, Y: bodyTop, W: contentW, H: bodyBottom - bodyTop},
		s.AgendaPoints, rc.body(20, rc.Scheme.Colors.TextOnLight), rc.Scheme.Bullets.Generic); tb != nil {
		slide.Add(tb)
	}
	return slide, nil
}

func renderSection(rc *Context, s *types.SectionSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindSectionDivider)
	}
	c := rc.Scheme.Colors
	slide := &pptx.Slide{Layout: rc.Scheme.Layouts.Section}
	if t := strings.TrimSpace(s.Title); t != "" {
		slide.Add(centeredText("Title", pptx.Box{X: marginX, Y: 2.0, W: contentW, H: 0.9}, t, rc.headline(34, c.TextOnDark)))
	}
	if st := strings.TrimSpace(s.Subtitle); st != "" {
		slide.Add(centeredText("Subtitle", pptx.Box{X: marginX, Y: 2.95, W: contentW, H: 0.5}, st, rc.body(16, c.Accent)))
	}
	return slide, nil
}

func renderExecutiveSummary(rc *Context, s *types.ExecutiveSummarySlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindExecutiveSummary)
	}
	slide := rc.contentSlide()
	addTitle(slide, rc, s.SlideHeader)
	if tb := bulletBox("Summary", pptx.Box{X: marginX, Y: bodyTop, W: contentW, H: bodyBottom - bodyTop},
		s.ExecutiveSummaryPoints, rc.body(18, rc.Scheme.Colors.TextOnLight), rc.Scheme.Bullets.Generic); tb != nil {
		slide.Add(tb)
	}
	return slide, nil
}

// KPI highlight stacking geometry, in inches
const (
	kpiTitleHeight   = 0.35
	kpiLineHeight    = 0.3
	kpiMinLineHeight = 0.18
	kpiSectionGap    = 0.15
)

// SectionPlacement is the vertical extent computed for one KPI highlight section
type SectionPlacement struct {
	TitleY     float64
	BodyY      float64
	BodyHeight float64
	LineHeight float64
	Height     float64
}

// StackKPISections computes where each KPI highlight section goes between top
// and bottom. Each section's height follows from its point count, and the next
// section starts below the previous one's full height plus a gap, so sections
// never overlap. When the content would overflow, line height shrinks down to a
// floor; below the floor the stack runs past bottom rather than overlapping.
func StackKPISections(sections []types.KPIHighlightSection, top, bottom float64) []SectionPlacement {
	lines, titled := 0, 0
	for _, sec := range sections {
		lines += len(nonEmpty(sec.Points))
		if strings.TrimSpace(sec.Title) != "" {
			titled++
		}
	}

	line := kpiLineHeight
	if lines > 0 {
		fixed := float64(titled)*kpiTitleHeight + float64(max(len(sections)-1, 0))*kpiSectionGap
		if avail := bottom - top - fixed; float64(lines)*line > avail {
			line = math.Max(avail/float64(lines), kpiMinLineHeight)
		}
	}

	out := make([]SectionPlacement, len(sections))
	y := top
	for i, sec := range sections {
		th := 0.0
		if strings.TrimSpace(sec.Title) != "" {
			th = kpiTitleHeight
		}
		bh := float64(len(nonEmpty(sec.Points))) * line
		out[i] = SectionPlacement{TitleY: y, BodyY: y + th, BodyHeight: bh, LineHeight: line, Height: th + bh}
		y += out[i].Height + kpiSectionGap
	}
	return out
}

func renderKPIHighlights(rc *Context, s *types.KPIHighlightsSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindKPIHighlights)
	}
	slide := rc.contentSlide()
	addTitle(slide, rc, s.SlideHeader)

	for i, p := range StackKPISections(s.KPIHighlights, bodyTop, bodyBottom) {
		sec := s.KPIHighlights[i]
		if t := strings.TrimSpace(sec.Title); t != "" {
			slide.Add(textBox("KPI Section Title", pptx.Box{X: marginX, Y: p.TitleY, W: contentW, H: kpiTitleHeight},
				pptx.Plain(t, rc.headline(15, rc.Scheme.Bullets.KPITitle), pptx.AlignLeft)))
		}
		size := math.Min(14, math.Round(p.LineHeight*72*0.65))
		if tb := bulletBox("KPI Section Points", pptx.Box{X: marginX + 0.2, Y: p.BodyY, W: contentW - 0.2, H: p.BodyHeight},
			sec.Points, rc.body(size, rc.Scheme.Colors.TextOnLight), rc.Scheme.Bullets.KPIAccent); tb != nil {
			slide.Add(tb)
		}
	}
	return slide, nil
}

func renderDetailedAnalysis(rc *Context, s *types.DetailedAnalysisSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindDetailedAnalysis)
	}
	slide := rc.contentSlide()
	addTitle(slide, rc, s.SlideHeader)
	if tb := bulletBox("Analysis", pptx.Box{X: marginX, Y: bodyTop, W: contentW, H: bodyBottom - bodyTop},
		s.AnalysisPoints, rc.body(16, rc.Scheme.Colors.TextOnLight), rc.Scheme.Bullets.Generic); tb != nil {
		slide.Add(tb)
	}
	return slide, nil
}

// Creative analysis geometry
const (
	creativeImageH   = 3.25
	creativeSplitW   = 4.3
	creativeTextX    = 5.0
	creativeTextW    = 4.5
	creativeCaptionH = 0.3
)

// CreativeImageBox returns the image area of a creative analysis slide. With
// analysis points the image shares the width with a text column; without them
// it spans the full content width.
func CreativeImageBox(hasPoints bool) pptx.Box {
	if hasPoints {
		return pptx.Box{X: marginX, Y: bodyTop, W: creativeSplitW, H: creativeImageH}
	}
	return pptx.Box{X: marginX, Y: bodyTop, W: contentW, H: creativeImageH}
}

func renderCreativeAnalysis(rc *Context, s *types.CreativeAnalysisSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindCreativeAnalysis)
	}
	slide := rc.contentSlide()
	addTitle(slide, rc, s.SlideHeader)

	points := nonEmpty(s.AnalysisPoints)
	box := CreativeImageBox(len(points) > 0)
	addImage(slide, rc, s.ImageIdentifier, box)

	if name := strings.TrimSpace(s.CreativeName); name != "" {
		font := rc.body(11, rc.Scheme.Colors.TextSubtle)
		font.Italic = true
		slide.Add(textBox("Creative Name", pptx.Box{X: box.X, Y: box.Bottom() + 0.05, W: box.W, H: creativeCaptionH},
			pptx.Plain(name, font, pptx.AlignCenter)))
	}
	if len(points) > 0 {
		slide.Add(bulletBox("Analysis", pptx.Box{X: creativeTextX, Y: bodyTop, W: creativeTextW, H: bodyBottom - bodyTop},
			points, rc.body(14, rc.Scheme.Colors.TextOnLight), rc.Scheme.Bullets.Generic))
	}
	return slide, nil
}

// ConclusionColumns splits the content width into the two equal columns of the
// conclusions slide.
func ConclusionColumns() (left, right pptx.Box) {
	const gap = 0.3
	w := (contentW - gap) / 2
	left = pptx.Box{X: marginX, Y: bodyTop, W: w, H: bodyBottom - bodyTop}
	right = pptx.Box{X: marginX + w + gap, Y: bodyTop, W: w, H: bodyBottom - bodyTop}
	return left, right
}

func renderConclusions(rc *Context, s *types.ConclusionsSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindConclusionsRecommendations)
	}
	slide := rc.contentSlide()
	addTitle(slide, rc, s.SlideHeader)

	left, right := ConclusionColumns()
	l := rc.labels()
	placeColumn(slide, rc, left, "Conclusions", l.Conclusions, s.Conclusions, rc.Scheme.Bullets.Conclusions)
	placeColumn(slide, rc, right, "Recommendations", l.Recommendations, s.Recommendations, rc.Scheme.Bullets.Recommendations)
	return slide, nil
}

// placeColumn places a headed bullet column, or nothing at all when the list is empty
func placeColumn(slide *pptx.Slide, rc *Context, box pptx.Box, name, heading string, points []string, color string) {
	points = nonEmpty(points)
	if len(points) == 0 {
		return
	}
	slide.Add(&pptx.Shape{Name: name + " Rule", Geometry: pptx.GeomRect, Box: pptx.Box{X: box.X, Y: box.Y, W: box.W, H: 0.05}, Fill: color})
	slide.Add(textBox(name+" Heading", pptx.Box{X: box.X, Y: box.Y + 0.1, W: box.W, H: 0.4},
		pptx.Plain(heading, rc.headline(18, color), pptx.AlignLeft)))
	slide.Add(bulletBox(name, pptx.Box{X: box.X, Y: box.Y + 0.6, W: box.W, H: box.H - 0.6},
		points, rc.body(14, rc.Scheme.Colors.TextOnLight), color))
}

func renderAnnex(rc *Context, s *types.AnnexSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindAnnex)
	}
	slide := rc.contentSlide()
	addTitle(slide, rc, s.SlideHeader)

	lines := nonEmpty(strings.Split(s.AnnexContent, "\n"))
	if len(lines) > 0 {
		paras := make([]pptx.Paragraph, 0, len(lines))
		for _, line := range lines {
			p := pptx.Plain(line, rc.body(12, rc.Scheme.Colors.TextOnLight), pptx.AlignLeft)
			p.SpaceAfter = 4
			paras = append(paras, p)
		}
		slide.Add(textBox("Annex", pptx.Box{X: marginX, Y: bodyTop, W: contentW, H: bodyBottom - bodyTop}, paras...))
	}
	return slide, nil
}

func renderThankYou(rc *Context, s *types.ThankYouSlide) (*pptx.Slide, error) {
	if s == nil {
		return nil, nilRecord(types.KindThankYou)
	}
	c := rc.Scheme.Colors
	slide := &pptx.Slide{Layout: rc.Scheme.Layouts.Section}
	slide.Add(centeredText("Title", pptx.Box{X: marginX, Y: 2.0, W: contentW, H: 0.9},
		firstNonEmpty(s.Title, rc.labels().ThankYou), rc.headline(40, c.TextOnDark)))
	if st := strings.TrimSpace(s.Subtitle); st != "" {
		slide.Add(centeredText("Subtitle", pptx.Box{X: marginX, Y: 2.95, W: contentW, H: 0.5}, st, rc.body(16, c.Accent)))
	}
	return slide, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}
