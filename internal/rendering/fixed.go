package rendering

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/campaign-deck/internal/pptx"
	"github.com/jonathan/campaign-deck/internal/types"
)

// RenderFixedSlot renders one present page of the fixed report
func RenderFixedSlot(rc *Context, slot types.FixedSlot) (*pptx.Slide, error) {
	switch c := slot.Payload.(type) {
	case *types.TitleCoverContent:
		return renderCoverPage(rc, c), nil
	case *types.FixedAgendaContent:
		return renderAgendaPage(rc, c), nil
	case *types.ObjectivesResultsContent:
		return renderObjectivesPage(rc, c), nil
	case *types.KPIChartsContent:
		return renderKPIChartsPage(rc, c), nil
	case *types.ComparativeChartsContent:
		return renderComparativePage(rc, c), nil
	case *types.FixedSectionContent:
		return renderSectionPage(rc, c), nil
	case *types.DemographicsCreativeContent:
		return renderDemographicsPage(rc, c), nil
	case *types.FunnelStageContent:
		stage := rc.labels().Consideration
		if slot.ID == types.SlotConversionStage {
			stage = rc.labels().Conversion
		}
		return renderFunnelStage(rc, c, stage)
	case *types.CreativeGalleryContent:
		return renderGalleryPage(rc, c), nil
	case *types.OrganicSummaryContent:
		return renderOrganicPage(rc, c), nil
	case nil:
		return nil, &RenderError{Message: fmt.Sprintf("page %s has no content", slot.ID)}
	default:
		return nil, &RenderError{Message: fmt.Sprintf("page %s has unexpected content %T", slot.ID, slot.Payload)}
	}
}

func (rc *Context) reportSlide() *pptx.Slide {
	s := &pptx.Slide{Layout: rc.Scheme.Layouts.Content}
	placeCornerLogo(s)
	return s
}

// pageTitle places the title strip common to the content pages
func pageTitle(s *pptx.Slide, rc *Context, title string) {
	if t := strings.TrimSpace(title); t != "" {
		s.Add(textBox("Title", pptx.Box{X: 0.5, Y: 0.3, W: 8.2, H: 0.5},
			pptx.Plain(t, rc.headline(22, rc.Scheme.Colors.Primary), pptx.AlignLeft)))
	}
	s.Add(&pptx.Shape{Name: "Title Rule", Geometry: pptx.GeomRect, Box: pptx.Box{X: 0.5, Y: 0.82, W: 1.2, H: 0.05}, Fill: rc.Scheme.Colors.Accent})
}

func renderCoverPage(rc *Context, c *types.TitleCoverContent) *pptx.Slide {
	col := rc.Scheme.Colors
	s := rc.reportSlide()
	s.Background = col.BackgroundDark

	s.Add(&pptx.Shape{Name: "Accent", Geometry: pptx.GeomRect, Box: pptx.Box{X: 0.5, Y: 1.45, W: 0.08, H: 2.45}, Fill: col.Accent})
	if rt := strings.TrimSpace(c.ReportType); rt != "" {
		s.Add(textBox("Report Type", pptx.Box{X: 0.75, Y: 1.4, W: 8.5, H: 0.35},
			pptx.Plain(strings.ToUpper(rt), rc.headline(12, col.Accent), pptx.AlignLeft)))
	}
	s.Add(textBox("Title", pptx.Box{X: 0.75, Y: 1.8, W: 8.5, H: 1.0},
		pptx.Plain(TitleText(rc, c.Title), rc.headline(34, col.TextOnDark), pptx.AlignLeft)))
	if st := strings.TrimSpace(c.Subtitle); st != "" {
		s.Add(textBox("Subtitle", pptx.Box{X: 0.75, Y: 2.8, W: 8.5, H: 0.45},
			pptx.Plain(st, rc.body(16, col.TextOnDark), pptx.AlignLeft)))
	}
	if client := firstNonEmpty(c.ClientName, rc.ClientName); client != "" {
		s.Add(textBox("Client", pptx.Box{X: 0.75, Y: 3.3, W: 8.5, H: 0.35},
			pptx.Plain(client, rc.headline(14, col.TextOnDark), pptx.AlignLeft)))
	}
	if period := firstNonEmpty(c.Period, rc.Period); period != "" {
		s.Add(textBox("Period", pptx.Box{X: 0.75, Y: 3.65, W: 8.5, H: 0.3},
			pptx.Plain(period, rc.body(12, col.Accent), pptx.AlignLeft)))
	}
	return s
}

func renderAgendaPage(rc *Context, c *types.FixedAgendaContent) *pptx.Slide {
	col := rc.Scheme.Colors
	s := rc.reportSlide()

	s.Add(&pptx.Shape{Name: "Panel", Geometry: pptx.GeomRect, Box: pptx.Box{X: 0, Y: 0, W: 3.2, H: 5.5}, Fill: col.Primary})
	if t := strings.TrimSpace(c.Title); t != "" {
		s.Add(textBox("Title", pptx.Box{X: 0.4, Y: 0.6, W: 2.5, H: 1.2}, pptx.Plain(t, rc.headline(28, col.TextOnDark), pptx.AlignLeft)))
	}

	items := nonEmpty(c.Items)
	pitch := 0.55
	if len(items) > 0 {
		pitch = math.Min(0.55, 4.3/float64(len(items)))
	}
	y := 0.8
	for i, item := range items {
		marker := math.Min(0.4, pitch-0.08)
		s.Add(&pptx.Shape{Name: "Agenda Marker", Geometry: pptx.GeomEllipse, Box: pptx.Box{X: 3.6, Y: y, W: marker, H: marker}, Fill: col.Accent})
		s.Add(centeredText("Agenda Number", pptx.Box{X: 3.6, Y: y, W: marker, H: marker}, strconv.Itoa(i+1), rc.headline(math.Max(8, marker*30), col.TextOnDark)))
		tb := textBox("Agenda Item", pptx.Box{X: 4.15, Y: y, W: 5.4, H: marker}, pptx.Plain(item, rc.body(16, col.TextOnLight), pptx.AlignLeft))
		tb.Anchor = pptx.AnchorMiddle
		s.Add(tb)
		y += pitch
	}
	return s
}

func renderObjectivesPage(rc *Context, c *types.ObjectivesResultsContent) *pptx.Slide {
	col := rc.Scheme.Colors
	l := rc.labels()
	s := rc.reportSlide()
	pageTitle(s, rc, c.Title)

	y := 1.1
	y = placeHeading(s, rc, 0.5, y, 4.3, firstNonEmpty(c.ObjectivesTitle, l.Objectives), col.Primary)
	placeBullets(s, rc, 0.5, y, 4.3, c.Objectives, 13, rc.Scheme.Bullets.Generic)

	s.Add(&pptx.Shape{Name: "Divider", Geometry: pptx.GeomLine, Box: pptx.Box{X: 5.0, Y: 1.1, W: 0, H: 3.9}, Line: rc.Scheme.Table.Border, LineWidth: 1})

	y = 1.1
	y = placeHeading(s, rc, 5.2, y, 4.3, firstNonEmpty(c.ResultsTitle, l.Results), col.Primary)
	placeBullets(s, rc, 5.2, y, 4.3, c.ResultsPoints, 13, rc.Scheme.Bullets.KPIAccent)
	return s
}

// Donut grid geometry of the chart pages
const (
	donutsPerRow  = 3
	donutDiameter = 0.8
	donutPitchX   = 1.45
	donutPitchY   = 1.35
)

// placeChartGroup lays a titled group of donuts at y inside a column of width
// w and returns the next free y.
func placeChartGroup(s *pptx.Slide, rc *Context, x, y, w float64, g *types.ChartGroup, heading, color string) float64 {
	if g == nil {
		return y
	}
	y = placeHeading(s, rc, x, y, w, firstNonEmpty(g.Title, heading), rc.Scheme.Colors.Primary)
	if len(g.Items) == 0 {
		return y
	}
	perRow := min(len(g.Items), donutsPerRow)
	originX := x + (w-float64(perRow)*donutPitchX)/2
	for i, item := range g.Items {
		sx, sy := gridSlot(i, donutsPerRow, originX, y, donutPitchX, donutPitchY)
		placeDonut(s, rc, sx+donutPitchX/2, sy+donutDiameter/2+0.05, donutDiameter, item, color)
	}
	return y + float64(gridRows(len(g.Items), donutsPerRow))*donutPitchY
}

func renderKPIChartsPage(rc *Context, c *types.KPIChartsContent) *pptx.Slide {
	s := rc.reportSlide()
	pageTitle(s, rc, c.Title)

	y := 1.05
	y = placeKPIRow(s, rc, 0.5, y, 9.0, c.HeaderKPIs)
	placeChartGroup(s, rc, 0.5, y, 4.4, c.PrimaryCharts, "", rc.Scheme.Colors.Primary)
	placeChartGroup(s, rc, 5.1, y, 4.4, c.SecondaryCharts, "", rc.Scheme.Colors.Secondary)
	return s
}

func renderComparativePage(rc *Context, c *types.ComparativeChartsContent) *pptx.Slide {
	l := rc.labels()
	s := rc.reportSlide()
	pageTitle(s, rc, c.Title)

	y := 1.05
	left := placeChartGroup(s, rc, 0.5, y, 4.4, c.Ours, l.Ours, rc.Scheme.Colors.Primary)
	right := placeChartGroup(s, rc, 5.1, y, 4.4, c.Everyone, l.Everyone, rc.Scheme.Colors.Secondary)
	if c.Ours != nil && c.Everyone != nil {
		s.Add(&pptx.Shape{Name: "Divider", Geometry: pptx.GeomLine, Box: pptx.Box{X: 5.0, Y: y, W: 0, H: math.Max(left, right) - y}, Line: rc.Scheme.Table.Border, LineWidth: 1})
	}

	y = math.Max(left, right)
	if len(nonEmpty(c.Insights)) > 0 {
		y = placeHeading(s, rc, 0.5, y, 9.0, l.Insights, rc.Scheme.Colors.Primary)
		placeBullets(s, rc, 0.5, y, 9.0, c.Insights, 12, rc.Scheme.Bullets.Generic)
	}
	return s
}

func renderSectionPage(rc *Context, c *types.FixedSectionContent) *pptx.Slide {
	col := rc.Scheme.Colors
	s := rc.reportSlide()
	s.Background = col.Primary

	s.Add(&pptx.Shape{Name: "Accent", Geometry: pptx.GeomLine, Box: pptx.Box{X: 4.5, Y: 1.9, W: 1.0, H: 0}, Line: col.Accent, LineWidth: 3})
	if t := strings.TrimSpace(c.Title); t != "" {
		s.Add(centeredText("Title", pptx.Box{X: 0.5, Y: 2.1, W: 9.0, H: 0.9}, t, rc.headline(34, col.TextOnDark)))
	}
	if st := strings.TrimSpace(c.Subtitle); st != "" {
		s.Add(centeredText("Subtitle", pptx.Box{X: 0.5, Y: 3.0, W: 9.0, H: 0.5}, st, rc.body(16, col.Accent)))
	}
	return s
}

// placeMiniChart draws a titled mini chart inside box, as donuts side by side
// or as stacked bars.
func placeMiniChart(s *pptx.Slide, rc *Context, box pptx.Box, chart types.MiniChart, color string) {
	y := placeHeading(s, rc, box.X, box.Y, box.W, chart.Title, rc.Scheme.Colors.TextOnLight)
	if len(chart.Items) == 0 {
		return
	}
	avail := box.Bottom() - y

	if chart.Style == types.ChartBar {
		rowH := math.Min(0.3, avail/float64(len(chart.Items)))
		for i, item := range chart.Items {
			placeBar(s, rc, pptx.Box{X: box.X, Y: y + float64(i)*rowH, W: box.W, H: rowH}, item, color)
		}
		return
	}

	pitch := box.W / float64(len(chart.Items))
	d := math.Max(0.3, math.Min(0.7, math.Min(pitch*0.75, avail-0.4)))
	for i, item := range chart.Items {
		placeDonut(s, rc, box.X+pitch*(float64(i)+0.5), y+d/2+0.05, d, item, color)
	}
}

func renderDemographicsPage(rc *Context, c *types.DemographicsCreativeContent) *pptx.Slide {
	s := rc.reportSlide()
	pageTitle(s, rc, c.Title)

	img := pptx.Box{X: 0.5, Y: 1.1, W: 3.6, H: 3.6}
	addImage(s, rc, c.ImageIdentifier, img)
	if name := strings.TrimSpace(c.CreativeName); name != "" {
		s.Add(centeredText("Creative Name", pptx.Box{X: img.X, Y: img.Bottom() + 0.05, W: img.W, H: 0.3}, name, rc.body(11, rc.Scheme.Colors.TextSubtle)))
	}

	const (
		perRow = 2
		cellW  = 2.45
		cellH  = 1.95
		gap    = 0.15
	)
	colors := []string{rc.Scheme.Colors.Primary, rc.Scheme.Colors.Secondary, rc.Scheme.Colors.Accent}
	for i, chart := range c.Charts {
		x, y := gridSlot(i, perRow, 4.4, 1.1, cellW+gap, cellH+gap)
		placeMiniChart(s, rc, pptx.Box{X: x, Y: y, W: cellW, H: cellH}, chart, colors[i%len(colors)])
	}
	return s
}

// placeMetricTable converts a metric table into a synthetic table with its
// title above it, returning the next free y.
func placeMetricTable(s *pptx.Slide, rc *Context, x, y, w float64, t *types.MetricTable) (float64, error) {
	if t == nil || (len(t.Columns) == 0 && len(t.Rows) == 0) {
		return y, nil
	}
	header := append([]string{""}, t.Columns...)
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if len(t.Columns) > 0 && len(r.Values) > len(t.Columns) {
			return y, &RenderError{Message: fmt.Sprintf("table %q row %q has %d values for %d columns", t.Title, r.Label, len(r.Values), len(t.Columns))}
		}
		rows = append(rows, append([]string{r.Label}, r.Values...))
	}

	y = placeHeading(s, rc, x, y, w, t.Title, rc.Scheme.Colors.Primary)
	rowH := 0.3
	if n := len(rows) + 1; float64(n)*rowH > 2.2 {
		rowH = math.Max(0.2, 2.2/float64(n))
	}
	return placeTable(s, rc, x, y, w, header, rows, rowH), nil
}

// renderFunnelStage is the shared layout of the consideration and conversion
// pages. Only the data differs between the two.
func renderFunnelStage(rc *Context, c *types.FunnelStageContent, defaultStage string) (*pptx.Slide, error) {
	col := rc.Scheme.Colors
	s := rc.reportSlide()
	pageTitle(s, rc, c.Title)

	stage := firstNonEmpty(c.StageLabel, defaultStage)
	pill := pptx.Box{X: 7.2, Y: 0.35, W: 1.5, H: 0.35}
	s.Add(&pptx.Shape{Name: "Stage", Geometry: pptx.GeomRoundRect, Box: pill, Fill: col.Accent})
	s.Add(centeredText("Stage Label", pill, stage, rc.headline(11, col.TextOnLight)))

	y := 1.05
	y = placeKPIRow(s, rc, 0.5, y, 9.0, c.GlobalKPIs)

	left, err := placeMetricTable(s, rc, 0.5, y, 4.4, c.RegionTable)
	if err != nil {
		return nil, err
	}
	right, err := placeMetricTable(s, rc, 5.1, y, 4.4, c.ChannelTable)
	if err != nil {
		return nil, err
	}

	y = math.Max(left, right)
	if len(nonEmpty(c.Insights)) > 0 {
		y = placeHeading(s, rc, 0.5, y, 9.0, rc.labels().Insights, col.Primary)
		placeBullets(s, rc, 0.5, y, 9.0, c.Insights, 11, rc.Scheme.Bullets.Generic)
	}
	return s, nil
}

func renderGalleryPage(rc *Context, c *types.CreativeGalleryContent) *pptx.Slide {
	col := rc.Scheme.Colors
	s := rc.reportSlide()
	pageTitle(s, rc, c.Title)

	const (
		perRow = 4
		cellW  = 2.1
		pitchX = 2.3
		pitchY = 2.05
		imageH = 1.2
	)
	for i, cr := range c.Creatives {
		x, y := gridSlot(i, perRow, 0.5, 1.05, pitchX, pitchY)
		addImage(s, rc, cr.ImageIdentifier, pptx.Box{X: x, Y: y, W: cellW, H: imageH})
		if name := strings.TrimSpace(cr.Name); name != "" {
			s.Add(centeredText("Creative Name", pptx.Box{X: x, Y: y + imageH + 0.03, W: cellW, H: 0.28}, name, rc.headline(10, col.TextOnLight)))
		}
		if m := joinNonEmpty(" · ", cr.Metrics...); m != "" {
			s.Add(textBox("Creative Metrics", pptx.Box{X: x, Y: y + imageH + 0.31, W: cellW, H: 0.4}, pptx.Plain(m, rc.body(8, col.TextSubtle), pptx.AlignCenter)))
		}
	}

	y := 1.05 + float64(gridRows(len(c.Creatives), perRow))*pitchY
	if len(nonEmpty(c.Analysis)) > 0 {
		y = placeHeading(s, rc, 0.5, y, 9.0, rc.labels().Analysis, col.Primary)
		placeBullets(s, rc, 0.5, y, 9.0, c.Analysis, 11, rc.Scheme.Bullets.Generic)
	}
	return s
}

func renderOrganicPage(rc *Context, c *types.OrganicSummaryContent) *pptx.Slide {
	col := rc.Scheme.Colors
	s := rc.reportSlide()
	pageTitle(s, rc, c.Title)

	const (
		perRow = 3
		cardW  = 2.9
		pitchX = 3.05
	)
	y := 1.05
	rowStart, rowEnd := y, y
	for i, obj := range c.Objectives {
		if i > 0 && i%perRow == 0 {
			rowStart = rowEnd + 0.15
		}
		x, _ := gridSlot(i, perRow, 0.5, rowStart, pitchX, 0)
		cy := placeHeading(s, rc, x+0.1, rowStart+0.1, cardW-0.2, obj.Title, col.Primary)
		cy = placeBullets(s, rc, x+0.1, cy, cardW-0.2, obj.KPIs, 11, rc.Scheme.Bullets.KPIAccent)
		s.Add(&pptx.Shape{Name: "Objective Card", Geometry: pptx.GeomRoundRect, Box: pptx.Box{X: x, Y: rowStart, W: cardW, H: cy - rowStart}, Line: rc.Scheme.Table.Border, LineWidth: 1})
		rowEnd = math.Max(rowEnd, cy)
	}
	if len(c.Objectives) > 0 {
		y = rowEnd + 0.2
	}

	if summary := nonEmpty(c.Summary); len(summary) > 0 {
		h := float64(len(summary))*lineHeight(12) + 0.55
		s.Add(&pptx.Shape{Name: "Summary Panel", Geometry: pptx.GeomRect, Box: pptx.Box{X: 0.5, Y: y, W: 9.0, H: h}, Fill: rc.Scheme.ZebraColor()})
		sy := placeHeading(s, rc, 0.65, y+0.08, 8.7, rc.labels().Summary, col.Primary)
		placeBullets(s, rc, 0.65, sy, 8.7, summary, 12, rc.Scheme.Bullets.Generic)
	}
	return s
}

// RenderClosing is the thank-you page appended to every fixed report
func RenderClosing(rc *Context) *pptx.Slide {
	col := rc.Scheme.Colors
	s := rc.reportSlide()
	s.Background = col.BackgroundDark
	s.Add(centeredText("Title", pptx.Box{X: 0.5, Y: 2.0, W: 9.0, H: 0.9}, rc.labels().ThankYou, rc.headline(40, col.TextOnDark)))
	if meta := joinNonEmpty(" · ", rc.ClientName, rc.Period); meta != "" {
		s.Add(centeredText("Client", pptx.Box{X: 0.5, Y: 2.95, W: 9.0, H: 0.4}, meta, rc.body(14, col.Accent)))
	}
	return s
}
