package rendering

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/jonathan/campaign-deck/internal/brand"
	"github.com/jonathan/campaign-deck/internal/images"
	"github.com/jonathan/campaign-deck/internal/pptx"
	"github.com/jonathan/campaign-deck/internal/types"
)

// Generic content geometry, in inches
const (
	marginX    = 0.5
	contentW   = pptx.SlideWidth - 2*marginX
	titleY     = 0.35
	titleH     = 0.6
	subtitleY  = 0.95
	subtitleH  = 0.35
	bodyTop    = 1.35
	bodyBottom = 5.0
)

// cornerLogo is where every fixed report page places the logo
var cornerLogo = pptx.Box{X: 8.88, Y: 0.18, W: 0.8, H: 0.45}

var logoPayload = sync.OnceValue(func() images.Payload {
	return images.Placeholder("LOGO")
})

func logoPicture(box pptx.Box) *pptx.Picture {
	p := logoPayload()
	return &pptx.Picture{
		Name:     "Logo",
		Box:      box,
		Data:     p.Data,
		MimeType: p.MimeType,
		Ext:      p.Ext,
		Descr:    "Logo",
		PixelW:   p.Width,
		PixelH:   p.Height,
		Fit:      pptx.FitContain,
	}
}

func placeCornerLogo(s *pptx.Slide) {
	s.Add(logoPicture(cornerLogo))
}

func textBox(name string, box pptx.Box, paras ...pptx.Paragraph) *pptx.TextBox {
	return &pptx.TextBox{Name: name, Box: box, Paragraphs: paras}
}

func centeredText(name string, box pptx.Box, text string, font pptx.Font) *pptx.TextBox {
	tb := textBox(name, box, pptx.Plain(text, font, pptx.AlignCenter))
	tb.Anchor = pptx.AnchorMiddle
	return tb
}

// bulletBox renders one bulleted paragraph per non-blank point, or nil if there are none
func bulletBox(name string, box pptx.Box, points []string, font pptx.Font, bulletColor string) *pptx.TextBox {
	points = nonEmpty(points)
	if len(points) == 0 {
		return nil
	}
	paras := make([]pptx.Paragraph, 0, len(points))
	for _, p := range points {
		paras = append(paras, pptx.Bulleted(p, font, bulletColor))
	}
	return textBox(name, box, paras...)
}

// addTitle emits the slide title and subtitle of the generic layouts. Blank
// values produce no text box at all.
func addTitle(s *pptx.Slide, rc *Context, h types.SlideHeader) {
	if t := strings.TrimSpace(h.Title); t != "" {
		s.Add(textBox("Title", pptx.Box{X: marginX, Y: titleY, W: contentW - 1.0, H: titleH},
			pptx.Plain(t, rc.headline(26, rc.Scheme.Colors.TextOnLight), pptx.AlignLeft)))
	}
	if st := strings.TrimSpace(h.Subtitle); st != "" {
		s.Add(textBox("Subtitle", pptx.Box{X: marginX, Y: subtitleY, W: contentW - 1.0, H: subtitleH},
			pptx.Plain(st, rc.body(14, rc.Scheme.Colors.TextSubtle), pptx.AlignLeft)))
	}
}

// addImage resolves identifier and places the bitmap letterboxed inside box.
// Unresolved or undecodable images become placeholders.
func addImage(s *pptx.Slide, rc *Context, identifier string, box pptx.Box) images.ImageRef {
	ref := images.Resolve(identifier, rc.Uploaded)
	payload, err := images.Load(ref)
	if err != nil && rc.ImageFallback != nil {
		rc.ImageFallback(ref, err)
	}
	s.Add(&pptx.Picture{
		Name:     "Image",
		Box:      box,
		Data:     payload.Data,
		MimeType: payload.MimeType,
		Ext:      payload.Ext,
		Descr:    ref.Description,
		PixelW:   payload.Width,
		PixelH:   payload.Height,
		Fit:      pptx.FitContain,
	})
	return ref
}

// lineHeight is the vertical space one bullet line takes at a font size
func lineHeight(size float64) float64 {
	return size / 72 * 1.6
}

// placeHeading places a bold heading at y and returns the next free y. A blank
// heading takes no space.
func placeHeading(s *pptx.Slide, rc *Context, x, y, w float64, text, color string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return y
	}
	s.Add(textBox("Heading", pptx.Box{X: x, Y: y, W: w, H: 0.35}, pptx.Plain(text, rc.headline(14, color), pptx.AlignLeft)))
	return y + 0.4
}

// placeBullets places a bullet list at y and returns the next free y. Each
// point advances the cursor by one line; an empty list leaves y unchanged.
func placeBullets(s *pptx.Slide, rc *Context, x, y, w float64, points []string, size float64, bulletColor string) float64 {
	points = nonEmpty(points)
	if len(points) == 0 {
		return y
	}
	h := 0.0
	for range points {
		h += lineHeight(size)
	}
	s.Add(bulletBox("Bullets", pptx.Box{X: x, Y: y, W: w, H: h}, points, rc.body(size, rc.Scheme.Colors.TextOnLight), bulletColor))
	return y + h + 0.1
}

// gridSlot returns the top-left corner of item i in a left-to-right grid that
// wraps every perRow items.
func gridSlot(i, perRow int, originX, originY, pitchX, pitchY float64) (x, y float64) {
	if perRow < 1 {
		perRow = 1
	}
	return originX + float64(i%perRow)*pitchX, originY + float64(i/perRow)*pitchY
}

// gridRows returns how many rows n items occupy when wrapping every perRow
func gridRows(n, perRow int) int {
	if n <= 0 {
		return 0
	}
	if perRow < 1 {
		perRow = 1
	}
	return (n + perRow - 1) / perRow
}

// parseShare reads a percentage such as "64%" or "12,5 %" as a fraction in
// [0, 1]. Values without a percent sign are display text only and draw no
// proportional arc or fill.
func parseShare(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if !strings.HasSuffix(v, "%") {
		return 0, false
	}
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	v = strings.ReplaceAll(v, ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Max(0, math.Min(1, f/100)), true
}

const (
	donutThickness = 22000
	arcStart       = 270 * 60000
)

// DonutPlacement records where a donut chart primitive put its parts
type DonutPlacement struct {
	Ring  pptx.Box
	Value pptx.Box
	Label pptx.Box
}

// placeDonut draws the chart primitive used in place of real charts: a track
// ring, a coloured arc for the share, the value centred in the ring and the
// label beneath it. It returns the placement of each part.
func placeDonut(s *pptx.Slide, rc *Context, cx, cy, diameter float64, item types.ChartItem, color string) DonutPlacement {
	ring := pptx.Centered(cx, cy, diameter, diameter)
	s.Add(&pptx.Shape{Name: "Donut Track", Geometry: pptx.GeomDonut, Box: ring, Fill: rc.Scheme.TrackColor(),
		Adjust: []pptx.Guide{{Name: "adj", Value: donutThickness}}})

	if share, ok := parseShare(item.Value); ok && share > 0 {
		if share >= 1 {
			s.Add(&pptx.Shape{Name: "Donut Value", Geometry: pptx.GeomDonut, Box: ring, Fill: color,
				Adjust: []pptx.Guide{{Name: "adj", Value: donutThickness}}})
		} else {
			end := (arcStart + int64(share*360*60000)) % (360 * 60000)
			s.Add(&pptx.Shape{Name: "Donut Value", Geometry: pptx.GeomBlockArc, Box: ring, Fill: color,
				Adjust: []pptx.Guide{{Name: "adj1", Value: arcStart}, {Name: "adj2", Value: end}, {Name: "adj3", Value: donutThickness}}})
		}
	}

	p := DonutPlacement{
		Ring:  ring,
		Value: pptx.Centered(cx, cy, diameter, 0.35),
		Label: pptx.Box{X: cx - diameter*0.8, Y: ring.Bottom() + 0.04, W: diameter * 1.6, H: 0.3},
	}
	if v := strings.TrimSpace(item.Value); v != "" {
		s.Add(centeredText("Donut Value Label", p.Value, v, rc.headline(donutValueSize(diameter), rc.Scheme.Colors.TextOnLight)))
	}
	if l := strings.TrimSpace(item.Label); l != "" {
		s.Add(centeredText("Donut Label", p.Label, l, rc.body(10, rc.Scheme.Colors.TextSubtle)))
	}
	return p
}

func donutValueSize(diameter float64) float64 {
	return math.Round(math.Max(9, math.Min(18, diameter*16)))
}

// placeBar draws a horizontal bar primitive inside box: the label on the
// left, a track with a filled share, and the value on the right.
func placeBar(s *pptx.Slide, rc *Context, box pptx.Box, item types.ChartItem, color string) {
	labelW := box.W * 0.35
	valueW := box.W * 0.2
	trackW := box.W - labelW - valueW
	barH := math.Min(0.16, box.H*0.6)
	barY := box.Y + (box.H-barH)/2

	s.Add(textBox("Bar Label", pptx.Box{X: box.X, Y: box.Y, W: labelW, H: box.H},
		pptx.Plain(strings.TrimSpace(item.Label), rc.body(9, rc.Scheme.Colors.TextOnLight), pptx.AlignLeft)))
	track := pptx.Box{X: box.X + labelW, Y: barY, W: trackW, H: barH}
	s.Add(&pptx.Shape{Name: "Bar Track", Geometry: pptx.GeomRect, Box: track, Fill: rc.Scheme.TrackColor()})
	if share, ok := parseShare(item.Value); ok && share > 0 {
		fill := track
		fill.W = trackW * share
		s.Add(&pptx.Shape{Name: "Bar Value", Geometry: pptx.GeomRect, Box: fill, Fill: color})
	}
	s.Add(textBox("Bar Value Label", pptx.Box{X: track.Right(), Y: box.Y, W: valueW, H: box.H},
		pptx.Plain(strings.TrimSpace(item.Value), rc.headline(9, rc.Scheme.Colors.TextOnLight), pptx.AlignRight)))
}

// tableColumnWidths gives the label column a larger share than value columns
func tableColumnWidths(total float64, cols int) []float64 {
	if cols <= 0 {
		return nil
	}
	if cols == 1 {
		return []float64{total}
	}
	first := total * 0.34
	rest := (total - first) / float64(cols-1)
	out := make([]float64, cols)
	out[0] = first
	for i := 1; i < cols; i++ {
		out[i] = rest
	}
	return out
}

// placeTable builds a synthetic table from a header row and body rows at y and
// returns the next free y. The table itself carries uniform styling; header
// emphasis comes from a band shape and bold text overlays placed on top of
// the first row.
func placeTable(s *pptx.Slide, rc *Context, x, y, w float64, header []string, rows [][]string, rowH float64) float64 {
	cols := len(header)
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return y
	}

	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, padRow(header, cols))
	for _, r := range rows {
		grid = append(grid, padRow(r, cols))
	}

	widths := tableColumnWidths(w, cols)
	box := pptx.Box{X: x, Y: y, W: w, H: rowH * float64(len(grid))}
	s.Add(&pptx.Table{
		Name:        "Table",
		Box:         box,
		Rows:        grid,
		ColWidths:   widths,
		Font:        rc.body(9, rc.Scheme.Colors.TextOnLight),
		BorderColor: rc.Scheme.Table.Border,
		Fill:        rc.Scheme.Colors.BackgroundLight,
		ZebraFill:   rc.Scheme.ZebraColor(),
	})

	s.Add(&pptx.Shape{Name: "Table Header", Geometry: pptx.GeomRect, Box: pptx.Box{X: x, Y: y, W: w, H: rowH}, Fill: rc.Scheme.Table.HeaderFill})
	cx := x
	for i, text := range grid[0] {
		align := pptx.AlignCenter
		if i == 0 {
			align = pptx.AlignLeft
		}
		if text != "" {
			overlay := textBox("Table Header Text", pptx.Box{X: cx, Y: y, W: widths[i], H: rowH},
				pptx.Plain(text, pptx.Font{Face: rc.Scheme.BodyFont, Size: 9, Bold: true, Color: rc.Scheme.Table.HeaderFont}, align))
			overlay.Anchor = pptx.AnchorMiddle
			s.Add(overlay)
		}
		cx += widths[i]
	}
	return box.Bottom() + 0.15
}

func padRow(row []string, cols int) []string {
	out := make([]string, cols)
	copy(out, row)
	return out
}

// placeKPIRow lays headline KPI cards left to right, wrapping every four,
// and returns the next free y.
func placeKPIRow(s *pptx.Slide, rc *Context, x, y, w float64, kpis []types.KPIValue) float64 {
	if len(kpis) == 0 {
		return y
	}
	const (
		perRow = 4
		gap    = 0.15
		cardH  = 0.8
	)
	cols := min(len(kpis), perRow)
	cardW := (w - gap*float64(cols-1)) / float64(cols)
	c := rc.Scheme.Colors

	for i, k := range kpis {
		cx, cy := gridSlot(i, perRow, x, y, cardW+gap, cardH+gap)
		card := pptx.Box{X: cx, Y: cy, W: cardW, H: cardH}
		s.Add(&pptx.Shape{Name: "KPI Card", Geometry: pptx.GeomRoundRect, Box: card, Fill: brand.Tint(c.Primary, 0.9)})
		s.Add(centeredText("KPI Value", pptx.Box{X: cx, Y: cy + 0.05, W: cardW, H: 0.4}, firstNonEmpty(k.Value, "-"), rc.headline(18, c.Primary)))

		label := strings.TrimSpace(k.Label)
		if d := strings.TrimSpace(k.Delta); d != "" {
			s.Add(centeredText("KPI Delta", pptx.Box{X: cx + cardW - 0.75, Y: cy + 0.03, W: 0.7, H: 0.25}, d, pptx.Font{Face: rc.Scheme.BodyFont, Size: 9, Bold: true, Color: deltaColor(rc, d)}))
		}
		if label != "" {
			s.Add(centeredText("KPI Label", pptx.Box{X: cx, Y: cy + 0.45, W: cardW, H: 0.3}, label, rc.body(10, c.TextSubtle)))
		}
	}
	return y + float64(gridRows(len(kpis), perRow))*(cardH+gap)
}

func deltaColor(rc *Context, delta string) string {
	if strings.HasPrefix(delta, "-") || strings.HasPrefix(delta, "−") {
		return rc.Scheme.Colors.Negative
	}
	return rc.Scheme.Colors.Positive
}
