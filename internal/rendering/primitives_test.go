package rendering

import (
	"testing"

	"github.com/jonathan/campaign-deck/internal/pptx"
	"github.com/jonathan/campaign-deck/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSlot(t *testing.T) {
	x, y := gridSlot(0, 3, 1, 2, 0.5, 0.75)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 2.0, y)

	x, y = gridSlot(4, 3, 1, 2, 0.5, 0.75)
	assert.Equal(t, 1.5, x)
	assert.Equal(t, 2.75, y)

	x, _ = gridSlot(2, 0, 1, 2, 0.5, 0.75)
	assert.Equal(t, 1.0, x)
}

func TestGridRows(t *testing.T) {
	assert.Equal(t, 0, gridRows(0, 3))
	assert.Equal(t, 1, gridRows(3, 3))
	assert.Equal(t, 2, gridRows(4, 3))
	assert.Equal(t, 5, gridRows(5, 0))
}

func TestParseShare(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"64%", 0.64, true},
		{" 64 % ", 0.64, true},
		{"12,5 %", 0.125, true},
		{"150%", 1, true},
		{"-5%", 0, true},
		{"64", 0, false},
		{"1", 0, false},
		{"0.64", 0, false},
		{"n/a", 0, false},
		{"%", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseShare(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}
}

func TestPlaceDonut_PartsAreCentred(t *testing.T) {
	rc := testContext(types.StyleFixedReport)
	s := &pptx.Slide{}
	p := placeDonut(s, rc, 3, 2, 1, types.ChartItem{Label: "Mobile", Value: "25%"}, "FF0000")

	cx, cy := p.Ring.Center()
	vx, vy := p.Value.Center()
	assert.InDelta(t, cx, vx, 1e-9)
	assert.InDelta(t, cy, vy, 1e-9)
	assert.Greater(t, p.Label.Y, p.Ring.Bottom())

	arcs := shapes(s, "Donut Value")
	require.Len(t, arcs, 1)
	assert.Equal(t, pptx.GeomBlockArc, arcs[0].Geometry)
	assert.Equal(t, int64(arcStart), arcs[0].Adjust[0].Value)
	assert.Equal(t, int64(0), arcs[0].Adjust[1].Value)
}

func TestPlaceDonut_FullAndEmptyShares(t *testing.T) {
	rc := testContext(types.StyleFixedReport)

	s := &pptx.Slide{}
	placeDonut(s, rc, 1, 1, 1, types.ChartItem{Value: "100%"}, "FF0000")
	require.Len(t, shapes(s, "Donut Value"), 1)
	assert.Equal(t, pptx.GeomDonut, shapes(s, "Donut Value")[0].Geometry)

	s = &pptx.Slide{}
	placeDonut(s, rc, 1, 1, 1, types.ChartItem{Label: "Other", Value: "n/a"}, "FF0000")
	assert.Empty(t, shapes(s, "Donut Value"))
	assert.Len(t, shapes(s, "Donut Track"), 1)
	assert.Equal(t, "n/a", textBoxes(s, "Donut Value Label")[0].Text())
}

func TestPlaceDonut_BareNumberDrawsNoArc(t *testing.T) {
	rc := testContext(types.StyleFixedReport)

	for _, value := range []string{"1", "5", "0.64"} {
		s := &pptx.Slide{}
		placeDonut(s, rc, 1, 1, 1, types.ChartItem{Label: "Visits", Value: value}, "FF0000")
		assert.Empty(t, shapes(s, "Donut Value"), value)
		assert.Equal(t, value, textBoxes(s, "Donut Value Label")[0].Text())
	}
}

func TestPlaceBar_FillOnlyForPercentages(t *testing.T) {
	rc := testContext(types.StyleFixedReport)
	box := pptx.Box{X: 1, Y: 1, W: 4, H: 0.3}

	s := &pptx.Slide{}
	placeBar(s, rc, box, types.ChartItem{Label: "18-24", Value: "40%"}, "FF0000")
	fills := shapes(s, "Bar Value")
	require.Len(t, fills, 1)
	assert.InDelta(t, shapes(s, "Bar Track")[0].Box.W*0.4, fills[0].Box.W, 1e-9)

	s = &pptx.Slide{}
	placeBar(s, rc, box, types.ChartItem{Label: "18-24", Value: "40"}, "FF0000")
	assert.Empty(t, shapes(s, "Bar Value"))
	assert.Len(t, shapes(s, "Bar Track"), 1)
}

func TestPlaceTable_HeaderOverlays(t *testing.T) {
	rc := testContext(types.StyleCorporate)
	s := &pptx.Slide{}
	next := placeTable(s, rc, 0.5, 1, 6, []string{"", "Clicks"}, [][]string{{"North", "10", "extra"}}, 0.3)

	assert.InDelta(t, 1+0.6+0.15, next, 1e-9)

	require.IsType(t, &pptx.Table{}, s.Elements[0])
	table := s.Elements[0].(*pptx.Table)
	assert.Equal(t, []string{"", "Clicks", ""}, table.Rows[0])
	assert.Len(t, table.ColWidths, 3)

	band := shapes(s, "Table Header")
	require.Len(t, band, 1)
	assert.Equal(t, rc.Scheme.Table.HeaderFill, band[0].Fill)

	overlays := textBoxes(s, "Table Header Text")
	require.Len(t, overlays, 1)
	assert.Equal(t, "Clicks", overlays[0].Text())
	assert.True(t, overlays[0].Paragraphs[0].Runs[0].Font.Bold)
	assert.InDelta(t, 0.5+table.ColWidths[0], overlays[0].Box.X, 1e-9)
}

func TestPlaceTable_EmptyIsNoop(t *testing.T) {
	s := &pptx.Slide{}
	assert.Equal(t, 2.0, placeTable(s, testContext(types.StyleCorporate), 0, 2, 5, nil, nil, 0.3))
	assert.Empty(t, s.Elements)
}

func TestTableColumnWidths(t *testing.T) {
	assert.Nil(t, tableColumnWidths(6, 0))
	assert.Equal(t, []float64{6}, tableColumnWidths(6, 1))

	w := tableColumnWidths(6, 3)
	assert.InDelta(t, 6, w[0]+w[1]+w[2], 1e-9)
	assert.Greater(t, w[0], w[1])
}

func TestPlaceHeadingAndBullets_AdvanceCursor(t *testing.T) {
	rc := testContext(types.StyleCorporate)
	s := &pptx.Slide{}

	assert.Equal(t, 1.0, placeHeading(s, rc, 0, 1, 4, "  ", "000000"))
	assert.InDelta(t, 1.4, placeHeading(s, rc, 0, 1, 4, "Title", "000000"), 1e-9)

	assert.Equal(t, 2.0, placeBullets(s, rc, 0, 2, 4, []string{" "}, 12, "000000"))
	next := placeBullets(s, rc, 0, 2, 4, []string{"a", "b"}, 12, "000000")
	assert.InDelta(t, 2+2*lineHeight(12)+0.1, next, 1e-9)
}

func TestPlaceKPIRow_WrapsEveryFour(t *testing.T) {
	rc := testContext(types.StyleFixedReport)
	s := &pptx.Slide{}
	kpis := make([]types.KPIValue, 5)
	next := placeKPIRow(s, rc, 0.5, 1, 9, kpis)

	cards := shapes(s, "KPI Card")
	require.Len(t, cards, 5)
	assert.Equal(t, cards[0].Box.X, cards[4].Box.X)
	assert.Greater(t, cards[4].Box.Y, cards[0].Box.Bottom())
	assert.InDelta(t, 1+2*(0.8+0.15), next, 1e-9)
	assert.Equal(t, "-", textBoxes(s, "KPI Value")[0].Text())
}

func TestBulletBox_NilWhenEmpty(t *testing.T) {
	assert.Nil(t, bulletBox("x", pptx.Box{}, []string{"", " "}, pptx.Font{}, "000000"))
}
