package assembly

import (
	"testing"
	"time"

	"github.com/jonathan/campaign-deck/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	day := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		title string
		style types.BrandStyle
		want  string
	}{
		{"Q1 Report", types.StyleCorporate, "Q1_Report_corporate_2025-01-02.pptx"},
		{"  Campaña: Verano / 2025  ", types.StyleModern, "Campaña_Verano_2025_modern_2025-01-02.pptx"},
		{"", types.StyleFixedReport, "Presentation_fixed-report_2025-01-02.pptx"},
		{"???", types.StyleCorporate, "Presentation_corporate_2025-01-02.pptx"},
		{"a-b", types.StyleCorporate, "a-b_corporate_2025-01-02.pptx"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Filename(tc.title, tc.style, day), tc.title)
	}
}

func TestFilename_TruncatesLongTitles(t *testing.T) {
	long := ""
	for range 30 {
		long += "abcdef "
	}
	name := sanitize(long)
	assert.LessOrEqual(t, len([]rune(name)), maxTitleRunes)
}
