package assembly

import (
	"strings"
	"time"
	"unicode"

	"github.com/jonathan/campaign-deck/internal/types"
)

const maxTitleRunes = 80

// Filename builds "<title>_<brandStyle>_<YYYY-MM-DD>.pptx". Characters that are
// unsafe in file names become underscores; a blank title becomes
// "Presentation".
func Filename(title string, style types.BrandStyle, now time.Time) string {
	return sanitize(title) + "_" + string(style) + "_" + now.Format(time.DateOnly) + ".pptx"
}

func sanitize(title string) string {
	var b strings.Builder
	runes, pendingSep := 0, false
	for _, r := range strings.TrimSpace(title) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			pendingSep = true
			continue
		}
		sep := pendingSep && b.Len() > 0
		if sep && runes+2 > maxTitleRunes || runes+1 > maxTitleRunes {
			break
		}
		if sep {
			b.WriteByte('_')
			runes++
		}
		pendingSep = false
		b.WriteRune(r)
		runes++
	}
	if b.Len() == 0 {
		return "Presentation"
	}
	return b.String()
}
