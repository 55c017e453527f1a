package images

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/campaign-deck/internal/types"
)

// MaxIdentifierRunes bounds how much of an unresolved identifier is echoed
// into the placeholder description.
const MaxIdentifierRunes = 40

// NoIdentifierText is the placeholder description for slides without an image identifier
const NoIdentifierText = "No image identifier"

// NotFoundPrefix starts the placeholder description for unresolved identifiers
const NotFoundPrefix = "Image not found: "

// ImageRef is the outcome of resolving an identifier. Exactly one of Source
// (a data URL) or Placeholder is meaningful.
type ImageRef struct {
	Identifier  string
	Source      string
	Placeholder bool
	Description string
}

// Resolve looks identifier up among the uploaded images. The first image whose
// Name matches exactly wins. Resolve never fails: a missing identifier or an
// unknown name yields a placeholder reference describing the problem.
func Resolve(identifier string, uploaded []types.UploadedImage) ImageRef {
	if strings.TrimSpace(identifier) == "" {
		return ImageRef{Placeholder: true, Description: NoIdentifierText}
	}

	for _, img := range uploaded {
		if img.Name == identifier {
			return ImageRef{
				Identifier:  identifier,
				Source:      img.DataURL,
				Description: identifier,
			}
		}
	}

	return ImageRef{
		Identifier:  identifier,
		Placeholder: true,
		Description: NotFoundPrefix + Truncate(identifier, MaxIdentifierRunes),
	}
}

// DuplicateNames reports every image name that appears more than once, in
// first-seen order. Resolve picks the first occurrence for such names.
func DuplicateNames(uploaded []types.UploadedImage) []string {
	seen := make(map[string]int, len(uploaded))
	var dups []string
	for _, img := range uploaded {
		seen[img.Name]++
		if seen[img.Name] == 2 {
			dups = append(dups, img.Name)
		}
	}
	return dups
}

// Truncate shortens s to at most max runes, marking the cut with "..."
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}
