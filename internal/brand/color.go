package brand

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// hex normalises a CSS colour to the six-digit uppercase form used in slide XML.
// Unparseable input falls back to mid grey so a bad palette never aborts a deck.
func hex(color string) string {
	c, err := csscolorparser.Parse(withHash(color))
	if err != nil {
		return "808080"
	}
	return strings.ToUpper(strings.TrimPrefix(colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex(), "#"))
}

// Tint lightens a colour by amount (0..1) in HSL space.
func Tint(color string, amount float64) string {
	c, err := csscolorparser.Parse(withHash(color))
	if err != nil {
		return hex(color)
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return hex(colorful.Hsl(h, s, l+(1-l)*amount).Clamped().Hex())
}

// Shade darkens a colour by amount (0..1) in HSL space.
func Shade(color string, amount float64) string {
	c, err := csscolorparser.Parse(withHash(color))
	if err != nil {
		return hex(color)
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return hex(colorful.Hsl(h, s, l*(1-amount)).Clamped().Hex())
}

// Luminance returns the perceived brightness of a colour in 0..1.
func Luminance(color string) float64 {
	c, err := csscolorparser.Parse(withHash(color))
	if err != nil {
		return 0.5
	}
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// ReadableOn picks the light or dark text colour with the better contrast on fill.
func ReadableOn(fill, light, dark string) string {
	if Luminance(fill) >= 0.55 {
		return dark
	}
	return light
}

// withHash lets callers pass bare "1F3A5F" values as well as CSS strings.
func withHash(color string) string {
	if len(color) == 6 && !strings.HasPrefix(color, "#") {
		if _, err := csscolorparser.Parse("#" + color); err == nil {
			return "#" + color
		}
	}
	return color
}
