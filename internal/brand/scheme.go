// Package brand provides the static registry of brand schemes used to style decks.
package brand

import (
	"strings"

	"github.com/jonathan/campaign-deck/internal/types"
)

// Palette holds the surface and text colours of a scheme, as six-digit hex
type Palette struct {
	Primary         string
	Secondary       string
	Accent          string
	BackgroundDark  string
	BackgroundLight string
	TextOnDark      string
	TextOnLight     string
	TextSubtle      string
	Positive        string
	Negative        string
}

// BulletColors assigns a colour to each semantic bullet role
type BulletColors struct {
	Generic         string
	KPIAccent       string
	KPITitle        string
	Conclusions     string
	Recommendations string
}

// TableColors styles synthetic tables
type TableColors struct {
	HeaderFill string
	HeaderFont string
	Border     string
}

// MasterLayouts names the three master layouts of the generic path
type MasterLayouts struct {
	Title   string
	Content string
	Section string
}

// FooterFunc builds the footer line from the deck language, client and period
type FooterFunc func(lang types.Language, clientName, period string) string

// TaglineFunc builds an optional tagline for title slides
type TaglineFunc func(lang types.Language) string

// Scheme is the immutable palette, typography and layout-role bundle of one brand style
type Scheme struct {
	Style        types.BrandStyle
	Name         string
	Colors       Palette
	HeadlineFont string
	BodyFont     string
	Layouts      MasterLayouts
	LogoText     string
	LogoImage    bool
	Footer       FooterFunc
	Tagline      TaglineFunc
	Bullets      BulletColors
	Table        TableColors
}

// FooterText calls the footer generator, tolerating schemes without one
func (s *Scheme) FooterText(lang types.Language, clientName, period string) string {
	if s.Footer == nil {
		return ""
	}
	return s.Footer(lang.OrDefault(), clientName, period)
}

// TaglineText returns the tagline, or "" when the scheme has none
func (s *Scheme) TaglineText(lang types.Language) string {
	if s.Tagline == nil {
		return ""
	}
	return s.Tagline(lang.OrDefault())
}

// TrackColor is the light ring drawn behind donut values
func (s *Scheme) TrackColor() string {
	return Tint(s.Colors.Primary, 0.8)
}

// ZebraColor is the alternate row fill for tables
func (s *Scheme) ZebraColor() string {
	return Tint(s.Table.HeaderFill, 0.9)
}

// joinFooter joins the non-empty parts with a separator
func joinFooter(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "  |  ")
}

func confidential(lang types.Language) string {
	if lang == types.LanguageSpanish {
		return "Confidencial"
	}
	return "Confidential"
}

var registry = map[types.BrandStyle]*Scheme{
	types.StyleCorporate: {
		Style: types.StyleCorporate,
		Name:  "Corporate",
		Colors: Palette{
			Primary:         hex("#1F3A5F"),
			Secondary:       hex("#2A9D8F"),
			Accent:          hex("#E9C46A"),
			BackgroundDark:  hex("#14263F"),
			BackgroundLight: hex("#FFFFFF"),
			TextOnDark:      hex("#FFFFFF"),
			TextOnLight:     hex("#1D1D1F"),
			TextSubtle:      hex("#6B7280"),
			Positive:        hex("#2E7D32"),
			Negative:        hex("#C62828"),
		},
		HeadlineFont: "Georgia",
		BodyFont:     "Calibri",
		Layouts: MasterLayouts{
			Title:   "CORPORATE_TITLE",
			Content: "CORPORATE_CONTENT",
			Section: "CORPORATE_SECTION",
		},
		LogoText: "ACME MEDIA",
		Footer: func(lang types.Language, clientName, period string) string {
			return joinFooter(confidential(lang), clientName, period)
		},
		Bullets: BulletColors{
			Generic:         hex("#2A9D8F"),
			KPIAccent:       hex("#E9C46A"),
			KPITitle:        hex("#1F3A5F"),
			Conclusions:     hex("#1F3A5F"),
			Recommendations: hex("#2A9D8F"),
		},
		Table: TableColors{
			HeaderFill: hex("#1F3A5F"),
			HeaderFont: hex("#FFFFFF"),
			Border:     hex("#D1D5DB"),
		},
	},
	types.StyleModern: {
		Style: types.StyleModern,
		Name:  "Modern",
		Colors: Palette{
			Primary:         hex("#2B193D"),
			Secondary:       hex("#FF6B35"),
			Accent:          hex("#00C2A8"),
			BackgroundDark:  hex("#1A1025"),
			BackgroundLight: hex("#F7F5FA"),
			TextOnDark:      hex("#F7F5FA"),
			TextOnLight:     hex("#2B193D"),
			TextSubtle:      hex("#8A7F99"),
			Positive:        hex("#00A676"),
			Negative:        hex("#E63946"),
		},
		HeadlineFont: "Montserrat",
		BodyFont:     "Open Sans",
		Layouts: MasterLayouts{
			Title:   "MODERN_TITLE",
			Content: "MODERN_CONTENT",
			Section: "MODERN_SECTION",
		},
		LogoImage: true,
		Footer: func(lang types.Language, clientName, period string) string {
			label := "Campaign performance"
			if lang == types.LanguageSpanish {
				label = "Rendimiento de campaña"
			}
			return joinFooter(label, clientName, period)
		},
		Tagline: func(lang types.Language) string {
			if lang == types.LanguageSpanish {
				return "Datos que impulsan decisiones"
			}
			return "Data that drives decisions"
		},
		Bullets: BulletColors{
			Generic:         hex("#FF6B35"),
			KPIAccent:       hex("#00C2A8"),
			KPITitle:        hex("#2B193D"),
			Conclusions:     hex("#2B193D"),
			Recommendations: hex("#FF6B35"),
		},
		Table: TableColors{
			HeaderFill: hex("#2B193D"),
			HeaderFont: hex("#F7F5FA"),
			Border:     hex("#CFC8DA"),
		},
	},
	types.StyleFixedReport: {
		Style: types.StyleFixedReport,
		Name:  "Campaign Report",
		Colors: Palette{
			Primary:         hex("#0B3C5D"),
			Secondary:       hex("#328CC1"),
			Accent:          hex("#D9B310"),
			BackgroundDark:  hex("#0B3C5D"),
			BackgroundLight: hex("#FFFFFF"),
			TextOnDark:      hex("#FFFFFF"),
			TextOnLight:     hex("#1D2731"),
			TextSubtle:      hex("#5F6B76"),
			Positive:        hex("#2E7D32"),
			Negative:        hex("#C62828"),
		},
		HeadlineFont: "Arial",
		BodyFont:     "Arial",
		Layouts: MasterLayouts{
			Title:   "REPORT_BLANK",
			Content: "REPORT_BLANK",
			Section: "REPORT_BLANK",
		},
		LogoImage: true,
		Footer: func(lang types.Language, clientName, period string) string {
			return joinFooter(clientName, period)
		},
		Bullets: BulletColors{
			Generic:         hex("#328CC1"),
			KPIAccent:       hex("#D9B310"),
			KPITitle:        hex("#0B3C5D"),
			Conclusions:     hex("#0B3C5D"),
			Recommendations: hex("#328CC1"),
		},
		Table: TableColors{
			HeaderFill: hex("#0B3C5D"),
			HeaderFont: hex("#FFFFFF"),
			Border:     hex("#C9D3DC"),
		},
	},
}

// Get returns a copy of the scheme for a brand style. The style enum is
// closed; an unrecognised value resolves to the corporate scheme.
func Get(style types.BrandStyle) *Scheme {
	s, ok := registry[style]
	if !ok {
		s = registry[types.StyleCorporate]
	}
	c := *s
	return &c
}

// List returns a copy of every scheme in registry order
func List() []*Scheme {
	out := make([]*Scheme, 0, len(types.BrandStyles))
	for _, style := range types.BrandStyles {
		out = append(out, Get(style))
	}
	return out
}
