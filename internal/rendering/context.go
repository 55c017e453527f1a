package rendering

import (
	"strings"

	"github.com/jonathan/campaign-deck/internal/brand"
	"github.com/jonathan/campaign-deck/internal/images"
	"github.com/jonathan/campaign-deck/internal/pptx"
	"github.com/jonathan/campaign-deck/internal/types"
)

// Context is the read-only state shared by every slide of one deck.
// Renderers never mutate it, so slides can be rendered concurrently.
type Context struct {
	Scheme     *brand.Scheme
	Language   types.Language
	DeckTitle  string
	ClientName string
	Period     string
	Uploaded   []types.UploadedImage

	// ImageFallback, when set, is told about images that had to be replaced
	// by a placeholder because their data could not be decoded.
	ImageFallback func(ref images.ImageRef, err error)
}

// NewContext builds the render context for a document
func NewContext(doc *types.PresentationDocument, uploaded []types.UploadedImage) *Context {
	return &Context{
		Scheme:     brand.Get(doc.BrandStyle),
		Language:   doc.Language.OrDefault(),
		DeckTitle:  strings.TrimSpace(doc.Title),
		ClientName: strings.TrimSpace(doc.ClientName),
		Period:     strings.TrimSpace(doc.Period),
		Uploaded:   uploaded,
	}
}

type labels struct {
	DefaultTitle    string
	ThankYou        string
	Conclusions     string
	Recommendations string
	Objectives      string
	Results         string
	Insights        string
	Analysis        string
	Summary         string
	Ours            string
	Everyone        string
	Consideration   string
	Conversion      string
}

var labelSets = map[types.Language]labels{
	types.LanguageEnglish: {
		DefaultTitle:    "Presentation",
		ThankYou:        "Thank you",
		Conclusions:     "Conclusions",
		Recommendations: "Recommendations",
		Objectives:      "Objectives",
		Results:         "Results",
		Insights:        "Insights",
		Analysis:        "Analysis",
		Summary:         "Summary",
		Ours:            "Our campaign",
		Everyone:        "Market benchmark",
		Consideration:   "Consideration",
		Conversion:      "Conversion",
	},
	types.LanguageSpanish: {
		DefaultTitle:    "Presentación",
		ThankYou:        "Gracias",
		Conclusions:     "Conclusiones",
		Recommendations: "Recomendaciones",
		Objectives:      "Objetivos",
		Results:         "Resultados",
		Insights:        "Hallazgos",
		Analysis:        "Análisis",
		Summary:         "Resumen",
		Ours:            "Nuestra campaña",
		Everyone:        "Referencia de mercado",
		Consideration:   "Consideración",
		Conversion:      "Conversión",
	},
}

func (rc *Context) labels() labels {
	if l, ok := labelSets[rc.Language.OrDefault()]; ok {
		return l
	}
	return labelSets[types.LanguageEnglish]
}

func (rc *Context) headline(size float64, color string) pptx.Font {
	return pptx.Font{Face: rc.Scheme.HeadlineFont, Size: size, Bold: true, Color: color}
}

func (rc *Context) body(size float64, color string) pptx.Font {
	return pptx.Font{Face: rc.Scheme.BodyFont, Size: size, Color: color}
}

// Theme returns the package theme for the context's scheme
func (rc *Context) Theme() pptx.Theme {
	c := rc.Scheme.Colors
	return pptx.Theme{
		Name:      rc.Scheme.Name,
		MajorFont: rc.Scheme.HeadlineFont,
		MinorFont: rc.Scheme.BodyFont,
		Dark:      c.TextOnLight,
		Light:     c.BackgroundLight,
		Accents:   [6]string{c.Primary, c.Secondary, c.Accent, c.Positive, c.Negative, c.TextSubtle},
	}
}

// firstNonEmpty returns the first argument that is not blank after trimming
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// nonEmpty trims every entry and drops the blank ones, keeping order
func nonEmpty(points []string) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
