package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SlideKind is the discriminant of a generic slide content record
type SlideKind string

// Generic slide kinds, as written in the "type" field
const (
	KindTitle                      SlideKind = "title"
	KindAgenda                     SlideKind = "agenda"
	KindSectionDivider             SlideKind = "sectionDivider"
	KindExecutiveSummary           SlideKind = "executiveSummary"
	KindKPIHighlights              SlideKind = "kpiHighlights"
	KindDetailedAnalysis           SlideKind = "detailedAnalysis"
	KindCreativeAnalysis           SlideKind = "creativeAnalysis"
	KindConclusionsRecommendations SlideKind = "conclusionsRecommendations"
	KindAnnex                      SlideKind = "annex"
	KindThankYou                   SlideKind = "thankYou"
)

// SlideContent is one generic slide record. The set of variants is closed;
// UnknownSlide stands in for discriminants this package does not recognise.
type SlideContent interface {
	Kind() SlideKind
	Header() SlideHeader
	slideContent()
}

// SlideHeader holds the fields shared by every slide kind
type SlideHeader struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Header returns the shared title/subtitle fields
func (h SlideHeader) Header() SlideHeader { return h }

func (SlideHeader) slideContent() {}

// TitleSlide opens a generic deck
type TitleSlide struct {
	SlideHeader
}

// AgendaSlide lists the agenda points
type AgendaSlide struct {
	SlideHeader
	AgendaPoints []string `json:"agendaPoints,omitempty"`
}

// SectionSlide divides the deck into sections
type SectionSlide struct {
	SlideHeader
}

// ExecutiveSummarySlide lists the headline findings
type ExecutiveSummarySlide struct {
	SlideHeader
	ExecutiveSummaryPoints []string `json:"executiveSummaryPoints,omitempty"`
}

// KPIHighlightSection is one titled block of KPI bullets
type KPIHighlightSection struct {
	Title  string   `json:"title"`
	Points []string `json:"points,omitempty"`
}

// KPIHighlightsSlide stacks KPI highlight sections vertically
type KPIHighlightsSlide struct {
	SlideHeader
	KPIHighlights []KPIHighlightSection `json:"kpiHighlights,omitempty"`
}

// DetailedAnalysisSlide lists analysis bullets
type DetailedAnalysisSlide struct {
	SlideHeader
	AnalysisPoints []string `json:"analysisPoints,omitempty"`
}

// CreativeAnalysisSlide shows one creative next to its analysis
type CreativeAnalysisSlide struct {
	SlideHeader
	ImageIdentifier string   `json:"imageIdentifier,omitempty"`
	CreativeName    string   `json:"creativeName,omitempty"`
	AnalysisPoints  []string `json:"analysisPoints,omitempty"`
}

// ConclusionsSlide shows conclusions and recommendations side by side
type ConclusionsSlide struct {
	SlideHeader
	Conclusions     []string `json:"conclusions,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// AnnexSlide carries free-form annex text
type AnnexSlide struct {
	SlideHeader
	AnnexContent string `json:"annexContent,omitempty"`
}

// ThankYouSlide closes a generic deck
type ThankYouSlide struct {
	SlideHeader
}

// UnknownSlide preserves a record whose type is not recognised
type UnknownSlide struct {
	SlideHeader
	Type string          `json:"-"`
	Raw  json.RawMessage `json:"-"`
}

// Kind implementations.
func (*TitleSlide) Kind() SlideKind            { return KindTitle }
func (*AgendaSlide) Kind() SlideKind           { return KindAgenda }
func (*SectionSlide) Kind() SlideKind          { return KindSectionDivider }
func (*ExecutiveSummarySlide) Kind() SlideKind { return KindExecutiveSummary }
func (*KPIHighlightsSlide) Kind() SlideKind    { return KindKPIHighlights }
func (*DetailedAnalysisSlide) Kind() SlideKind { return KindDetailedAnalysis }
func (*CreativeAnalysisSlide) Kind() SlideKind { return KindCreativeAnalysis }
func (*ConclusionsSlide) Kind() SlideKind      { return KindConclusionsRecommendations }
func (*AnnexSlide) Kind() SlideKind            { return KindAnnex }
func (*ThankYouSlide) Kind() SlideKind         { return KindThankYou }
func (u *UnknownSlide) Kind() SlideKind        { return SlideKind(u.Type) }

// newSlide allocates the variant for a kind, or nil if the kind is unknown
func newSlide(kind SlideKind) SlideContent {
	switch kind {
	case KindTitle:
		return &TitleSlide{}
	case KindAgenda:
		return &AgendaSlide{}
	case KindSectionDivider:
		return &SectionSlide{}
	case KindExecutiveSummary:
		return &ExecutiveSummarySlide{}
	case KindKPIHighlights:
		return &KPIHighlightsSlide{}
	case KindDetailedAnalysis:
		return &DetailedAnalysisSlide{}
	case KindCreativeAnalysis:
		return &CreativeAnalysisSlide{}
	case KindConclusionsRecommendations:
		return &ConclusionsSlide{}
	case KindAnnex:
		return &AnnexSlide{}
	case KindThankYou:
		return &ThankYouSlide{}
	default:
		return nil
	}
}

// IsKnownKind reports whether kind has a generic renderer
func IsKnownKind(kind SlideKind) bool {
	return newSlide(kind) != nil
}

// SlideList is the ordered generic slide sequence with a tagged JSON form
type SlideList []SlideContent

// UnmarshalJSON decodes each element by its "type" discriminant
func (l *SlideList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(SlideList, 0, len(raws))
	for i, raw := range raws {
		var tag struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return fmt.Errorf("slide %d: %w", i, err)
		}

		slide := newSlide(SlideKind(tag.Type))
		if slide == nil {
			unknown := &UnknownSlide{Type: tag.Type, Raw: append(json.RawMessage(nil), raw...)}
			// Keep the header so logs can name the slide
			_ = json.Unmarshal(raw, &unknown.SlideHeader)
			out = append(out, unknown)
			continue
		}

		if err := json.Unmarshal(raw, slide); err != nil {
			return fmt.Errorf("slide %d (%s): %w", i, tag.Type, err)
		}
		out = append(out, slide)
	}

	*l = out
	return nil
}

// MarshalJSON writes each element with its "type" discriminant first
func (l SlideList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, slide := range l {
		if i > 0 {
			buf.WriteByte(',')
		}

		if slide == nil {
			buf.WriteString("null")
			continue
		}
		if unknown, ok := slide.(*UnknownSlide); ok && len(unknown.Raw) > 0 {
			buf.Write(unknown.Raw)
			continue
		}

		body, err := json.Marshal(slide)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i, err)
		}
		kind, err := json.Marshal(string(slide.Kind()))
		if err != nil {
			return nil, err
		}

		buf.WriteString(`{"type":`)
		buf.Write(kind)
		if len(body) > 2 {
			buf.WriteByte(',')
			buf.Write(body[1:])
		} else {
			buf.WriteByte('}')
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
