// Package types provides type definitions for the presentation documents consumed by the deck assembler.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
)

// BrandStyle selects the brand scheme and the rendering path for a deck
type BrandStyle string

const (
	// StyleCorporate is the navy/teal generic brand style
	StyleCorporate BrandStyle = "corporate"
	// StyleModern is the dark/orange generic brand style
	StyleModern BrandStyle = "modern"
	// StyleFixedReport renders the fixed multi-page campaign report template
	StyleFixedReport BrandStyle = "fixed-report"
)

// BrandStyles lists every brand style in registry order
var BrandStyles = []BrandStyle{StyleCorporate, StyleModern, StyleFixedReport}

// IsFixedTemplate reports whether the style uses the fixed-template path
func (s BrandStyle) IsFixedTemplate() bool {
	return s == StyleFixedReport
}

// Language is the deck language used for default strings and footers
type Language string

const (
	// LanguageEnglish is the default deck language
	LanguageEnglish Language = "en"
	// LanguageSpanish selects Spanish default strings
	LanguageSpanish Language = "es"
)

// OrDefault returns the language, or English when unset
func (l Language) OrDefault() Language {
	if l == "" {
		return LanguageEnglish
	}
	return l
}

// Tag is the regional BCP 47 tag Office uses for proofing text in l
func (l Language) Tag() string {
	switch l.OrDefault() {
	case LanguageSpanish:
		return "es-ES"
	default:
		return "en-US"
	}
}

// UploadedImage is an image supplied by the form layer, looked up by Name
type UploadedImage struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	DataURL  string `json:"dataUrl"`
}

// DeckBody is the content of a presentation: either GenericBody or FixedBody.
// The interface is sealed; only this package can add variants.
type DeckBody interface {
	deckBody()
}

// GenericBody carries the ordered slide list rendered by the generic path
type GenericBody struct {
	Slides SlideList
}

// FixedBody carries the fixed-template report content. Content may be nil when
// the caller selected the fixed style without supplying a payload.
type FixedBody struct {
	Content *FixedTemplateDocument
}

func (GenericBody) deckBody() {}
func (FixedBody) deckBody()   {}

// PresentationDocument is the top-level input to the deck assembler
type PresentationDocument struct {
	Title      string     `validate:"max=300"`
	ClientName string     `validate:"max=200"`
	Period     string     `validate:"max=100"`
	Language   Language   `validate:"omitempty,oneof=en es"`
	BrandStyle BrandStyle `validate:"required,oneof=corporate modern fixed-report"`
	Body       DeckBody
}

// presentationWire is the JSON form, which keeps both optional content fields
type presentationWire struct {
	Title                string                 `json:"title"`
	ClientName           string                 `json:"clientName,omitempty"`
	Period               string                 `json:"period,omitempty"`
	Language             Language               `json:"language,omitempty"`
	BrandStyle           BrandStyle             `json:"brandStyle"`
	Slides               SlideList              `json:"slides,omitempty"`
	FixedTemplateContent *FixedTemplateDocument `json:"fixedTemplateContent,omitempty"`
}

// UnmarshalJSON decodes the wire form and keeps only the content field that
// matches brandStyle.
func (d *PresentationDocument) UnmarshalJSON(data []byte) error {
	var w presentationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	d.Title = w.Title
	d.ClientName = w.ClientName
	d.Period = w.Period
	d.Language = w.Language
	d.BrandStyle = w.BrandStyle

	if w.BrandStyle.IsFixedTemplate() {
		d.Body = FixedBody{Content: w.FixedTemplateContent}
	} else {
		d.Body = GenericBody{Slides: w.Slides}
	}
	return nil
}

// MarshalJSON writes the wire form with only the meaningful content field
func (d PresentationDocument) MarshalJSON() ([]byte, error) {
	w := presentationWire{
		Title:      d.Title,
		ClientName: d.ClientName,
		Period:     d.Period,
		Language:   d.Language,
		BrandStyle: d.BrandStyle,
	}

	switch body := d.Body.(type) {
	case GenericBody:
		w.Slides = body.Slides
	case FixedBody:
		w.FixedTemplateContent = body.Content
	case nil:
	default:
		return nil, fmt.Errorf("unsupported deck body %T", d.Body)
	}

	return json.Marshal(w)
}

// Slides returns the generic slide list, or nil for fixed-template documents
func (d *PresentationDocument) Slides() SlideList {
	if body, ok := d.Body.(GenericBody); ok {
		return body.Slides
	}
	return nil
}

// FixedContent returns the fixed-template payload, or nil when absent
func (d *PresentationDocument) FixedContent() *FixedTemplateDocument {
	if body, ok := d.Body.(FixedBody); ok {
		return body.Content
	}
	return nil
}
