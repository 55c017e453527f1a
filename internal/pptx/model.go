// Package pptx holds an absolute-positioned slide model and writes it out as
// an Office Open XML presentation package.
package pptx

import "math"

// Canvas size in inches (16:9 widescreen)
const (
	SlideWidth  = 10.0
	SlideHeight = 5.625
)

// EMUPerInch converts inches to English Metric Units
const EMUPerInch = 914400

// EMU converts inches to English Metric Units
func EMU(in float64) int64 {
	return int64(math.Round(in * EMUPerInch))
}

// Box is a position and size in inches, measured from the top-left corner
type Box struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the y coordinate of the bottom edge
func (b Box) Bottom() float64 { return b.Y + b.H }

// Center returns the centre point
func (b Box) Center() (x, y float64) { return b.X + b.W/2, b.Y + b.H/2 }

// Centered returns a w x h box centred on (cx, cy)
func Centered(cx, cy, w, h float64) Box {
	return Box{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Align is horizontal paragraph alignment
type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// Anchor is vertical text anchoring inside a text box
type Anchor string

const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

// Field is a dynamic text field
type Field string

const (
	FieldNone     Field = ""
	FieldSlideNum Field = "slidenum"
)

// Font is run formatting. Size is in points, Color is six-digit hex.
type Font struct {
	Face   string
	Size   float64
	Bold   bool
	Italic bool
	Color  string
}

// Run is a span of uniformly formatted text
type Run struct {
	Text  string
	Font  Font
	Field Field
}

// Bullet is a character bullet with its own colour
type Bullet struct {
	Char  string
	Color string
}

// Paragraph is one line group in a text box. SpaceAfter is in points.
type Paragraph struct {
	Runs       []Run
	Align      Align
	Bullet     *Bullet
	SpaceAfter float64
	Level      int
}

// Plain builds a single-run paragraph
func Plain(text string, font Font, align Align) Paragraph {
	return Paragraph{Runs: []Run{{Text: text, Font: font}}, Align: align}
}

// Bulleted builds a single-run paragraph with a character bullet
func Bulleted(text string, font Font, bulletColor string) Paragraph {
	return Paragraph{
		Runs:       []Run{{Text: text, Font: font}},
		Align:      AlignLeft,
		Bullet:     &Bullet{Char: "•", Color: bulletColor},
		SpaceAfter: 4,
	}
}

// Element is anything that can be placed on a slide or layout
type Element interface {
	Bounds() Box
	element()
}

// TextBox is a frame holding paragraphs
type TextBox struct {
	Name       string
	Box        Box
	Paragraphs []Paragraph
	Anchor     Anchor
	Fill       string
	NoWrap     bool
}

func (t *TextBox) Bounds() Box { return t.Box }
func (*TextBox) element() {}

// Text returns the concatenated text of every run, one line per paragraph
func (t *TextBox) Text() string {
	var out []byte
	for i, p := range t.Paragraphs {
		if i > 0 {
			out = append(out, '\n')
		}
		for _, r := range p.Runs {
			out = append(out, r.Text...)
		}
	}
	return string(out)
}

// Geometry is a preset shape geometry
type Geometry string

const (
	GeomRect      Geometry = "rect"
	GeomRoundRect Geometry = "roundRect"
	GeomEllipse   Geometry = "ellipse"
	GeomDonut     Geometry = "donut"
	GeomBlockArc  Geometry = "blockArc"
	GeomLine      Geometry = "line"
)

// Guide overrides one adjust value of a preset geometry
type Guide struct {
	Name  string
	Value int64
}

// Shape is a filled and/or outlined preset geometry. LineWidth is in points.
type Shape struct {
	Name      string
	Geometry  Geometry
	Box       Box
	Fill      string
	Line      string
	LineWidth float64
	Adjust    []Guide
}

func (s *Shape) Bounds() Box { return s.Box }
func (*Shape) element() {}

// Fit controls how a picture's pixels map onto its box
type Fit string

const (
	// FitStretch scales the image to the box, ignoring aspect ratio
	FitStretch Fit = ""
	// FitCover crops the image so it fills the box
	FitCover Fit = "cover"
	// FitContain letterboxes the image inside the box
	FitContain Fit = "contain"
)

// Picture is an embedded bitmap. Cover and contain fits need PixelW and
// PixelH; without them the image is stretched.
type Picture struct {
	Name     string
	Box      Box
	Data     []byte
	MimeType string
	Ext      string
	Descr    string
	PixelW   int
	PixelH   int
	Fit      Fit
}

func (p *Picture) Bounds() Box { return p.Box }
func (*Picture) element() {}

// Table is a grid of plain strings. Every cell shares Font; there is no
// per-cell styling. ZebraFill, when set, fills every second data row.
type Table struct {
	Name        string
	Box         Box
	Rows        [][]string
	ColWidths   []float64
	Font        Font
	BorderColor string
	Fill        string
	ZebraFill   string
}

func (t *Table) Bounds() Box { return t.Box }
func (*Table) element() {}

// RowHeight returns the height each row is given
func (t *Table) RowHeight() float64 {
	if len(t.Rows) == 0 {
		return 0
	}
	return t.Box.H / float64(len(t.Rows))
}

// Columns returns the widest row length
func (t *Table) Columns() int {
	n := 0
	for _, r := range t.Rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// columnWidths resolves ColWidths against the box, splitting evenly when unset
func (t *Table) columnWidths() []float64 {
	n := t.Columns()
	if n == 0 {
		return nil
	}
	if len(t.ColWidths) == n {
		return t.ColWidths
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = t.Box.W / float64(n)
	}
	return out
}

// Layout is a master layout: a background and static elements shared by the
// slides that use it.
type Layout struct {
	Name       string
	Background string
	Elements   []Element
}

// Slide is one page of the deck. Layout names one of the deck's layouts.
type Slide struct {
	Layout     string
	Background string
	Elements   []Element
}

// Add appends elements in z-order
func (s *Slide) Add(els ...Element) {
	s.Elements = append(s.Elements, els...)
}

// Texts returns the text of every text box on the slide, in z-order
func (s *Slide) Texts() []string {
	var out []string
	for _, el := range s.Elements {
		if tb, ok := el.(*TextBox); ok {
			out = append(out, tb.Text())
		}
	}
	return out
}

// Theme carries the fonts and colours written into the package theme
type Theme struct {
	Name      string
	MajorFont string
	MinorFont string
	Dark      string
	Light     string
	Accents   [6]string
}

// Deck is the whole presentation
type Deck struct {
	Title  string
	Author string
	// Language is the BCP 47 tag written on every text run; en-US when empty
	Language string
	Theme    Theme
	Layouts  []*Layout
	Slides   []*Slide
}

// DefaultLanguage tags text runs of decks that name no language
const DefaultLanguage = "en-US"

func (d *Deck) lang() string {
	if d.Language == "" {
		return DefaultLanguage
	}
	return d.Language
}

// AddSlide appends a slide
func (d *Deck) AddSlide(s *Slide) {
	d.Slides = append(d.Slides, s)
}
