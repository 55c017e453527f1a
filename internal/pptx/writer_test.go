package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngStub only has to be non-empty; the writer never decodes media
var pngStub = []byte("\x89PNG\r\n\x1a\nstub")

func sampleDeck() *Deck {
	logo := &Picture{Name: "Logo", Box: Box{X: 9, Y: 0.2, W: 0.6, H: 0.3}, Data: pngStub, Ext: "png"}
	d := &Deck{
		Title:  "Q1 <Report>",
		Author: "campaign-deck",
		Theme:  Theme{Name: "Corporate", MajorFont: "Georgia", MinorFont: "Calibri"},
		Layouts: []*Layout{
			{Name: "TITLE", Background: "1F3A5F"},
			{Name: "CONTENT", Background: "FFFFFF", Elements: []Element{
				&TextBox{Name: "Footer", Box: Box{X: 0.5, Y: 5.2, W: 6, H: 0.3}, Paragraphs: []Paragraph{Plain("Confidential", Font{Size: 9}, AlignLeft)}},
				&TextBox{Name: "Slide Number", Box: Box{X: 9, Y: 5.2, W: 0.5, H: 0.3}, Paragraphs: []Paragraph{{Runs: []Run{{Field: FieldSlideNum, Font: Font{Size: 9}}}}}},
				logo,
			}},
		},
	}
	s1 := &Slide{Layout: "TITLE"}
	s1.Add(&TextBox{Box: Box{X: 0.5, Y: 2, W: 9, H: 1}, Paragraphs: []Paragraph{Plain("Q1 & Q2", Font{Face: "Georgia", Size: 36, Bold: true, Color: "FFFFFF"}, AlignCenter)}})

	s2 := &Slide{Layout: "CONTENT"}
	s2.Add(
		&TextBox{Box: Box{X: 0.5, Y: 1, W: 9, H: 3}, Paragraphs: []Paragraph{
			Bulleted("Revenue up 12%", Font{Size: 16}, "2A9D8F"),
			Bulleted("CTR stable", Font{Size: 16}, "2A9D8F"),
		}},
		&Shape{Geometry: GeomDonut, Box: Box{X: 1, Y: 1, W: 1, H: 1}, Fill: "1F3A5F", Adjust: []Guide{{Name: "adj", Value: 20000}}},
		&Shape{Geometry: GeomLine, Box: Box{X: 0.5, Y: 0.9, W: 9}, Line: "D1D5DB", LineWidth: 1},
		&Table{Box: Box{X: 0.5, Y: 3, W: 9, H: 1.2}, Rows: [][]string{{"Channel", "Clicks"}, {"Search", "1,200"}, {"Social"}}, BorderColor: "D1D5DB", ZebraFill: "F3F4F6"},
		&Picture{Box: Box{X: 5, Y: 1, W: 4, H: 2}, Data: pngStub, Ext: "png", PixelW: 400, PixelH: 400, Fit: FitCover},
		&Picture{Box: Box{X: 5, Y: 3, W: 4, H: 2}, Data: pngStub, Ext: "png", PixelW: 400, PixelH: 400, Fit: FitContain},
	)
	d.AddSlide(s1)
	d.AddSlide(s2)
	return d
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(b)
	}
	return out
}

func TestEncode_PackageParts(t *testing.T) {
	data, err := sampleDeck().Bytes()
	require.NoError(t, err)
	parts := readZip(t, data)

	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "docProps/app.xml", "docProps/core.xml",
		"ppt/presentation.xml", "ppt/_rels/presentation.xml.rels", "ppt/theme/theme1.xml",
		"ppt/slideMasters/slideMaster1.xml", "ppt/slideLayouts/slideLayout1.xml", "ppt/slideLayouts/slideLayout2.xml",
		"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "ppt/slides/_rels/slide2.xml.rels",
		"ppt/media/image1.png",
	} {
		assert.Contains(t, parts, name)
	}
	assert.NotContains(t, parts, "ppt/slides/slide3.xml")

	assert.Contains(t, parts["[Content_Types].xml"], `<Default Extension="png" ContentType="image/png"/>`)
	assert.Contains(t, parts["ppt/presentation.xml"], `<p:sldSz cx="9144000" cy="5143500"/>`)
	assert.Contains(t, parts["ppt/presentation.xml"], `<p:sldId id="257" r:id="rId3"/>`)
	assert.Contains(t, parts["docProps/core.xml"], "Q1 &lt;Report&gt;")
	assert.Contains(t, parts["ppt/theme/theme1.xml"], `<a:latin typeface="Georgia"/>`)
}

func TestEncode_SlideContent(t *testing.T) {
	data, err := sampleDeck().Bytes()
	require.NoError(t, err)
	parts := readZip(t, data)

	s1 := parts["ppt/slides/slide1.xml"]
	assert.Contains(t, s1, "Q1 &amp; Q2")
	assert.Contains(t, s1, `sz="3600" b="1"`)

	s2 := parts["ppt/slides/slide2.xml"]
	assert.Contains(t, s2, `<a:buChar char="•"/>`)
	assert.Contains(t, s2, `<a:buClr><a:srgbClr val="2A9D8F"/></a:buClr>`)
	assert.Contains(t, s2, `prst="donut"`)
	assert.Contains(t, s2, `<a:gd name="adj" fmla="val 20000"/>`)
	assert.Contains(t, s2, `<p:cxnSp>`)
	assert.Contains(t, s2, `<a:tbl>`)
	assert.Equal(t, 3, strings.Count(s2, `<a:tr `))
	assert.Contains(t, s2, `<a:srcRect l="0" t="25000" r="0" b="25000"/>`)
	assert.Contains(t, s2, `<a:fillRect l="25000" t="0" r="25000" b="0"/>`)

	rels := parts["ppt/slides/_rels/slide2.xml.rels"]
	assert.Contains(t, rels, `Target="../slideLayouts/slideLayout2.xml"`)
	assert.Contains(t, rels, `Target="../media/image1.png"`)

	layout := parts["ppt/slideLayouts/slideLayout2.xml"]
	assert.Contains(t, layout, `type="slidenum"`)
	assert.Contains(t, layout, `<p:cSld name="CONTENT">`)
}

func TestEncode_LanguageTagsEveryRun(t *testing.T) {
	d := sampleDeck()
	d.Language = "es-ES"
	data, err := d.Bytes()
	require.NoError(t, err)
	parts := readZip(t, data)

	for _, name := range []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "ppt/slideLayouts/slideLayout2.xml"} {
		assert.NotContains(t, parts[name], `lang="en-US"`, name)
		assert.Contains(t, parts[name], `<a:rPr lang="es-ES"`, name)
	}
	assert.Equal(t, strings.Count(parts["ppt/slides/slide2.xml"], "<a:rPr "), strings.Count(parts["ppt/slides/slide2.xml"], `<a:rPr lang="es-ES"`))
	assert.Contains(t, parts["docProps/core.xml"], "<dc:language>es-ES</dc:language>")
}

func TestEncode_LanguageDefaultsToEnglish(t *testing.T) {
	data, err := sampleDeck().Bytes()
	require.NoError(t, err)
	parts := readZip(t, data)

	assert.Contains(t, parts["ppt/slides/slide1.xml"], `<a:rPr lang="en-US"`)
	assert.Contains(t, parts["docProps/core.xml"], "<dc:language>en-US</dc:language>")
}

func TestEncode_DeduplicatesMedia(t *testing.T) {
	data, err := sampleDeck().Bytes()
	require.NoError(t, err)
	parts := readZip(t, data)

	var media []string
	for name := range parts {
		if strings.HasPrefix(name, "ppt/media/") {
			media = append(media, name)
		}
	}
	assert.Equal(t, []string{"ppt/media/image1.png"}, media)
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := sampleDeck().Bytes()
	require.NoError(t, err)
	b, err := sampleDeck().Bytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_NoLayoutsUsesBlank(t *testing.T) {
	d := &Deck{Title: "x"}
	d.AddSlide(&Slide{Layout: "missing"})
	data, err := d.Bytes()
	require.NoError(t, err)
	parts := readZip(t, data)
	assert.Contains(t, parts["ppt/slideLayouts/slideLayout1.xml"], `name="BLANK"`)
	assert.Contains(t, parts["ppt/slides/_rels/slide1.xml.rels"], "slideLayout1.xml")
}

func TestEncode_PictureWithoutDataFails(t *testing.T) {
	d := &Deck{}
	d.AddSlide(&Slide{Elements: []Element{&Picture{Name: "empty"}}})
	err := d.Encode(io.Discard)
	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Contains(t, err.Error(), "slide 1")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncode_WriterFailureSurfaces(t *testing.T) {
	err := sampleDeck().Encode(failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "deck.pptx")
	require.NoError(t, sampleDeck().Save(path))
}

func TestDeckID_Stable(t *testing.T) {
	assert.Equal(t, sampleDeck().ID(), sampleDeck().ID())
	other := sampleDeck()
	other.Title = "Other"
	assert.NotEqual(t, sampleDeck().ID(), other.ID())
}

func TestCoverCrop(t *testing.T) {
	l, tp, r, b := coverCrop(400, 100, Box{W: 2, H: 1})
	assert.Equal(t, []int{25000, 0, 25000, 0}, []int{l, tp, r, b})

	l, tp, r, b = containInset(400, 100, Box{W: 2, H: 1})
	assert.Equal(t, []int{0, 25000, 0, 25000}, []int{l, tp, r, b})

	l, tp, r, b = coverCrop(100, 100, Box{W: 1, H: 1})
	assert.Equal(t, []int{0, 0, 0, 0}, []int{l, tp, r, b})

	l, tp, r, b = coverCrop(0, 0, Box{W: 1, H: 1})
	assert.Equal(t, []int{0, 0, 0, 0}, []int{l, tp, r, b})
}

func TestClr(t *testing.T) {
	assert.Equal(t, "1F3A5F", clr("#1f3a5f"))
	assert.Equal(t, "", clr("red"))
	assert.Equal(t, "", clr("GGGGGG"))
	assert.Equal(t, "ABCDEF", clrOr("", "ABCDEF"))
}

func TestEMU(t *testing.T) {
	assert.Equal(t, int64(914400), EMU(1))
	assert.Equal(t, int64(5143500), EMU(SlideHeight))
}

func TestTextBoxText(t *testing.T) {
	tb := &TextBox{Paragraphs: []Paragraph{
		{Runs: []Run{{Text: "a"}, {Text: "b"}}},
		Plain("c", Font{}, AlignLeft),
	}}
	assert.Equal(t, "ab\nc", tb.Text())
}
