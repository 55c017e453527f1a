package rendering

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/jonathan/campaign-deck/internal/images"
	"github.com/jonathan/campaign-deck/internal/pptx"
	"github.com/jonathan/campaign-deck/internal/types"
	"github.com/stretchr/testify/require"
)

func testContext(style types.BrandStyle, uploaded ...types.UploadedImage) *Context {
	return NewContext(&types.PresentationDocument{
		Title:      "Campaign Review",
		ClientName: "Acme",
		Period:     "Q1 2025",
		BrandStyle: style,
	}, uploaded)
}

func uploadedPNG(t *testing.T, name string, w, h int) types.UploadedImage {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return images.FromBytes(name, "image/png", buf.Bytes())
}

func textBoxes(s *pptx.Slide, name string) []*pptx.TextBox {
	var out []*pptx.TextBox
	for _, el := range s.Elements {
		if tb, ok := el.(*pptx.TextBox); ok && tb.Name == name {
			out = append(out, tb)
		}
	}
	return out
}

func pictures(s *pptx.Slide) []*pptx.Picture {
	var out []*pptx.Picture
	for _, el := range s.Elements {
		if p, ok := el.(*pptx.Picture); ok {
			out = append(out, p)
		}
	}
	return out
}

func shapes(s *pptx.Slide, name string) []*pptx.Shape {
	var out []*pptx.Shape
	for _, el := range s.Elements {
		if sh, ok := el.(*pptx.Shape); ok && sh.Name == name {
			out = append(out, sh)
		}
	}
	return out
}

func bulletTexts(tb *pptx.TextBox) []string {
	var out []string
	for _, p := range tb.Paragraphs {
		if p.Bullet != nil && len(p.Runs) > 0 {
			out = append(out, p.Runs[0].Text)
		}
	}
	return out
}
