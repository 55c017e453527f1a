package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/webp"
)

// Placeholder bitmap geometry, 16:9 to match the content area it usually fills
const (
	PlaceholderWidth  = 480
	PlaceholderHeight = 270
)

// Payload is an embeddable bitmap
type Payload struct {
	Data     []byte
	MimeType string
	Ext      string
	Width    int
	Height   int
}

var extByMime = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpeg",
	"image/gif":  "gif",
}

// Decode turns a resolved reference into embeddable bytes. Placeholder
// references render the placeholder bitmap. WebP sources are transcoded to
// PNG because presentation viewers do not reliably display them.
func Decode(ref ImageRef) (Payload, error) {
	if ref.Placeholder {
		return Placeholder(ref.Description), nil
	}

	mimeType, data, err := parseDataURL(ref.Source)
	if err != nil {
		return Payload{}, err
	}

	if mimeType == "image/webp" {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return Payload{}, &DecodeError{Message: "invalid webp data", Cause: err}
		}
		return encodePNG(img)
	}

	ext, ok := extByMime[mimeType]
	if !ok {
		return Payload{}, &DecodeError{Message: "unsupported image type " + mimeType}
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Payload{}, &DecodeError{Message: "unreadable " + mimeType + " data", Cause: err}
	}

	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	return Payload{Data: data, MimeType: mimeType, Ext: ext, Width: cfg.Width, Height: cfg.Height}, nil
}

// Load is Decode with the placeholder fallback applied, so callers always get a bitmap
func Load(ref ImageRef) (Payload, error) {
	p, err := Decode(ref)
	if err != nil {
		label := ref.Identifier
		if label == "" {
			label = "image"
		}
		return Placeholder("Unreadable image: " + Truncate(label, MaxIdentifierRunes)), err
	}
	return p, nil
}

func parseDataURL(src string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return "", nil, &DecodeError{Message: "source is not a data URL"}
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, &DecodeError{Message: "data URL has no payload"}
	}

	params := strings.Split(meta, ";")
	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
		if err != nil {
			return "", nil, &DecodeError{Message: "invalid base64 payload", Cause: err}
		}
		return mimeType, data, nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, &DecodeError{Message: "invalid percent-encoded payload", Cause: err}
	}
	return mimeType, []byte(decoded), nil
}

func encodePNG(img image.Image) (Payload, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Payload{}, &DecodeError{Message: "failed to encode png", Cause: err}
	}
	b := img.Bounds()
	return Payload{Data: buf.Bytes(), MimeType: "image/png", Ext: "png", Width: b.Dx(), Height: b.Dy()}, nil
}

var placeholderCache sync.Map

// Placeholder draws a grey PNG with the description centred on it. Identical
// descriptions produce identical bytes.
func Placeholder(description string) Payload {
	if cached, ok := placeholderCache.Load(description); ok {
		return cached.(Payload)
	}

	img := image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0xE5, 0xE7, 0xEB, 0xFF}), image.Point{}, draw.Src)

	border := color.RGBA{0x9C, 0xA3, 0xAF, 0xFF}
	for x := 0; x < PlaceholderWidth; x++ {
		img.Set(x, 0, border)
		img.Set(x, PlaceholderHeight-1, border)
	}
	for y := 0; y < PlaceholderHeight; y++ {
		img.Set(0, y, border)
		img.Set(PlaceholderWidth-1, y, border)
	}

	face := basicfont.Face7x13
	lines := wrapText(description, (PlaceholderWidth-32)/face.Advance)
	lineHeight := face.Height + 4
	top := (PlaceholderHeight - len(lines)*lineHeight) / 2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x37, 0x41, 0x51, 0xFF}),
		Face: face,
	}
	for i, line := range lines {
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((PlaceholderWidth-width)/2, top+i*lineHeight+face.Ascent)
		d.DrawString(line)
	}

	p, err := encodePNG(img)
	if err != nil {
		// png.Encode into a bytes.Buffer only fails on invalid dimensions
		panic(err)
	}
	placeholderCache.Store(description, p)
	return p
}

// wrapText breaks s into lines of at most width runes on word boundaries
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var cur []rune
	for _, w := range words {
		wr := []rune(w)
		for len(wr) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(wr[:width]))
			wr = wr[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, wr...)
		case len(cur)+1+len(wr) <= width:
			cur = append(append(cur, ' '), wr...)
		default:
			lines = append(lines, string(cur))
			cur = append([]rune(nil), wr...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
