package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/campaign-deck/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResolve_EmptyIdentifier(t *testing.T) {
	for _, id := range []string{"", "   "} {
		ref := Resolve(id, []types.UploadedImage{{Name: ""}})
		assert.True(t, ref.Placeholder)
		assert.Equal(t, NoIdentifierText, ref.Description)
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	uploaded := []types.UploadedImage{
		{Name: "ad1.png", DataURL: "data:image/png;base64,first"},
		{Name: "ad1.png", DataURL: "data:image/png;base64,second"},
	}
	ref := Resolve("ad1.png", uploaded)
	assert.False(t, ref.Placeholder)
	assert.Equal(t, "data:image/png;base64,first", ref.Source)
	assert.Equal(t, []string{"ad1.png"}, DuplicateNames(uploaded))
}

func TestResolve_CaseSensitive(t *testing.T) {
	ref := Resolve("AD1.png", []types.UploadedImage{{Name: "ad1.png", DataURL: "data:,x"}})
	assert.True(t, ref.Placeholder)
}

func TestResolve_NotFoundEncodesIdentifier(t *testing.T) {
	ref := Resolve("nonexistent.png", []types.UploadedImage{{Name: "other.png"}})
	assert.True(t, ref.Placeholder)
	assert.Contains(t, ref.Description, "nonexistent.png")
}

func TestResolve_NotFoundTruncatesLongIdentifier(t *testing.T) {
	long := strings.Repeat("x", 100) + ".png"
	ref := Resolve(long, nil)
	require.True(t, ref.Placeholder)

	echoed := strings.TrimPrefix(ref.Description, NotFoundPrefix)
	assert.Equal(t, MaxIdentifierRunes, utf8.RuneCountInString(echoed))
	assert.True(t, strings.HasSuffix(echoed, "..."))
	assert.True(t, strings.HasPrefix(long, strings.TrimSuffix(echoed, "...")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ñññ...", Truncate("ññññññññ", 6))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestDecode_PNGDataURL(t *testing.T) {
	up := FromBytes("a.png", "image/png", tinyPNG(t, 4, 3))
	p, err := Decode(Resolve("a.png", []types.UploadedImage{up}))
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.MimeType)
	assert.Equal(t, "png", p.Ext)
	assert.Equal(t, 4, p.Width)
	assert.Equal(t, 3, p.Height)
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]string{
		"not a data url":    "https://example.com/a.png",
		"no payload":        "data:image/png;base64",
		"bad base64":        "data:image/png;base64,!!!",
		"unsupported":       "data:image/svg+xml,<svg/>",
		"corrupt png bytes": "data:image/png;base64,aGVsbG8=",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(ImageRef{Identifier: "x", Source: src})
			var decErr *DecodeError
			assert.ErrorAs(t, err, &decErr)
		})
	}
}

func TestLoad_FallsBackToPlaceholder(t *testing.T) {
	p, err := Load(ImageRef{Identifier: "broken.png", Source: "data:image/png;base64,aGVsbG8="})
	assert.Error(t, err)
	assert.Equal(t, "image/png", p.MimeType)
	assert.Equal(t, PlaceholderWidth, p.Width)
	assert.NotEmpty(t, p.Data)
}

func TestPlaceholder_DeterministicPNG(t *testing.T) {
	a := Placeholder("Image not found: ad9.png")
	b := Placeholder("Image not found: ad9.png")
	assert.Equal(t, a.Data, b.Data)

	img, err := png.Decode(bytes.NewReader(a.Data))
	require.NoError(t, err)
	assert.Equal(t, PlaceholderWidth, img.Bounds().Dx())
	assert.Equal(t, PlaceholderHeight, img.Bounds().Dy())
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{""}, wrapText("  ", 10))
	assert.Equal(t, []string{"one two", "three"}, wrapText("one two three", 8))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrapText("abcdefghij", 4))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), tinyPNG(t, 2, 2), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), tinyPNG(t, 1, 1), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	imgs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, "a.png", imgs[0].Name)
	assert.Equal(t, "b.png", imgs[1].Name)
	assert.Equal(t, "image/png", imgs[0].MimeType)
	assert.True(t, strings.HasPrefix(imgs[0].DataURL, "data:image/png;base64,"))
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
