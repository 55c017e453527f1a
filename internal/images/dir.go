package images

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/campaign-deck/internal/types"
)

// LoadDir reads every image file directly inside dir into uploaded-image
// records named after the file. Non-image files and subdirectories are ignored.
// Entries come back sorted by file name.
func LoadDir(dir string) ([]types.UploadedImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read images directory %s: %w", dir, err)
	}

	var out []types.UploadedImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(entry.Name())))
		if mimeType, _, _ = strings.Cut(mimeType, ";"); !strings.HasPrefix(mimeType, "image/") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", entry.Name(), err)
		}
		out = append(out, FromBytes(entry.Name(), mimeType, data))
	}
	return out, nil
}

// FromBytes wraps raw image bytes as an uploaded image with a base64 data URL
func FromBytes(name, mimeType string, data []byte) types.UploadedImage {
	return types.UploadedImage{
		Name:     name,
		MimeType: mimeType,
		DataURL:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
}
