package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/images"
	"github.com/jonathan/campaign-deck/internal/schemas"
	"github.com/jonathan/campaign-deck/internal/types"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files
const multipartMemory = 8 << 20

// DeckRequest is the JSON body of the deck endpoints
type DeckRequest struct {
	Document json.RawMessage `json:"document"`
	Images   json.RawMessage `json:"images,omitempty"`
}

// deckInput is a parsed, schema-checked deck request
type deckInput struct {
	raw    []byte
	doc    *types.PresentationDocument
	images []types.UploadedImage
}

// readDeckBody reads either a JSON DeckRequest or a multipart form with a
// "document" part and any number of "images" files. Nothing is validated yet.
func (s *Server) readDeckBody(w http.ResponseWriter, r *http.Request) (raw, imagesJSON []byte, uploaded []types.UploadedImage, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readMultipart(r)
	}

	var req DeckRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, nil, err
		}
		return nil, nil, nil, &RequestError{Message: "invalid request body", Cause: err}
	}
	if isAbsent(req.Document) {
		return nil, nil, nil, &RequestError{Message: "document is required"}
	}
	if !isAbsent(req.Images) {
		imagesJSON = req.Images
	}
	return req.Document, imagesJSON, nil, nil
}

func readMultipart(r *http.Request) (raw, imagesJSON []byte, uploaded []types.UploadedImage, err error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, nil, err
		}
		return nil, nil, nil, &RequestError{Message: "invalid multipart form", Cause: err}
	}

	raw = []byte(r.FormValue("document"))
	if len(raw) == 0 {
		if fhs := r.MultipartForm.File["document"]; len(fhs) > 0 {
			if raw, err = readPart(fhs[0]); err != nil {
				return nil, nil, nil, err
			}
		}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil, nil, &RequestError{Message: "document is required"}
	}
	if !json.Valid(raw) {
		return nil, nil, nil, &RequestError{Message: "document is not valid JSON"}
	}

	for _, fh := range r.MultipartForm.File["images"] {
		data, err := readPart(fh)
		if err != nil {
			return nil, nil, nil, err
		}
		uploaded = append(uploaded, images.FromBytes(fh.Filename, partMimeType(fh), data))
	}
	return raw, nil, uploaded, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, &RequestError{Message: "failed to open upload " + fh.Filename, Cause: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &RequestError{Message: "failed to read upload " + fh.Filename, Cause: err}
	}
	return data, nil
}

// partMimeType trusts the part header when it names an image, else the extension
func partMimeType(fh *multipart.FileHeader) string {
	if ct, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type")); err == nil && strings.HasPrefix(ct, "image/") {
		return ct
	}
	if ct, _, err := mime.ParseMediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))); err == nil {
		return ct
	}
	return "application/octet-stream"
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// checkDeck validates the document and image manifest against their schemas
// and decodes both
func checkDeck(raw, imagesJSON []byte, uploaded []types.UploadedImage) (*deckInput, error) {
	if err := schemas.ValidatePresentation(raw); err != nil {
		return nil, err
	}
	if imagesJSON != nil {
		if err := schemas.ValidateUploads(imagesJSON); err != nil {
			return nil, err
		}
		var fromJSON []types.UploadedImage
		if err := json.Unmarshal(imagesJSON, &fromJSON); err != nil {
			return nil, &RequestError{Message: "images are malformed", Cause: err}
		}
		uploaded = append(fromJSON, uploaded...)
	}

	doc, err := drafting.Decode(raw)
	if err != nil {
		return nil, &RequestError{Message: "document could not be decoded", Cause: err}
	}
	return &deckInput{raw: raw, doc: doc, images: uploaded}, nil
}

// readDeckRequest reads and checks a deck request in one step
func (s *Server) readDeckRequest(w http.ResponseWriter, r *http.Request) (*deckInput, error) {
	raw, imagesJSON, uploaded, err := s.readDeckBody(w, r)
	if err != nil {
		return nil, err
	}
	return checkDeck(raw, imagesJSON, uploaded)
}
