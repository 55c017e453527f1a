package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/campaign-deck/internal/assembly"
	"github.com/jonathan/campaign-deck/internal/brand"
	"github.com/jonathan/campaign-deck/internal/delivery"
	"github.com/jonathan/campaign-deck/internal/types"
)

// DeckResponse describes a deck uploaded to the object store
type DeckResponse struct {
	*assembly.Artifact
	Location string `json:"location"`
	Size     int64  `json:"size"`
}

// StreamResult is the payload of the final SSE event of /decks/stream.
// Data carries the deck itself when no object store is configured.
type StreamResult struct {
	*assembly.Artifact
	Status   string `json:"status"`
	Location string `json:"location,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// ValidateResponse reports whether a deck request would be accepted
type ValidateResponse struct {
	Valid      bool             `json:"valid"`
	BrandStyle types.BrandStyle `json:"brandStyle,omitempty"`
	Slides     int              `json:"slides"`
	Images     int              `json:"images"`
	Errors     []FieldError     `json:"errors,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// SchemeResponse describes one brand scheme
type SchemeResponse struct {
	Style         types.BrandStyle `json:"style"`
	Name          string           `json:"name"`
	FixedTemplate bool             `json:"fixedTemplate"`
	HeadlineFont  string           `json:"headlineFont"`
	BodyFont      string           `json:"bodyFont"`
	Primary       string           `json:"primary"`
	Secondary     string           `json:"secondary"`
	Accent        string           `json:"accent"`
}

// handleDecks assembles a deck and returns it as a download, or uploads it
// when ?delivery=link is given
func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	toStore := r.URL.Query().Get("delivery") == "link"
	if toStore && s.store == nil {
		s.fail(w, r, &UnavailableError{Feature: "object store delivery"})
		return
	}

	in, err := s.readDeckRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	artifact, err := s.assembler.Assemble(ctx, in.doc, in.images)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if toStore {
		receipt, err := s.assembler.Deliver(ctx, artifact, s.store)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusCreated, DeckResponse{Artifact: artifact, Location: receipt.Location, Size: receipt.Size})
		return
	}

	h := w.Header()
	h.Set("X-Deck-Id", artifact.DeckID)
	h.Set("X-Slide-Count", strconv.Itoa(artifact.SlideCount))
	h.Set("X-Skipped-Slides", strconv.Itoa(len(artifact.Skipped)))
	if _, err := s.assembler.Deliver(ctx, artifact, delivery.HTTPDeliverer{W: w}); err != nil {
		// headers are already sent; the failure is only logged
		s.log.Warnf(ctx, "Download of %s interrupted: %v", artifact.Filename, err)
	}
}

// handleDeckStream assembles a deck while streaming progress as SSE
func (s *Server) handleDeckStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, err := s.readDeckRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	assembler := s.assembler.With(assembly.WithProgress(func(ev assembly.ProgressEvent) {
		if err := sse.WriteEvent(EventProgress, ev); err != nil {
			s.log.Debugf(ctx, "Dropped progress event: %v", err)
		}
	}))

	artifact, err := assembler.Assemble(ctx, in.doc, in.images)
	if err != nil {
		s.log.Warnf(ctx, "Streamed assembly failed: %v", err)
		sse.WriteError(PublicMessage(err))
		return
	}

	result := StreamResult{Artifact: artifact, Status: "completed"}
	if s.store != nil {
		receipt, err := s.assembler.Deliver(ctx, artifact, s.store)
		if err != nil {
			sse.WriteError(PublicMessage(err))
			return
		}
		result.Location = receipt.Location
	} else {
		result.Data = artifact.Data
	}
	sse.WriteComplete(result)
}

// handleValidate checks a deck request without rendering it
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw, imagesJSON, uploaded, err := s.readDeckBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	in, err := checkDeck(raw, imagesJSON, uploaded)
	if err == nil {
		err = checkRenderable(in.doc)
	}
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.fail(w, r, err)
			return
		}
		resp := ValidateResponse{Valid: false, Errors: FieldErrors(err)}
		if len(resp.Errors) == 0 {
			resp.Message = err.Error()
		}
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	resp := ValidateResponse{Valid: true, BrandStyle: in.doc.BrandStyle, Images: len(in.images)}
	if fixed := in.doc.FixedContent(); fixed != nil {
		resp.Slides = 1 // closing page
		for _, slot := range fixed.Slots() {
			if slot.Present() {
				resp.Slides++
			}
		}
	} else {
		resp.Slides = len(in.doc.Slides())
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// checkRenderable reports the document-level failures Assemble would return
// before rendering a slide
func checkRenderable(doc *types.PresentationDocument) error {
	if doc.BrandStyle.IsFixedTemplate() {
		if doc.FixedContent() == nil {
			return &assembly.MissingContentError{Style: string(doc.BrandStyle)}
		}
		return nil
	}
	if len(doc.Slides()) == 0 {
		return &assembly.EmptyDeckError{Message: "document has no slides"}
	}
	return nil
}

// handleSchemes lists the brand schemes
func (s *Server) handleSchemes(w http.ResponseWriter, _ *http.Request) {
	schemes := brand.List()
	out := make([]SchemeResponse, 0, len(schemes))
	for _, scheme := range schemes {
		out = append(out, SchemeResponse{
			Style:         scheme.Style,
			Name:          scheme.Name,
			FixedTemplate: scheme.Style.IsFixedTemplate(),
			HeadlineFont:  scheme.HeadlineFont,
			BodyFont:      scheme.BodyFont,
			Primary:       scheme.Colors.Primary,
			Secondary:     scheme.Colors.Secondary,
			Accent:        scheme.Colors.Accent,
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}
