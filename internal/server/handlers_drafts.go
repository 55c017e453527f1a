package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/ingestion"
	"github.com/jonathan/campaign-deck/internal/types"
)

// DraftRequest is the body of POST /drafts. Exactly one of Source and URL is set.
type DraftRequest struct {
	Source     string           `json:"source,omitempty"`
	Format     ingestion.Format `json:"format,omitempty"` // text, csv, tsv or html; default text
	URL        string           `json:"url,omitempty"`
	Style      types.BrandStyle `json:"brandStyle,omitempty"`
	Language   types.Language   `json:"language,omitempty"`
	ImageNames []string         `json:"imageNames,omitempty"`
	SkipFacts  bool             `json:"skipFacts,omitempty"`
}

// DraftResponse carries a drafted, schema-valid document
type DraftResponse struct {
	Document json.RawMessage          `json:"document"`
	Attempts int                      `json:"attempts"`
	Facts    *ingestion.CampaignFacts `json:"facts,omitempty"`
	Source   *ingestion.Metadata      `json:"source"`
}

// handleDrafts ingests campaign data and asks the model for a document
func (s *Server) handleDrafts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.drafter == nil {
		s.fail(w, r, &UnavailableError{Feature: "drafting"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, err)
			return
		}
		s.fail(w, r, &RequestError{Message: "invalid request body", Cause: err})
		return
	}

	hasSource := strings.TrimSpace(req.Source) != ""
	hasURL := strings.TrimSpace(req.URL) != ""
	if hasSource == hasURL {
		s.fail(w, r, &RequestError{Message: "exactly one of source or url is required"})
		return
	}
	if req.Style != "" && !isKnownStyle(req.Style) {
		s.fail(w, r, &RequestError{Message: "unknown brandStyle " + string(req.Style)})
		return
	}

	var (
		text string
		meta *ingestion.Metadata
		err  error
	)
	if hasURL {
		text, meta, err = ingestion.IngestFromURL(ctx, req.URL, nil)
	} else {
		text, meta, err = ingestion.Ingest([]byte(req.Source), req.Format, "request")
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.drafter.Draft(ctx, drafting.Request{
		Source:     text,
		Style:      req.Style,
		Language:   req.Language,
		ImageNames: req.ImageNames,
		SkipFacts:  req.SkipFacts,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, DraftResponse{
		Document: result.JSON,
		Attempts: result.Attempts,
		Facts:    result.Facts,
		Source:   meta,
	})
}

func isKnownStyle(style types.BrandStyle) bool {
	for _, s := range types.BrandStyles {
		if s == style {
			return true
		}
	}
	return false
}
