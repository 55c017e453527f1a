package drafting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/campaign-deck/internal/ingestion"
	"github.com/jonathan/campaign-deck/internal/llm"
	"github.com/jonathan/campaign-deck/internal/logging"
	"github.com/jonathan/campaign-deck/internal/prompts"
	"github.com/jonathan/campaign-deck/internal/schemas"
	"github.com/jonathan/campaign-deck/internal/types"
)

const promptFile = "drafting.json"

// DefaultMaxRepairs is how many times an invalid draft is sent back for correction
const DefaultMaxRepairs = 1

// Request describes the deck to draft
type Request struct {
	Source     string // cleaned campaign report text
	Style      types.BrandStyle
	Language   types.Language
	ImageNames []string // names of the images that will be uploaded with the deck
	// SkipFacts drafts straight from the source without the fact extraction pass
	SkipFacts bool
}

// Result is a drafted document and how it was produced
type Result struct {
	Document *types.PresentationDocument
	JSON     []byte // the validated document JSON
	Facts    *ingestion.CampaignFacts
	Attempts int
}

// Drafter prompts the model for presentation documents
type Drafter struct {
	client     llm.Client
	log        logging.Logger
	tier       llm.ModelTier
	maxRepairs int
}

// Option configures a Drafter
type Option func(*Drafter)

// WithTier selects the model tier used for the document itself
func WithTier(tier llm.ModelTier) Option {
	return func(d *Drafter) { d.tier = tier }
}

// WithMaxRepairs bounds the correction round trips after a schema failure
func WithMaxRepairs(n int) Option {
	return func(d *Drafter) {
		if n >= 0 {
			d.maxRepairs = n
		}
	}
}

// New creates a Drafter backed by client
func New(client llm.Client, log logging.Logger, opts ...Option) *Drafter {
	if log == nil {
		log = logging.NewNop()
	}
	d := &Drafter{
		client:     client,
		log:        log,
		tier:       llm.TierStandard,
		maxRepairs: DefaultMaxRepairs,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Draft produces a schema-valid PresentationDocument for req
func (d *Drafter) Draft(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Source) == "" {
		return nil, &Error{Stage: "prompt", Message: "source text is empty"}
	}
	if req.Style == "" {
		req.Style = types.StyleCorporate
	}
	req.Language = req.Language.OrDefault()

	result := &Result{}
	if !req.SkipFacts {
		facts, err := ingestion.ExtractFacts(ctx, d.client, req.Source)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &Error{Stage: "generate", Message: "fact extraction cancelled", Cause: ctx.Err()}
			}
			d.log.Warnf(ctx, "Fact extraction failed, drafting from source only: %v", err)
		} else {
			result.Facts = facts
		}
	}

	prompt, err := buildPrompt(req, result.Facts)
	if err != nil {
		return nil, &Error{Stage: "prompt", Message: "failed to build prompt", Cause: err}
	}

	raw, err := d.generate(ctx, prompt)
	result.Attempts++
	if err != nil {
		return nil, err
	}

	for {
		verr := schemas.ValidatePresentation(raw)
		if verr == nil {
			break
		}
		var validationErr *schemas.ValidationError
		if !errors.As(verr, &validationErr) || result.Attempts > d.maxRepairs {
			return nil, &Error{Stage: "validate", Message: fmt.Sprintf("draft invalid after %d attempt(s)", result.Attempts), Cause: verr}
		}

		d.log.Warnf(ctx, "Draft attempt %d failed validation on %s, requesting repair",
			result.Attempts, strings.Join(validationErr.Fields(), ", "))

		repair, err := prompts.Render(promptFile, "repair-draft", map[string]string{
			"Errors":   validationErr.Error(),
			"Document": string(raw),
		})
		if err != nil {
			return nil, &Error{Stage: "prompt", Message: "failed to build repair prompt", Cause: err}
		}
		raw, err = d.generate(ctx, repair)
		result.Attempts++
		if err != nil {
			return nil, err
		}
	}

	doc, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if doc.BrandStyle != req.Style {
		return nil, &Error{Stage: "validate", Message: fmt.Sprintf("drafted brand style %q, requested %q", doc.BrandStyle, req.Style)}
	}

	result.Document = doc
	result.JSON = raw
	d.log.Infof(ctx, "Drafted %s deck %q in %d attempt(s)", doc.BrandStyle, doc.Title, result.Attempts)
	return result, nil
}

func (d *Drafter) generate(ctx context.Context, prompt string) ([]byte, error) {
	if d.client == nil {
		return nil, &Error{Stage: "generate", Message: "LLM client is not configured"}
	}
	resp, err := d.client.GenerateJSON(ctx, prompt, d.tier)
	if err != nil {
		return nil, &Error{Stage: "generate", Message: "model call failed", Cause: err}
	}
	return []byte(llm.CleanJSONBlock(resp)), nil
}

// Decode parses document JSON and checks its closed enumerations
func Decode(raw []byte) (*types.PresentationDocument, error) {
	var doc types.PresentationDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Stage: "decode", Message: "document JSON is malformed", Cause: err}
	}
	if err := doc.Validate(); err != nil {
		return nil, &Error{Stage: "decode", Message: "document fields are invalid", Cause: err}
	}
	return &doc, nil
}

func buildPrompt(req Request, facts *ingestion.CampaignFacts) (string, error) {
	key := "draft-generic-deck"
	if req.Style.IsFixedTemplate() {
		key = "draft-fixed-report"
	}

	factText := ingestion.FormatFacts(facts)
	if factText == "" {
		factText = "(none extracted; use the source report)"
	}

	return prompts.Render(promptFile, key, map[string]string{
		"Style":    string(req.Style),
		"Language": string(req.Language),
		"Images":   imageList(req.ImageNames),
		"Facts":    factText,
		"Source":   req.Source,
	})
}

func imageList(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, fmt.Sprintf("%q", n))
		}
	}
	if len(kept) == 0 {
		return "(no images uploaded; omit imageIdentifier)"
	}
	sort.Strings(kept)
	return strings.Join(kept, ", ")
}
