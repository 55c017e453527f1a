package assembly

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/campaign-deck/internal/delivery"
	"github.com/jonathan/campaign-deck/internal/images"
	"github.com/jonathan/campaign-deck/internal/logging"
	"github.com/jonathan/campaign-deck/internal/pptx"
	"github.com/jonathan/campaign-deck/internal/rendering"
	"github.com/jonathan/campaign-deck/internal/types"
)

// deckAuthor is written into the package metadata
const deckAuthor = "campaign-deck"

// SkippedSlide records a slide left out of the deck and why
type SkippedSlide struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Artifact is an assembled deck ready for delivery
type Artifact struct {
	Filename   string           `json:"filename"`
	Style      types.BrandStyle `json:"brandStyle"`
	DeckID     string           `json:"deckId"`
	SlideCount int              `json:"slideCount"`
	Skipped    []SkippedSlide   `json:"skipped,omitempty"`
	Data       []byte           `json:"-"`
}

// File returns the artifact as a deliverable file
func (a *Artifact) File() delivery.File {
	return delivery.File{Name: a.Filename, ContentType: delivery.PPTXContentType, Data: a.Data}
}

// Assembler renders documents into decks. It holds no per-deck state and is
// safe for concurrent use.
type Assembler struct {
	log         logging.Logger
	concurrency int
	now         func() time.Time
	onProgress  ProgressCallback
}

// Option configures an Assembler
type Option func(*Assembler)

// WithConcurrency bounds how many slides render at once
func WithConcurrency(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock replaces the clock used for the filename date
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithProgress registers a progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(a *Assembler) {
		a.onProgress = cb
	}
}

// New creates an Assembler. A nil logger discards output.
func New(log logging.Logger, opts ...Option) *Assembler {
	if log == nil {
		log = logging.NewNop()
	}
	a := &Assembler{
		log:         log,
		concurrency: runtime.GOMAXPROCS(0),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// With returns a copy of the assembler with extra options applied
func (a *Assembler) With(opts ...Option) *Assembler {
	c := *a
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// job is one slide to render at a fixed position in the deck
type job struct {
	index  int
	kind   string
	render func() (*pptx.Slide, error)
}

type result struct {
	slide   *pptx.Slide
	skipped *SkippedSlide
}

// Assemble renders doc into a deck. The only fatal conditions are a fixed
// report without content, a generic document without slides, and a failure
// to encode the package; everything else degrades per slide.
func (a *Assembler) Assemble(ctx context.Context, doc *types.PresentationDocument, uploaded []types.UploadedImage) (*Artifact, error) {
	if doc == nil {
		return nil, &EmptyDeckError{Message: "no presentation document"}
	}

	for _, name := range images.DuplicateNames(uploaded) {
		a.log.Warnf(ctx, "multiple uploaded images are named %q; the first one is used", name)
	}

	rc := rendering.NewContext(doc, uploaded)
	rc.ImageFallback = func(ref images.ImageRef, err error) {
		a.log.Warnf(ctx, "image %q could not be decoded, using placeholder: %v", ref.Identifier, err)
	}

	deck := &pptx.Deck{
		Title:    rendering.TitleText(rc, ""),
		Author:   deckAuthor,
		Language: rc.Language.Tag(),
		Theme:    rc.Theme(),
	}

	var jobs []job
	if doc.BrandStyle.IsFixedTemplate() {
		content := doc.FixedContent()
		if content == nil {
			a.log.Errorf(ctx, "fixed report requested without content")
			return nil, &MissingContentError{Style: string(doc.BrandStyle)}
		}
		deck.Layouts = rendering.FixedLayouts(rc)
		jobs = fixedJobs(rc, content)
	} else {
		slides := doc.Slides()
		if len(slides) == 0 {
			return nil, &EmptyDeckError{Message: "the document has no slides"}
		}
		deck.Layouts = rendering.MasterLayouts(rc)
		jobs = genericJobs(rc, slides)
	}

	a.emit(ProgressEvent{Stage: StageStart, Total: len(jobs), Message: fmt.Sprintf("Rendering %d slides", len(jobs))})
	results, err := a.renderAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{Style: doc.BrandStyle}
	for _, r := range results {
		if r.skipped != nil {
			artifact.Skipped = append(artifact.Skipped, *r.skipped)
			continue
		}
		deck.AddSlide(r.slide)
	}

	a.emit(ProgressEvent{Stage: StageSerialize, Total: len(jobs), Message: "Writing presentation package"})
	data, err := deck.Bytes()
	if err != nil {
		return nil, &SerializeError{Message: "failed to encode deck", Cause: err}
	}

	artifact.Data = data
	artifact.SlideCount = len(deck.Slides)
	artifact.DeckID = deck.ID().String()
	artifact.Filename = Filename(doc.Title, doc.BrandStyle, a.now())

	a.log.Infof(ctx, "assembled %s: %d slides, %d skipped, %d bytes", artifact.Filename, artifact.SlideCount, len(artifact.Skipped), len(data))
	a.emit(ProgressEvent{Stage: StageComplete, Total: len(jobs), Message: artifact.Filename})
	return artifact, nil
}

func genericJobs(rc *rendering.Context, slides types.SlideList) []job {
	jobs := make([]job, 0, len(slides))
	for i, s := range slides {
		kind := "nil"
		if s != nil {
			kind = string(s.Kind())
		}
		jobs = append(jobs, job{index: i, kind: kind, render: func() (*pptx.Slide, error) {
			return rendering.RenderGeneric(rc, s)
		}})
	}
	return jobs
}

func fixedJobs(rc *rendering.Context, content *types.FixedTemplateDocument) []job {
	var jobs []job
	for _, slot := range content.Slots() {
		if !slot.Present() {
			continue
		}
		jobs = append(jobs, job{index: len(jobs), kind: string(slot.ID), render: func() (*pptx.Slide, error) {
			return rendering.RenderFixedSlot(rc, slot)
		}})
	}
	jobs = append(jobs, job{index: len(jobs), kind: "closing", render: func() (*pptx.Slide, error) {
		return rendering.RenderClosing(rc), nil
	}})
	return jobs
}

// renderAll renders every job concurrently and returns results in job order.
// A failing slide is recorded as skipped; only cancellation aborts.
func (a *Assembler) renderAll(ctx context.Context, jobs []job) ([]result, error) {
	results := make([]result, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			slide, err := renderSafely(j)
			if err == nil && slide == nil {
				err = &rendering.RenderError{Message: "renderer returned no slide"}
			}
			if err != nil {
				results[i] = result{skipped: a.skip(ctx, j, len(jobs), err)}
				return nil
			}
			results[i] = result{slide: slide}
			a.emit(ProgressEvent{Stage: StageSlide, Index: j.index, Total: len(jobs), Kind: j.kind, Message: "rendered"})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Assembler) skip(ctx context.Context, j job, total int, err error) *SkippedSlide {
	var unknown *rendering.UnknownKindError
	if errors.As(err, &unknown) {
		a.log.Warnf(ctx, "skipping slide %d: unknown slide type %q", j.index, unknown.Kind)
	} else {
		a.log.Errorf(ctx, "skipping slide %d (%s): %v", j.index, j.kind, err)
	}
	a.emit(ProgressEvent{Stage: StageSkipped, Index: j.index, Total: total, Kind: j.kind, Message: err.Error()})
	return &SkippedSlide{Index: j.index, Kind: j.kind, Reason: err.Error()}
}

// renderSafely turns a panicking renderer into an error for that slide
func renderSafely(j job) (slide *pptx.Slide, err error) {
	defer func() {
		if r := recover(); r != nil {
			slide = nil
			err = &rendering.RenderError{Message: fmt.Sprintf("panic while rendering %s slide: %v", j.kind, r)}
		}
	}()
	return j.render()
}

// Deliver hands the artifact to a deliverer. Delivery failures are returned
// to the caller.
func (a *Assembler) Deliver(ctx context.Context, artifact *Artifact, d delivery.Deliverer) (delivery.Receipt, error) {
	if artifact == nil {
		return delivery.Receipt{}, &delivery.Error{Message: "no artifact to deliver"}
	}
	if d == nil {
		return delivery.Receipt{}, &delivery.Error{Message: "no destination to deliver " + artifact.Filename + " to"}
	}
	receipt, err := d.Deliver(ctx, artifact.File())
	if err != nil {
		a.log.Errorf(ctx, "failed to deliver %s: %v", artifact.Filename, err)
		return delivery.Receipt{}, err
	}
	a.log.Infof(ctx, "delivered %s to %s", artifact.Filename, receipt.Location)
	return receipt, nil
}
