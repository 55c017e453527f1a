// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/campaign-deck/internal/assembly"
	"github.com/jonathan/campaign-deck/internal/brand"
	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/ingestion"
	"github.com/jonathan/campaign-deck/internal/schemas"
	"github.com/jonathan/campaign-deck/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad fits a line to the box interior, truncating on rune boundaries
func pad(line string) string {
	width := boxWidth - 4
	runes := []rune(line)
	if len(runes) > width {
		runes = append(runes[:width-3], []rune("...")...)
	}
	return string(runes) + strings.Repeat(" ", width-len(runes))
}

// fitLeft shortens s to width runes by dropping its start, keeping the tail
// that names a file
func fitLeft(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return "..." + string(runes[len(runes)-width+3:])
}

// PrintArtifact outputs a summary of an assembled deck
func (p *Printer) PrintArtifact(artifact *assembly.Artifact) {
	if artifact == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:    %s\n", artifact.Filename))
	sb.WriteString(fmt.Sprintf("Style:   %s\n", artifact.Style))
	sb.WriteString(fmt.Sprintf("Slides:  %d\n", artifact.SlideCount))
	sb.WriteString(fmt.Sprintf("Size:    %s\n", byteSize(len(artifact.Data))))
	sb.WriteString(fmt.Sprintf("Deck ID: %s\n", artifact.DeckID))

	if len(artifact.Skipped) > 0 {
		sb.WriteString(fmt.Sprintf("\nSkipped (%d):\n", len(artifact.Skipped)))
		count := min(len(artifact.Skipped), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := artifact.Skipped[i]
			sb.WriteString(fmt.Sprintf("  • #%d %s: %s\n", s.Index+1, s.Kind, s.Reason))
		}
		if len(artifact.Skipped) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(artifact.Skipped)-maxItemsToShow))
		}
	}

	p.printBox("ASSEMBLED DECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSchemes lists the brand schemes with their palette and fonts
func (p *Printer) PrintSchemes(schemes []*brand.Scheme) {
	if len(schemes) == 0 {
		return
	}

	var sb strings.Builder
	for i, s := range schemes {
		path := "generic"
		if s.Style.IsFixedTemplate() {
			path = "fixed template"
		}
		sb.WriteString(fmt.Sprintf("%s (%s, %s)\n", s.Style, s.Name, path))
		sb.WriteString(fmt.Sprintf("    Colors: #%s #%s #%s\n", s.Colors.Primary, s.Colors.Secondary, s.Colors.Accent))
		sb.WriteString(fmt.Sprintf("    Fonts:  %s / %s\n", s.HeadlineFont, s.BodyFont))
		if i < len(schemes)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("BRAND SCHEMES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDocument outputs the outline of a presentation document
func (p *Printer) PrintDocument(doc *types.PresentationDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:  %s\n", doc.Title))
	if doc.ClientName != "" {
		sb.WriteString(fmt.Sprintf("Client: %s\n", doc.ClientName))
	}
	if doc.Period != "" {
		sb.WriteString(fmt.Sprintf("Period: %s\n", doc.Period))
	}
	sb.WriteString(fmt.Sprintf("Style:  %s (%s)\n", doc.BrandStyle, doc.Language.OrDefault()))
	sb.WriteString("\n")

	if doc.BrandStyle.IsFixedTemplate() {
		content := doc.FixedContent()
		if content == nil {
			sb.WriteString("No fixed template content\n")
		} else {
			for _, slot := range content.Slots() {
				mark := "·"
				if slot.Present() {
					mark = "✓"
				}
				sb.WriteString(fmt.Sprintf("  %s %s\n", mark, slot.ID))
			}
		}
	} else {
		for i, s := range doc.Slides() {
			if isEmptySlide(s) {
				sb.WriteString(fmt.Sprintf("%2d. (empty)\n", i+1))
				continue
			}
			title := s.Header().Title
			if title == "" {
				title = "-"
			}
			sb.WriteString(fmt.Sprintf("%2d. %-18s %s\n", i+1, s.Kind(), title))
		}
	}

	p.printBox("PRESENTATION DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

// isEmptySlide reports whether a slide entry carried nothing, which decodes
// as an unknown slide without a type
func isEmptySlide(s types.SlideContent) bool {
	if s == nil {
		return true
	}
	unknown, ok := s.(*types.UnknownSlide)
	return ok && unknown.Type == ""
}

// PrintValidation reports the outcome of validating a document. A nil error
// prints a success line.
func (p *Printer) PrintValidation(source string, err error) {
	status := "valid"
	if err != nil {
		status = "invalid"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status: %s\n", status))
	sb.WriteString(fmt.Sprintf("Source: %s\n", fitLeft(source, boxWidth-4-len("Source: "))))
	if err == nil {
		p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
		return
	}
	sb.WriteString("\n")

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		for i, fe := range validationErr.Errors {
			sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, fe.Field, fe.Message))
		}
	} else {
		sb.WriteString(err.Error())
	}

	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIngestion outputs what was read from a campaign data source
func (p *Printer) PrintIngestion(metadata *ingestion.Metadata, text string) {
	if metadata == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n", metadata.Source))
	sb.WriteString(fmt.Sprintf("Format: %s\n", metadata.Format))
	if metadata.TableRows > 0 {
		sb.WriteString(fmt.Sprintf("Rows:   %d\n", metadata.TableRows))
	}
	sb.WriteString(fmt.Sprintf("Chars:  %d\n", len([]rune(text))))
	sb.WriteString(fmt.Sprintf("Hash:   %s", shortHash(metadata.Hash)))

	p.printBox("INGESTED SOURCE", sb.String())
}

// PrintDraft outputs a summary of a drafted document
func (p *Printer) PrintDraft(result *drafting.Result) {
	if result == nil || result.Document == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attempts: %d\n", result.Attempts))
	if f := result.Facts; f != nil {
		if f.ClientName != "" {
			sb.WriteString(fmt.Sprintf("Client:   %s\n", f.ClientName))
		}
		sb.WriteString(fmt.Sprintf("KPIs:     %d extracted\n", len(f.KPIs)))
	}
	if content := result.Document.FixedContent(); content != nil {
		present := 0
		for _, slot := range content.Slots() {
			if slot.Present() {
				present++
			}
		}
		sb.WriteString(fmt.Sprintf("Pages:    %d of %d\n", present, len(content.Slots())))
	} else {
		sb.WriteString(fmt.Sprintf("Slides:   %d\n", len(result.Document.Slides())))
	}

	p.printBox("DRAFTED DOCUMENT", strings.TrimSuffix(sb.String(), "\n"))
}

func byteSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
