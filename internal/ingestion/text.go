package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Format is the detected layout of a campaign data source
type Format string

// Supported source formats
const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatHTML Format = "html"
)

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	blankLines = regexp.MustCompile(`\n\n\n+`)
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	// Markdown headings lose their indentation
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	// Table rows keep their cell spacing
	if strings.HasPrefix(trimmed, "|") {
		return trimmed
	}

	if isBulletLine(trimmed) {
		indent := len(line) - len(trimmed)
		if indent > 0 {
			return strings.Repeat(" ", indent) + trimmed
		}
		return trimmed
	}

	leadingSpace := len(line) - len(trimmed)
	content := spaceRun.ReplaceAllString(strings.TrimSpace(line), " ")
	if leadingSpace > 0 {
		return strings.Repeat(" ", leadingSpace) + content
	}
	return content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// DetectFormat picks a format from the file name, falling back to the media
// type and finally to plain text.
func DetectFormat(name, contentType string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	case ".html", ".htm":
		return FormatHTML
	case ".txt", ".md", ".markdown":
		return FormatText
	}

	switch contentType {
	case "text/csv", "application/csv":
		return FormatCSV
	case "text/tab-separated-values":
		return FormatTSV
	case "text/html", "application/xhtml+xml":
		return FormatHTML
	}
	return FormatText
}

// Ingest converts raw source bytes of the given format into cleaned text
func Ingest(data []byte, format Format, source string) (string, *Metadata, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var (
		text string
		rows int
		err  error
	)
	switch format {
	case FormatCSV:
		text, rows, err = TableText(bytes.NewReader(data), ',')
	case FormatTSV:
		text, rows, err = TableText(bytes.NewReader(data), '\t')
	case FormatHTML:
		text, rows, err = HTMLText(bytes.NewReader(data))
	case FormatText, "":
		format = FormatText
		text = string(data)
	default:
		return "", nil, &Error{Source: source, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return "", nil, &Error{Source: source, Message: fmt.Sprintf("failed to read %s", format), Cause: err}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, &Error{Source: source, Message: "no content"}
	}

	metadata := NewMetadata(cleaned, source)
	metadata.Format = format
	metadata.TableRows = rows
	return cleaned, metadata, nil
}

// IngestFromFile reads a campaign data file, cleans it, and returns cleaned text with metadata
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, &Error{Source: path, Message: "file not found", Cause: err}
		}
		return "", nil, &Error{Source: path, Message: "failed to read file", Cause: err}
	}

	return Ingest(content, DetectFormat(path, ""), path)
}

// WriteOutput writes the cleaned text and metadata next to each other in outDir
func WriteOutput(outDir string, cleanedText string, metadata *Metadata) error {
	if !metadata.Matches(cleanedText) {
		return fmt.Errorf("metadata hash does not match the cleaned text")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cleanedPath := filepath.Join(outDir, "campaign.cleaned.txt")
	if err := os.WriteFile(cleanedPath, []byte(cleanedText), 0644); err != nil {
		return fmt.Errorf("failed to write cleaned text file: %w", err)
	}

	metaPath := filepath.Join(outDir, "campaign.meta.json")
	metaJSON, err := metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
