package ingestion

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// TableText renders a delimited spreadsheet export as pipe-separated rows.
// The first record is treated as the header. Returns the number of data rows.
func TableText(r io.Reader, delim rune) (string, int, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		sb   strings.Builder
		rows int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", 0, err
		}
		if blankRecord(record) {
			continue
		}
		writeRow(&sb, record)
		rows++
	}

	if rows > 0 {
		rows-- // header
	}
	return sb.String(), rows, nil
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(strings.Fields(cell), " "))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
