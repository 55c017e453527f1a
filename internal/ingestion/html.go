package ingestion

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseSelector matches elements that never carry report content
const noiseSelector = "script, style, noscript, nav, footer, header, iframe, svg, form, .cookie-banner, .advertisement"

// HTMLText extracts the readable content of an HTML report export: headings
// become markdown headings, list items become bullets and tables become
// pipe-separated rows. Returns the number of table data rows seen.
func HTMLText(r io.Reader) (string, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(noiseSelector).Remove()

	root := doc.Find("main, article").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var (
		sb   strings.Builder
		rows int
	)
	root.Find("h1, h2, h3, h4, p, li, table").Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3", "h4":
			level := int(goquery.NodeName(s)[1] - '0')
			writeLine(&sb, strings.Repeat("#", level)+" "+inlineText(s))
		case "p":
			if s.ParentsFiltered("li, table").Length() == 0 {
				writeLine(&sb, inlineText(s))
			}
		case "li":
			if s.ParentsFiltered("table").Length() == 0 {
				writeLine(&sb, "- "+inlineText(s))
			}
		case "table":
			if s.ParentsFiltered("table").Length() > 0 {
				return
			}
			rows += writeTable(&sb, s)
		}
	})

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		// No structural markup; fall back to the flat text
		text = root.Text()
	}
	return text, rows, nil
}

func writeTable(sb *strings.Builder, table *goquery.Selection) int {
	writeLine(sb, inlineText(table.ChildrenFiltered("caption")))
	rows := 0
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.ParentsFiltered("table").First().Get(0) != table.Get(0) {
			return
		}
		cells := tr.ChildrenFiltered("th, td").Map(func(_ int, cell *goquery.Selection) string {
			return inlineText(cell)
		})
		if len(cells) == 0 || blankRecord(cells) {
			return
		}
		writeRow(sb, cells)
		if tr.ChildrenFiltered("td").Length() > 0 {
			rows++
		}
	})
	sb.WriteString("\n")
	return rows
}

func inlineText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func writeLine(sb *strings.Builder, line string) {
	line = strings.TrimSpace(line)
	if line == "" || line == "-" || strings.Trim(line, "# ") == "" {
		return
	}
	sb.WriteString(line)
	sb.WriteString("\n")
}
