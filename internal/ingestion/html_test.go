package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportHTML = `<!DOCTYPE html>
<html>
<head><style>.x { color: red; }</style><script>var a = 1;</script></head>
<body>
	<nav>Menu</nav>
	<main>
		<h1>Spring Campaign</h1>
		<p>Reach grew    strongly.</p>
		<ul><li>Search</li><li>Social</li></ul>
		<table>
			<caption>By region</caption>
			<tr><th>Region</th><th>Clicks</th></tr>
			<tr><td>North</td><td>1,200</td></tr>
			<tr><td>South</td><td>800</td></tr>
		</table>
	</main>
	<footer>Legal</footer>
</body>
</html>`

func TestHTMLText_Structure(t *testing.T) {
	text, rows, err := HTMLText(strings.NewReader(reportHTML))
	require.NoError(t, err)

	assert.Equal(t, 2, rows)
	assert.Equal(t, "# Spring Campaign\n"+
		"Reach grew strongly.\n"+
		"- Search\n"+
		"- Social\n"+
		"By region\n"+
		"| Region | Clicks |\n"+
		"| North | 1,200 |\n"+
		"| South | 800 |\n\n", text)
	assert.NotContains(t, text, "Menu")
	assert.NotContains(t, text, "Legal")
	assert.NotContains(t, text, "var a")
}

func TestHTMLText_FallsBackToFlatText(t *testing.T) {
	text, rows, err := HTMLText(strings.NewReader(`<html><body><div>Only text here</div></body></html>`))
	require.NoError(t, err)

	assert.Zero(t, rows)
	assert.Equal(t, "Only text here", strings.TrimSpace(text))
}

func TestIngest_HTML(t *testing.T) {
	text, metadata, err := Ingest([]byte(reportHTML), FormatHTML, "export.html")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "# Spring Campaign"))
	assert.True(t, strings.HasSuffix(text, "| South | 800 |"))
	assert.Equal(t, FormatHTML, metadata.Format)
	assert.Equal(t, 2, metadata.TableRows)
}
