package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestFromURL_CSVByExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("KPI,Value\nReach,1.2M\n"))
	}))
	defer server.Close()

	text, metadata, err := IngestFromURL(context.Background(), server.URL+"/exports/report.csv", nil)
	require.NoError(t, err)

	assert.Equal(t, "| KPI | Value |\n| Reach | 1.2M |", text)
	assert.Equal(t, FormatCSV, metadata.Format)
	assert.Equal(t, server.URL+"/exports/report.csv", metadata.Source)
}

func TestIngestFromURL_HTMLByContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(reportHTML))
	}))
	defer server.Close()

	text, metadata, err := IngestFromURL(context.Background(), server.URL+"/share/abc", nil)
	require.NoError(t, err)

	assert.Contains(t, text, "# Spring Campaign")
	assert.Equal(t, FormatHTML, metadata.Format)
}

func TestIngestFromURL_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL+"/report.csv", nil)
	require.Error(t, err)

	var ingestErr *Error
	require.ErrorAs(t, err, &ingestErr)
	assert.Contains(t, err.Error(), "403")
}
