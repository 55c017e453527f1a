package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_JSONMarshaling(t *testing.T) {
	metadata := &Metadata{
		Source:    "https://example.com/report.csv",
		Format:    FormatCSV,
		Timestamp: "2025-01-01T00:00:00Z",
		Hash:      "abcd1234",
		TableRows: 4,
	}

	jsonBytes, err := metadata.ToJSON()
	require.NoError(t, err)

	var unmarshaled Metadata
	require.NoError(t, json.Unmarshal(jsonBytes, &unmarshaled))
	assert.Equal(t, *metadata, unmarshaled)
	assert.Contains(t, string(jsonBytes), `"table_rows": 4`)
}

func TestFingerprint(t *testing.T) {
	first := Fingerprint("test content")

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, Fingerprint("different content"))
	assert.Equal(t, first, Fingerprint("test content"))
}

func TestNewMetadata(t *testing.T) {
	metadata := NewMetadata("test content", "report.txt")

	assert.Equal(t, "report.txt", metadata.Source)
	assert.True(t, metadata.Matches("test content"))
	assert.False(t, metadata.Matches("test content "))

	_, err := time.Parse(time.RFC3339, metadata.Timestamp)
	assert.NoError(t, err)
}

func TestMetadata_MatchesNil(t *testing.T) {
	var metadata *Metadata
	assert.False(t, metadata.Matches("anything"))
}
