package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata records where campaign text came from and a fingerprint of the
// cleaned result, so two ingests of the same export can be compared.
type Metadata struct {
	Source    string `json:"source,omitempty"`
	Format    Format `json:"format,omitempty"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	TableRows int    `json:"table_rows,omitempty"`
}

// NewMetadata stamps cleaned text from source with the current UTC time
func NewMetadata(cleaned, source string) *Metadata {
	return &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      Fingerprint(cleaned),
	}
}

// Fingerprint is the hex SHA-256 of text
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether cleaned hashes to the recorded fingerprint
func (m *Metadata) Matches(cleaned string) bool {
	return m != nil && m.Hash == Fingerprint(cleaned)
}

// ToJSON renders the metadata as indented JSON for campaign.meta.json
func (m *Metadata) ToJSON() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode source metadata: %w", err)
	}
	return out, nil
}
