// Package ingestion turns pasted campaign reports and spreadsheet or HTML
// exports into normalised text for drafting.
package ingestion

import "fmt"

// Error represents an error while ingesting a campaign data source
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingestion error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingestion error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
