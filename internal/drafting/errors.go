// Package drafting turns cleaned campaign data into a validated presentation
// document by prompting an LLM for the document JSON.
package drafting

import "fmt"

// Error represents a drafting failure at a named stage
type Error struct {
	Stage   string // "prompt", "generate", "validate" or "decode"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("drafting %s failed: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("drafting %s failed: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
