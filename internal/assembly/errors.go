// Package assembly turns a presentation document and its uploaded images into
// a finished deck artifact.
package assembly

import "fmt"

// MissingContentError is returned when the fixed report style is selected but
// the document carries no report content. No artifact is produced.
type MissingContentError struct {
	Style string
}

func (e *MissingContentError) Error() string {
	return fmt.Sprintf("brand style %q requires fixedTemplateContent, but none was provided", e.Style)
}

// EmptyDeckError is returned when a generic document has no slides to render
type EmptyDeckError struct {
	Message string
}

func (e *EmptyDeckError) Error() string {
	return fmt.Sprintf("empty deck: %s", e.Message)
}

// SerializeError represents a failure to encode the assembled deck
type SerializeError struct {
	Message string
	Cause   error
}

func (e *SerializeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialize error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("serialize error: %s", e.Message)
}

func (e *SerializeError) Unwrap() error {
	return e.Cause
}
