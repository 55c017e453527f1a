// Package rendering maps slide content records onto positioned slide elements
// for each brand scheme.
package rendering

import "fmt"

// RenderError represents a slide that could not be rendered from its content
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// UnknownKindError is returned for slide records whose type has no renderer
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown slide type %q", e.Kind)
}
