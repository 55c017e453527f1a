package pptx

import "fmt"

// EncodeError represents a deck that could not be written as a package
type EncodeError struct {
	Message string
	Cause   error
}

func (e *EncodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("encode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("encode error: %s", e.Message)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}
