// Package images resolves slide image identifiers against uploaded images and
// prepares bitmaps for embedding.
package images

import "fmt"

// DecodeError represents an image source that could not be turned into bytes
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("image decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
