// Package delivery hands finished decks to their destination: a download
// directory, an HTTP response or an object store bucket.
package delivery

import "fmt"

// Error represents a failed delivery. Delivery failures are fatal to the request.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("delivery error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("delivery error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
