package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/campaign-deck/internal/assembly"
	"github.com/jonathan/campaign-deck/internal/delivery"
	"github.com/jonathan/campaign-deck/internal/drafting"
	"github.com/jonathan/campaign-deck/internal/fetch"
	"github.com/jonathan/campaign-deck/internal/ingestion"
	"github.com/jonathan/campaign-deck/internal/schemas"
)

// RequestError indicates a malformed or incomplete request
type RequestError struct {
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bad request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// UnavailableError indicates a feature the server was started without
type UnavailableError struct {
	Feature string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// FieldError is one failing field of a rejected document
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		tooLarge    *http.MaxBytesError
		reqErr      *RequestError
		unavailable *UnavailableError
		validation  *schemas.ValidationError
		missing     *assembly.MissingContentError
		empty       *assembly.EmptyDeckError
		draftErr    *drafting.Error
		ingestErr   *ingestion.Error
		fetchErr    *fetch.Error
		deliveryErr *delivery.Error
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &validation), errors.As(err, &missing), errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	case errors.As(err, &draftErr):
		switch draftErr.Stage {
		case "generate", "validate", "decode":
			// the model answered badly, or not at all
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.As(err, &ingestErr):
		return http.StatusBadRequest
	case errors.As(err, &deliveryErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the error text safe to return to a client. Internal
// failures are not described.
func PublicMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	var validation *schemas.ValidationError
	if errors.As(err, &validation) {
		return "document failed schema validation"
	}
	return err.Error()
}

// FieldErrors lists the schema failures carried by err, if any
func FieldErrors(err error) []FieldError {
	var validation *schemas.ValidationError
	if !errors.As(err, &validation) {
		return nil
	}
	out := make([]FieldError, 0, len(validation.Errors))
	for _, fe := range validation.Errors {
		out = append(out, FieldError{Field: fe.Field, Message: fe.Message})
	}
	return out
}
