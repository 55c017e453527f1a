package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the closed enumerations and field bounds of the document.
// Content shape is the caller's responsibility; missing optional fields are never errors.
func (d *PresentationDocument) Validate() error {
	if d == nil {
		return fmt.Errorf("presentation document is nil")
	}

	if err := validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid presentation document: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid presentation document: %w", err)
	}

	return nil
}
