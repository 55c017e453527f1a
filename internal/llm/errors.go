package llm

import "fmt"

// GenerationError is returned when a model call fails or yields no text
type GenerationError struct {
	Tier    ModelTier
	Model   string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	model := e.Model
	if model == "" {
		model = string(e.Tier)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", model, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", model, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
