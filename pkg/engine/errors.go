package engine

import (
	"fmt"

	"github.com/goliatone/go-caseflow/pkg/validation"
)

// FieldError pairs a field id with the first validation failure it produced.
type FieldError struct {
	FieldID string               `json:"fieldId"`
	Kind    validation.ErrorKind `json:"errorKind"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldID, e.Kind)
}

// Errors is an ordered list of field errors.
type Errors []FieldError

// ByField indexes the errors by field id.
func (e Errors) ByField() map[string]validation.ErrorKind {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string]validation.ErrorKind, len(e))
	for _, fe := range e {
		if _, seen := out[fe.FieldID]; !seen {
			out[fe.FieldID] = fe.Kind
		}
	}
	return out
}

// Has reports whether id failed validation.
func (e Errors) Has(id string) bool {
	for _, fe := range e {
		if fe.FieldID == id {
			return true
		}
	}
	return false
}
