package render

import (
	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/validation"
)

// ScreenState is what a presentation layer needs to draw, or redraw, a
// screen. After a rejected submission Values holds the raw payload so users
// see exactly what they typed; otherwise it is prefilled from the case.
type ScreenState struct {
	FormID  string
	Values  engine.Payload
	Errors  map[string]string
	Summary []ErrorMessage
	Hidden  []HiddenField
}

// HasErrors reports whether the screen is being redisplayed after a
// rejected submission.
func (s ScreenState) HasErrors() bool { return len(s.Summary) > 0 }

// NewScreenState builds the redisplay state for a rejected submission.
func NewScreenState(form model.FormDefinition, raw engine.Payload, errs engine.Errors, loc Localizer, hidden ...HiddenField) ScreenState {
	return ScreenState{
		FormID:  form.ID,
		Values:  raw.Clone(),
		Errors:  ErrorMessages(errs, loc),
		Summary: ErrorSummary(errs, loc),
		Hidden:  SortedHiddenFields(MergeHiddenFields(nil, hidden...)),
	}
}

// Prefill builds the initial state of a screen from the stored case.
func Prefill(form model.FormDefinition, stored validation.Reader, hidden ...HiddenField) ScreenState {
	values := make(engine.Payload)
	if stored != nil {
		for _, id := range form.FieldIDs() {
			if v, ok := stored.Get(id); ok {
				values[id] = v
			}
		}
	}
	return ScreenState{
		FormID: form.ID,
		Values: values.Clone(),
		Hidden: SortedHiddenFields(MergeHiddenFields(nil, hidden...)),
	}
}
