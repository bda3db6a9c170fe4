// Package visibility decides whether a field guarded by a showWhen rule is
// active for the current submission.
package visibility

import (
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/validation"
)

// Evaluator determines whether a field is active based on a rule string and
// the values visible to the submission.
type Evaluator interface {
	Eval(fieldID, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Submitted holds the values of the
// submission being processed and always wins over Stored, the case values
// visible to the form's scope. Declared lists the ids owned by the form being
// processed; those never fall back to Stored, so a cleared answer reads as
// absent rather than as its previous value. Extras carries caller supplied
// flags reached through the `extras.` prefix.
type Context struct {
	Submitted map[string]any
	Stored    validation.Reader
	Declared  map[string]struct{}
	Extras    map[string]any
}

// Lookup resolves id against the submission first, then the stored case
// unless the form declares id.
func (c Context) Lookup(id string) (any, bool) {
	if v, ok := c.Submitted[id]; ok {
		return v, true
	}
	if _, owned := c.Declared[id]; owned {
		return nil, false
	}
	if c.Stored != nil {
		return c.Stored.Get(id)
	}
	return nil, false
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldID, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldID, rule string, ctx Context) (bool, error) {
	return fn(fieldID, rule, ctx)
}

// Active reports whether field should be extracted and validated. Fields
// without a rule are always active; a nil evaluator or an evaluation error
// makes a guarded field inactive.
func Active(ev Evaluator, field model.Field, ctx Context) bool {
	if field.ShowWhen == "" {
		return true
	}
	if ev == nil {
		return false
	}
	ok, err := ev.Eval(field.ID, field.ShowWhen, ctx)
	if err != nil {
		return false
	}
	return ok
}
