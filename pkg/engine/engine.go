package engine

import (
	"strings"

	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/validation"
	"github.com/goliatone/go-caseflow/pkg/visibility"
	"github.com/goliatone/go-caseflow/pkg/visibility/expr"
)

// Option customises an Engine.
type Option func(*Engine)

// WithEvaluator replaces the showWhen evaluator. Passing nil makes every
// guarded field inactive.
func WithEvaluator(ev visibility.Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = ev
	}
}

// WithTextSanitizer cleans text and textarea answers after trimming.
func WithTextSanitizer(s Sanitizer) Option {
	return func(e *Engine) {
		e.sanitizer = s
	}
}

// WithExtras exposes caller supplied flags to showWhen rules through the
// `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(e *Engine) {
		e.extras = extras
	}
}

// Engine extracts and validates submissions. It holds no per-request state
// and is safe for concurrent use once built.
type Engine struct {
	evaluator visibility.Evaluator
	sanitizer Sanitizer
	extras    map[string]any
}

// New constructs an Engine using the built-in expression evaluator.
func New(options ...Option) *Engine {
	e := &Engine{evaluator: expr.New()}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Result is the outcome of Process. Exactly one of Update and Errors is
// populated.
type Result struct {
	Update Values
	Errors Errors
}

// OK reports whether the submission was accepted.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Process extracts the active fields of raw and validates them. When any
// field fails, Update is nil and the caller must leave the case untouched.
func (e *Engine) Process(raw Payload, form model.FormDefinition, stored validation.Reader) Result {
	parsed := e.ExtractActiveFields(raw, form, stored)
	if errs := e.ValidateActiveFields(parsed, form, stored); len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Update: parsed}
}

// ExtractActiveFields returns the trimmed values of every active field in raw.
// Stray keys, structural fields and the sub-fields of unselected options are
// dropped. Absent single-value fields are omitted; an absent multi-choice
// field yields an empty list so clearing every box is recorded. raw is never
// modified.
func (e *Engine) ExtractActiveFields(raw Payload, form model.FormDefinition, stored validation.Reader) Values {
	out, _ := e.settle(e.normalise(raw, form), form, stored)
	return out
}

// ValidateActiveFields recomputes the active set from parsed and runs each
// active field's validator, in declaration order with sub-fields following
// their parent. Absent active fields are validated as nil so required rules
// still fire.
func (e *Engine) ValidateActiveFields(parsed Values, form model.FormDefinition, stored validation.Reader) Errors {
	var errs Errors
	reader := layered{top: parsed, bottom: stored}
	_, active := e.settle(parsed, form, stored)
	for _, field := range active {
		if field.Validator == nil {
			continue
		}
		if kind := validation.Run(field.Validator, parsed[field.ID], reader); kind != validation.None {
			errs = append(errs, FieldError{FieldID: field.ID, Kind: kind})
		}
	}
	return errs
}

// ActiveFieldIDs lists the ids that would be extracted for values, in walk
// order.
func (e *Engine) ActiveFieldIDs(values map[string]any, form model.FormDefinition, stored validation.Reader) []string {
	_, active := e.settle(values, form, stored)
	ids := make([]string, 0, len(active))
	for _, field := range active {
		ids = append(ids, field.ID)
	}
	return ids
}

// settle narrows values to the fields that are active when rules read the
// narrowed values themselves. A rule may depend on a field that the same pass
// hides, so passes repeat until the active set stops changing. Settling a
// settled map returns it unchanged. Rules that never agree, such as a field
// hiding the field that hides it, keep the last pass.
func (e *Engine) settle(values map[string]any, form model.FormDefinition, stored validation.Reader) (Values, []model.Field) {
	declared := make(map[string]struct{})
	for _, id := range form.FieldIDs() {
		declared[id] = struct{}{}
	}

	current := Values(values)
	var previous []model.Field
	for pass := 0; pass <= len(declared)+1; pass++ {
		next := make(Values)
		var active []model.Field
		e.walk(form.Fields, current, declared, stored, func(field model.Field) {
			active = append(active, field)
			if value, ok := values[field.ID]; ok {
				next[field.ID] = value
			}
		})
		if pass > 0 && sameFields(previous, active) {
			return next, active
		}
		previous, current = active, next
	}
	return current, previous
}

func sameFields(a, b []model.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// walk visits each active field. A field is active when it carries a value,
// passes its showWhen rule and, for sub-fields, its owning option is among the
// parent's selected values in current.
func (e *Engine) walk(fields []model.Field, current map[string]any, declared map[string]struct{}, stored validation.Reader, visit func(model.Field)) {
	ctx := visibility.Context{Submitted: current, Stored: stored, Declared: declared, Extras: e.extras}
	var descend func(fields []model.Field)
	descend = func(fields []model.Field) {
		for _, field := range fields {
			if !field.Kind.CarriesValue() {
				continue
			}
			if !visibility.Active(e.evaluator, field, ctx) {
				continue
			}
			visit(field)
			if !field.Kind.Choice() || !field.HasBranches() {
				continue
			}
			selected := selections(current[field.ID])
			for _, opt := range field.Options {
				if _, ok := selected[opt.Value]; ok && len(opt.SubFields) > 0 {
					descend(opt.SubFields)
				}
			}
		}
	}
	descend(fields)
}

func selections(value any) map[string]struct{} {
	out := make(map[string]struct{})
	for _, item := range validation.AsStrings(value) {
		if item = strings.TrimSpace(item); item != "" {
			out[item] = struct{}{}
		}
	}
	return out
}

// normalise trims the raw values of every field the form declares, at any
// depth. Undeclared keys are dropped so they cannot influence visibility. A
// multi-choice field missing from raw was cleared and reads as an empty list.
func (e *Engine) normalise(raw Payload, form model.FormDefinition) map[string]any {
	out := make(map[string]any)
	var visit func(fields []model.Field)
	visit = func(fields []model.Field) {
		for _, field := range fields {
			if field.Kind.CarriesValue() {
				if _, done := out[field.ID]; !done {
					if value, ok := raw[field.ID]; ok {
						out[field.ID] = e.coerce(field, value)
					} else if field.Kind == model.KindMultiChoice {
						out[field.ID] = []string{}
					}
				}
			}
			for _, opt := range field.Options {
				visit(opt.SubFields)
			}
		}
	}
	visit(form.Fields)
	return out
}

func (e *Engine) coerce(field model.Field, value any) any {
	switch field.Kind {
	case model.KindMultiChoice:
		items := validation.AsStrings(value)
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	case model.KindFile:
		return value
	}

	text, ok := firstString(value)
	if !ok {
		return value
	}
	text = strings.TrimSpace(text)
	if e.sanitizer != nil && (field.Kind == model.KindText || field.Kind == model.KindTextArea) {
		text = strings.TrimSpace(e.sanitizer.Sanitize(text))
	}
	return text
}

// firstString reads scalar text, taking the first entry when a single-value
// field arrives as a list.
func firstString(value any) (string, bool) {
	if s, ok := validation.AsString(value); ok {
		return s, true
	}
	switch v := value.(type) {
	case []string:
		if len(v) > 0 {
			return v[0], true
		}
		return "", true
	case []any:
		if len(v) > 0 {
			return validation.AsString(v[0])
		}
		return "", true
	}
	return "", false
}
