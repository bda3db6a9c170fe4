package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned by Lookup for ids the form does not declare.
var ErrUnknownField = errors.New("model: unknown field")

var (
	errFormIDMissing  = errors.New("model: form id is required")
	errFieldIDMissing = errors.New("model: field id is required")
)

// NewForm validates the structure of a definition and builds its id index.
// Top-level ids must be unique; sub-field ids must be unique within their
// branch and may not shadow a top-level id or an id on the path above them.
// Branches of a multi-choice field can be active together, so their ids must
// be unique across every option of that field.
func NewForm(def FormDefinition) (FormDefinition, error) {
	def.ID = strings.TrimSpace(def.ID)
	if def.ID == "" {
		return FormDefinition{}, errFormIDMissing
	}
	switch def.Scope {
	case "":
		def.Scope = ScopeCase
	case ScopeCase, ScopeRespondent:
	default:
		return FormDefinition{}, fmt.Errorf("model: form %q: unknown scope %q", def.ID, def.Scope)
	}
	if def.PrimaryAction.Type == "" {
		def.PrimaryAction.Type = ActionContinue
	}

	topLevel := make(map[string]struct{}, len(def.Fields))
	for _, field := range def.Fields {
		if field.ID == "" {
			return FormDefinition{}, fmt.Errorf("model: form %q: %w", def.ID, errFieldIDMissing)
		}
		if _, dup := topLevel[field.ID]; dup {
			return FormDefinition{}, fmt.Errorf("model: form %q: duplicate field id %q", def.ID, field.ID)
		}
		topLevel[field.ID] = struct{}{}
	}

	index := make(map[string]Field)
	for _, field := range def.Fields {
		if err := checkField(field, topLevel, nil, index); err != nil {
			return FormDefinition{}, fmt.Errorf("model: form %q: %w", def.ID, err)
		}
	}
	def.index = index
	return def, nil
}

// MustForm is NewForm for package-level fixtures; it panics on error.
func MustForm(def FormDefinition) FormDefinition {
	form, err := NewForm(def)
	if err != nil {
		panic(err)
	}
	return form
}

func checkField(field Field, topLevel map[string]struct{}, path []string, index map[string]Field) error {
	if field.ID == "" {
		return errFieldIDMissing
	}
	if !field.Kind.Valid() {
		return fmt.Errorf("field %q: unknown kind %q", field.ID, field.Kind)
	}
	if field.Kind.Choice() && len(field.Options) == 0 {
		return fmt.Errorf("field %q: %s field requires options", field.ID, field.Kind)
	}
	if !field.Kind.Choice() && len(field.Options) > 0 {
		return fmt.Errorf("field %q: options are only allowed on choice fields", field.ID)
	}
	if _, seen := index[field.ID]; !seen {
		index[field.ID] = field
	}

	values := make(map[string]struct{}, len(field.Options))
	shared := make(map[string]struct{})
	nextPath := append(append([]string(nil), path...), field.ID)
	for _, opt := range field.Options {
		if opt.Value == "" {
			return fmt.Errorf("field %q: option value is required", field.ID)
		}
		if _, dup := values[opt.Value]; dup {
			return fmt.Errorf("field %q: duplicate option %q", field.ID, opt.Value)
		}
		values[opt.Value] = struct{}{}

		branch := make(map[string]struct{}, len(opt.SubFields))
		for _, sub := range opt.SubFields {
			if sub.ID == "" {
				return fmt.Errorf("field %q option %q: %w", field.ID, opt.Value, errFieldIDMissing)
			}
			if _, dup := branch[sub.ID]; dup {
				return fmt.Errorf("field %q option %q: duplicate sub-field id %q", field.ID, opt.Value, sub.ID)
			}
			branch[sub.ID] = struct{}{}
			if _, clash := topLevel[sub.ID]; clash {
				return fmt.Errorf("field %q option %q: sub-field %q shadows a top-level field", field.ID, opt.Value, sub.ID)
			}
			for _, ancestor := range nextPath {
				if ancestor == sub.ID {
					return fmt.Errorf("field %q option %q: sub-field %q shadows an enclosing field", field.ID, opt.Value, sub.ID)
				}
			}
			if field.Kind == KindMultiChoice {
				if _, dup := shared[sub.ID]; dup {
					return fmt.Errorf("field %q: sub-field %q appears under more than one option", field.ID, sub.ID)
				}
				shared[sub.ID] = struct{}{}
			}
			if err := checkField(sub, topLevel, nextPath, index); err != nil {
				return err
			}
		}
	}
	return nil
}

// Lookup returns the field with the given id, searching nested branches too.
// Unknown ids return an error wrapping ErrUnknownField.
func (f FormDefinition) Lookup(id string) (Field, error) {
	if f.index != nil {
		if field, ok := f.index[id]; ok {
			return field, nil
		}
		return Field{}, fmt.Errorf("%w %q in form %q", ErrUnknownField, id, f.ID)
	}
	if field, ok := findField(f.Fields, id); ok {
		return field, nil
	}
	return Field{}, fmt.Errorf("%w %q in form %q", ErrUnknownField, id, f.ID)
}

func findField(fields []Field, id string) (Field, bool) {
	for _, field := range fields {
		if field.ID == id {
			return field, true
		}
		for _, opt := range field.Options {
			if found, ok := findField(opt.SubFields, id); ok {
				return found, true
			}
		}
	}
	return Field{}, false
}

// FieldIDs lists every id the form can write, top-level first then nested,
// in declaration order.
func (f FormDefinition) FieldIDs() []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(fields []Field)
	walk = func(fields []Field) {
		for _, field := range fields {
			if !field.Kind.CarriesValue() {
				continue
			}
			if _, ok := seen[field.ID]; !ok {
				seen[field.ID] = struct{}{}
				out = append(out, field.ID)
			}
		}
		for _, field := range fields {
			for _, opt := range field.Options {
				walk(opt.SubFields)
			}
		}
	}
	walk(f.Fields)
	return out
}
