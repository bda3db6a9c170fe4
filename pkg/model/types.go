package model

import "github.com/goliatone/go-caseflow/pkg/validation"

// Kind is the input kind of a field.
type Kind string

const (
	KindText         Kind = "text"
	KindTextArea     Kind = "textarea"
	KindSingleChoice Kind = "radio"
	KindMultiChoice  Kind = "checkboxes"
	KindNumeric      Kind = "number"
	KindCurrency     Kind = "currency"
	KindFile         Kind = "file"
	// KindStructural marks buttons, headings and hidden markers. Structural
	// fields never carry a value and are skipped by extraction.
	KindStructural Kind = "structural"
)

// Kinds lists every supported field kind.
var Kinds = []Kind{
	KindText,
	KindTextArea,
	KindSingleChoice,
	KindMultiChoice,
	KindNumeric,
	KindCurrency,
	KindFile,
	KindStructural,
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Choice reports whether the kind selects from a list of options.
func (k Kind) Choice() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

// CarriesValue reports whether fields of this kind contribute to the case.
func (k Kind) CarriesValue() bool {
	return k != KindStructural && k != ""
}

// Option is one selectable value of a choice field. SubFields are only active
// while this option is selected.
type Option struct {
	Value     string  `json:"value" yaml:"value"`
	LabelKey  string  `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	HintKey   string  `json:"hintKey,omitempty" yaml:"hintKey,omitempty"`
	Exclusive bool    `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	SubFields []Field `json:"subFields,omitempty" yaml:"subFields,omitempty"`
}

// Field describes one answer on a screen. Validator is optional; a field
// without one accepts any value, including blank. Rules keeps the textual
// rule specs the validator was built from, when it came from a document.
type Field struct {
	ID        string               `json:"id" yaml:"id"`
	Kind      Kind                 `json:"kind" yaml:"kind"`
	Validator validation.Validator `json:"-" yaml:"-"`
	Rules     []string             `json:"rules,omitempty" yaml:"rules,omitempty"`
	Options   []Option             `json:"options,omitempty" yaml:"options,omitempty"`
	// ShowWhen is a visibility expression (see pkg/visibility/expr). A field
	// whose rule evaluates false is inactive.
	ShowWhen string            `json:"showWhen,omitempty" yaml:"showWhen,omitempty"`
	LabelKey string            `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	HintKey  string            `json:"hintKey,omitempty" yaml:"hintKey,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Branch returns the sub-fields revealed by the option with the given value.
func (f Field) Branch(value string) []Field {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.SubFields
		}
	}
	return nil
}

// OptionValues lists the option values in declaration order.
func (f Field) OptionValues() []string {
	out := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		out = append(out, opt.Value)
	}
	return out
}

// HasBranches reports whether any option reveals sub-fields.
func (f Field) HasBranches() bool {
	for _, opt := range f.Options {
		if len(opt.SubFields) > 0 {
			return true
		}
	}
	return false
}

// ActionType identifies what a form action does. Actions have no validation
// role; they only tell the screen logic how the submission should be treated.
type ActionType string

const (
	ActionSubmit       ActionType = "submit"
	ActionSaveForLater ActionType = "saveForLater"
	ActionContinue     ActionType = "continue"
)

// Action is a labelled button offered alongside the form.
type Action struct {
	Type     ActionType `json:"type" yaml:"type"`
	LabelKey string     `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
}

// Scope selects which field bag of the case record a form reads and writes.
type Scope string

const (
	// ScopeCase writes to the top-level case fields.
	ScopeCase Scope = "case"
	// ScopeRespondent writes to the currently selected respondent.
	ScopeRespondent Scope = "respondent"
)

// FormDefinition is an ordered, named collection of fields for one screen.
// Construct it with NewForm so structural invariants are checked and the id
// index is built.
type FormDefinition struct {
	ID              string            `json:"id" yaml:"id"`
	Scope           Scope             `json:"scope,omitempty" yaml:"scope,omitempty"`
	Fields          []Field           `json:"fields" yaml:"fields"`
	PrimaryAction   Action            `json:"primaryAction" yaml:"primaryAction"`
	SecondaryAction Action            `json:"secondaryAction,omitempty" yaml:"secondaryAction,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	index map[string]Field
}
