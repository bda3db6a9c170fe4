package model

import "github.com/goliatone/go-caseflow/pkg/validation"

// Text declares a single-line text field.
func Text(id string, validators ...validation.Validator) Field {
	return Field{ID: id, Kind: KindText, Validator: validation.Chain(validators...)}
}

// TextArea declares a multi-line text field, usually with a character count.
func TextArea(id string, validators ...validation.Validator) Field {
	return Field{ID: id, Kind: KindTextArea, Validator: validation.Chain(validators...)}
}

// Radio declares a single-choice field.
func Radio(id string, options []Option, validators ...validation.Validator) Field {
	return Field{ID: id, Kind: KindSingleChoice, Options: options, Validator: validation.Chain(validators...)}
}

// Checkboxes declares a multi-choice field.
func Checkboxes(id string, options []Option, validators ...validation.Validator) Field {
	return Field{ID: id, Kind: KindMultiChoice, Options: options, Validator: validation.Chain(validators...)}
}

// Number declares a numeric field.
func Number(id string, validators ...validation.Validator) Field {
	return Field{ID: id, Kind: KindNumeric, Validator: validation.Chain(validators...)}
}

// Currency declares a money field.
func Currency(id string, validators ...validation.Validator) Field {
	return Field{ID: id, Kind: KindCurrency, Validator: validation.Chain(validators...)}
}

// File declares a file upload field.
func File(id string, validators ...validation.Validator) Field {
	return Field{ID: id, Kind: KindFile, Validator: validation.Chain(validators...)}
}

// Structural declares a value-less element such as a button or marker.
func Structural(id string) Field {
	return Field{ID: id, Kind: KindStructural}
}

// Opt declares a choice option, optionally revealing sub-fields.
func Opt(value string, subFields ...Field) Option {
	return Option{Value: value, SubFields: subFields}
}

// WithShowWhen returns a copy of f guarded by a visibility expression.
func (f Field) WithShowWhen(expr string) Field {
	f.ShowWhen = expr
	return f
}

// WithLabel returns a copy of f with its label and hint keys set.
func (f Field) WithLabel(labelKey, hintKey string) Field {
	f.LabelKey = labelKey
	f.HintKey = hintKey
	return f
}
