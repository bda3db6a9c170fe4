package model

// FormDocument is the on-disk shape of a screen form, as written in YAML or
// JSON screen files.
type FormDocument struct {
	ID              string            `json:"id" yaml:"id"`
	Scope           string            `json:"scope,omitempty" yaml:"scope,omitempty"`
	Fields          []FieldDocument   `json:"fields" yaml:"fields"`
	PrimaryAction   ActionDocument    `json:"primaryAction,omitempty" yaml:"primaryAction,omitempty"`
	SecondaryAction ActionDocument    `json:"secondaryAction,omitempty" yaml:"secondaryAction,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FieldDocument declares one field. Required is shorthand for a leading
// "required" rule.
type FieldDocument struct {
	ID       string            `json:"id" yaml:"id"`
	Kind     string            `json:"kind" yaml:"kind"`
	Required bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Rules    []string          `json:"rules,omitempty" yaml:"rules,omitempty"`
	ShowWhen string            `json:"showWhen,omitempty" yaml:"showWhen,omitempty"`
	LabelKey string            `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	HintKey  string            `json:"hintKey,omitempty" yaml:"hintKey,omitempty"`
	Options  []OptionDocument  `json:"options,omitempty" yaml:"options,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OptionDocument declares a choice option and the fields it reveals.
type OptionDocument struct {
	Value     string          `json:"value" yaml:"value"`
	LabelKey  string          `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	HintKey   string          `json:"hintKey,omitempty" yaml:"hintKey,omitempty"`
	Exclusive bool            `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
	SubFields []FieldDocument `json:"subFields,omitempty" yaml:"subFields,omitempty"`
}

// ActionDocument declares a form button.
type ActionDocument struct {
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	LabelKey string `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
}
