package model

import (
	"fmt"
	"strings"

	pkgmodel "github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/validation"
)

// Builder converts screen form documents into form definitions, resolving
// textual rules into validators.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Registry != nil {
		opts.Registry = options.Registry
	}
	opts.Rules = options.Rules
	opts.ConstrainOptions = options.ConstrainOptions
	return &Builder{opts: opts}
}

// NewDefault creates a Builder with the default registry and option
// constraints enabled.
func NewDefault(rules RuleChecker) *Builder {
	opts := defaultOptions()
	opts.Rules = rules
	return &Builder{opts: opts}
}

// Build transforms a document into a validated, immutable FormDefinition.
func (b *Builder) Build(doc FormDocument) (pkgmodel.FormDefinition, error) {
	if err := validateDocument(doc); err != nil {
		return pkgmodel.FormDefinition{}, err
	}

	def := pkgmodel.FormDefinition{
		ID:              strings.TrimSpace(doc.ID),
		Scope:           pkgmodel.Scope(strings.TrimSpace(doc.Scope)),
		PrimaryAction:   action(doc.PrimaryAction),
		SecondaryAction: action(doc.SecondaryAction),
		Metadata:        cloneStrings(doc.Metadata),
	}

	fields, err := b.fields(doc.Fields)
	if err != nil {
		return pkgmodel.FormDefinition{}, fmt.Errorf("model builder: form %q: %w", def.ID, err)
	}
	def.Fields = fields

	return pkgmodel.NewForm(def)
}

func (b *Builder) fields(docs []FieldDocument) ([]pkgmodel.Field, error) {
	out := make([]pkgmodel.Field, 0, len(docs))
	for _, doc := range docs {
		field, err := b.field(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, field)
	}
	return out, nil
}

func (b *Builder) field(doc FieldDocument) (pkgmodel.Field, error) {
	id := strings.TrimSpace(doc.ID)
	kind, err := resolveKind(doc.Kind)
	if err != nil {
		return pkgmodel.Field{}, fmt.Errorf("field %q: %w", id, err)
	}

	field := pkgmodel.Field{
		ID:       id,
		Kind:     kind,
		ShowWhen: strings.TrimSpace(doc.ShowWhen),
		LabelKey: doc.LabelKey,
		HintKey:  doc.HintKey,
		Metadata: cloneStrings(doc.Metadata),
	}

	if field.ShowWhen != "" && b.opts.Rules != nil {
		if err := b.opts.Rules.Check(field.ShowWhen); err != nil {
			return pkgmodel.Field{}, fmt.Errorf("field %q: showWhen: %w", id, err)
		}
	}

	for _, optDoc := range doc.Options {
		sub, err := b.fields(optDoc.SubFields)
		if err != nil {
			return pkgmodel.Field{}, fmt.Errorf("field %q option %q: %w", id, optDoc.Value, err)
		}
		if len(sub) == 0 {
			sub = nil
		}
		field.Options = append(field.Options, pkgmodel.Option{
			Value:     strings.TrimSpace(optDoc.Value),
			LabelKey:  optDoc.LabelKey,
			HintKey:   optDoc.HintKey,
			Exclusive: optDoc.Exclusive,
			SubFields: sub,
		})
	}

	rules := rulesFor(doc)
	if kind == pkgmodel.KindStructural && len(rules) > 0 {
		return pkgmodel.Field{}, fmt.Errorf("field %q: structural fields cannot carry rules", id)
	}
	validator, err := b.opts.Registry.ParseAll(rules)
	if err != nil {
		return pkgmodel.Field{}, fmt.Errorf("field %q: %w", id, err)
	}
	field.Rules = rules
	field.Validator = validator
	if kind.Choice() && b.opts.ConstrainOptions && !hasRule(rules, "oneOf") && len(field.Options) > 0 {
		field.Validator = validation.Chain(validator, validation.OneOf(field.OptionValues()...))
	}
	if kind == pkgmodel.KindMultiChoice {
		field.Validator = validation.Chain(field.Validator, exclusiveCheck(field.Options))
	}
	return field, nil
}

func rulesFor(doc FieldDocument) []string {
	var rules []string
	if doc.Required && !hasRule(doc.Rules, "required") {
		rules = append(rules, "required")
	}
	for _, rule := range doc.Rules {
		if rule = strings.TrimSpace(rule); rule != "" {
			rules = append(rules, rule)
		}
	}
	return rules
}

// exclusiveCheck rejects a multi-choice answer that combines an exclusive
// option (such as "none of these") with any other option. It returns nil
// when the field has no exclusive option.
func exclusiveCheck(options []pkgmodel.Option) validation.Validator {
	exclusive := make(map[string]struct{})
	for _, opt := range options {
		if opt.Exclusive {
			exclusive[opt.Value] = struct{}{}
		}
	}
	if len(exclusive) == 0 {
		return nil
	}
	return validation.Func(func(value any) validation.ErrorKind {
		selected := validation.AsStrings(value)
		if len(selected) < 2 {
			return validation.None
		}
		for _, item := range selected {
			if _, ok := exclusive[item]; ok {
				return validation.KindFormatInvalid
			}
		}
		return validation.None
	})
}

func hasRule(rules []string, name string) bool {
	for _, rule := range rules {
		head, _, _ := strings.Cut(strings.TrimSpace(rule), ":")
		if head == name {
			return true
		}
	}
	return false
}

func action(doc ActionDocument) pkgmodel.Action {
	return pkgmodel.Action{
		Type:     pkgmodel.ActionType(strings.TrimSpace(doc.Type)),
		LabelKey: doc.LabelKey,
	}
}

func cloneStrings(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
