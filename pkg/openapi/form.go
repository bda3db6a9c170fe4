package openapi

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	formdoc "github.com/goliatone/go-caseflow/internal/model"
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/visibility/expr"
)

// Property extensions understood by the converter.
const (
	// ExtensionOrder positions a property; lower values come first and
	// unordered properties follow alphabetically.
	ExtensionOrder = "x-order"
	// ExtensionKind overrides the inferred field kind, e.g. "textarea".
	ExtensionKind = "x-caseflow-kind"
	// ExtensionShowWhen attaches a visibility rule.
	ExtensionShowWhen = "x-caseflow-show-when"
	// ExtensionRules appends validation rule specs.
	ExtensionRules = "x-caseflow-rules"
)

// Option configures form conversion.
type Option func(*converter)

// WithBuilder overrides the form builder.
func WithBuilder(b *formdoc.Builder) Option {
	return func(c *converter) {
		if b != nil {
			c.builder = b
		}
	}
}

// WithScope sets the scope of the generated form.
func WithScope(scope model.Scope) Option {
	return func(c *converter) {
		c.scope = scope
	}
}

// WithFormID overrides the form id, which otherwise is the operation id.
func WithFormID(id string) Option {
	return func(c *converter) {
		c.formID = id
	}
}

type converter struct {
	builder *formdoc.Builder
	scope   model.Scope
	formID  string
}

// Form converts the request body of the operation into a form definition.
// The body must be an object schema; nested objects are rejected.
func (d *Document) Form(operationID string, options ...Option) (model.FormDefinition, error) {
	op, err := d.Operation(operationID)
	if err != nil {
		return model.FormDefinition{}, err
	}
	c := &converter{builder: formdoc.NewDefault(expr.New())}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}

	doc, err := c.document(op)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("openapi: operation %q: %w", op.ID, err)
	}
	form, err := c.builder.Build(doc)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("openapi: operation %q: %w", op.ID, err)
	}
	return form, nil
}

func (c *converter) document(op Operation) (formdoc.FormDocument, error) {
	schema := op.body.Value
	if schema == nil {
		return formdoc.FormDocument{}, fmt.Errorf("unresolved request body %s", op.body.Ref)
	}
	if t := schemaType(schema); t != "" && t != openapi3.TypeObject {
		return formdoc.FormDocument{}, fmt.Errorf("request body must be an object, got %s", t)
	}

	id := c.formID
	if id == "" {
		id = op.ID
	}
	doc := formdoc.FormDocument{
		ID:            id,
		Scope:         string(c.scope),
		PrimaryAction: formdoc.ActionDocument{Type: string(model.ActionContinue)},
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	for _, name := range orderedProperties(schema.Properties) {
		field, err := convertProperty(name, schema.Properties[name], required[name])
		if err != nil {
			return formdoc.FormDocument{}, err
		}
		doc.Fields = append(doc.Fields, field)
	}
	return doc, nil
}

func convertProperty(name string, ref *openapi3.SchemaRef, required bool) (formdoc.FieldDocument, error) {
	if ref == nil || ref.Value == nil {
		return formdoc.FieldDocument{}, fmt.Errorf("property %q: unresolved schema", name)
	}
	s := ref.Value
	field := formdoc.FieldDocument{
		ID:       name,
		Required: required,
		ShowWhen: extensionString(s.Extensions, ExtensionShowWhen),
	}
	if s.Description != "" {
		field.Metadata = map[string]string{"description": s.Description}
	}

	switch t := schemaType(s); {
	case t == openapi3.TypeArray:
		if s.Items == nil || s.Items.Value == nil || len(s.Items.Value.Enum) == 0 {
			return formdoc.FieldDocument{}, fmt.Errorf("property %q: arrays must enumerate their items", name)
		}
		field.Kind = string(model.KindMultiChoice)
		field.Options = enumOptions(s.Items.Value.Enum)
	case len(s.Enum) > 0:
		field.Kind = string(model.KindSingleChoice)
		field.Options = enumOptions(s.Enum)
	case t == openapi3.TypeBoolean:
		field.Kind = string(model.KindSingleChoice)
		field.Options = []formdoc.OptionDocument{{Value: "true"}, {Value: "false"}}
	case t == openapi3.TypeInteger:
		field.Kind = string(model.KindNumeric)
		field.Rules = append(field.Rules, boundedRule("wholeNumber", s.Min, s.Max))
	case t == openapi3.TypeNumber:
		if s.Format == "currency" {
			field.Kind = string(model.KindCurrency)
			field.Rules = append(field.Rules, boundedRule("currency", s.Min, s.Max))
		} else {
			field.Kind = string(model.KindNumeric)
			field.Rules = append(field.Rules, boundedRule("number", s.Min, s.Max))
		}
	case t == openapi3.TypeString || t == "":
		field.Kind = string(model.KindText)
		field.Rules = append(field.Rules, stringRules(s)...)
		if s.Format == "binary" {
			field.Kind = string(model.KindFile)
			field.Rules = nil
		}
	default:
		return formdoc.FieldDocument{}, fmt.Errorf("property %q: unsupported type %s", name, t)
	}

	if kind := extensionString(s.Extensions, ExtensionKind); kind != "" {
		field.Kind = kind
	}
	field.Rules = append(field.Rules, extensionStrings(s.Extensions, ExtensionRules)...)
	return field, nil
}

func stringRules(s *openapi3.Schema) []string {
	var rules []string
	switch s.Format {
	case "email":
		rules = append(rules, "email")
	case "date":
		rules = append(rules, "date")
	}
	if s.MaxLength != nil && *s.MaxLength > 0 {
		rules = append(rules, "maxLength:"+strconv.FormatUint(*s.MaxLength, 10))
	}
	if s.Pattern != "" {
		rules = append(rules, "pattern:"+s.Pattern)
	}
	return rules
}

func boundedRule(name string, min, max *float64) string {
	if min == nil && max == nil {
		return name
	}
	return name + ":" + formatBound(min) + ":" + formatBound(max)
}

func formatBound(v *float64) string {
	if v == nil || math.IsInf(*v, 0) {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func enumOptions(values []any) []formdoc.OptionDocument {
	out := make([]formdoc.OptionDocument, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		out = append(out, formdoc.OptionDocument{Value: fmt.Sprint(v)})
	}
	return out
}

func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) (float64, bool) {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return 0, false
		}
		return extensionNumber(ref.Value.Extensions, ExtensionOrder)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, hasI := order(names[i])
		oj, hasJ := order(names[j])
		switch {
		case hasI && hasJ && oi != oj:
			return oi < oj
		case hasI != hasJ:
			return hasI
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func schemaType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	values := s.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func extensionString(ext map[string]any, key string) string {
	if v, ok := ext[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func extensionStrings(ext map[string]any, key string) []string {
	switch v := ext[key].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

func extensionNumber(ext map[string]any, key string) (float64, bool) {
	switch v := ext[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
