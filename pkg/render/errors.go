package render

import (
	"strings"

	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/status"
)

// ErrorMessage is one translated field error, in engine order.
type ErrorMessage struct {
	FieldID string
	Kind    string
	Message string
}

// ErrorSummary translates engine errors in order. Each message is looked up
// as errors.<fieldId>.<kind>, then errors.<kind>, and finally falls back to
// the kind token itself.
func ErrorSummary(errs engine.Errors, loc Localizer) []ErrorMessage {
	if len(errs) == 0 {
		return nil
	}
	out := make([]ErrorMessage, 0, len(errs))
	for _, fe := range errs {
		kind := string(fe.Kind)
		out = append(out, ErrorMessage{
			FieldID: fe.FieldID,
			Kind:    kind,
			Message: loc.First(kind, "errors."+fe.FieldID+"."+kind, "errors."+kind),
		})
	}
	return out
}

// ErrorMessages keys the translated messages by field id so a screen can
// annotate the failing inputs.
func ErrorMessages(errs engine.Errors, loc Localizer) map[string]string {
	summary := ErrorSummary(errs, loc)
	if len(summary) == 0 {
		return nil
	}
	out := make(map[string]string, len(summary))
	for _, msg := range summary {
		if _, seen := out[msg.FieldID]; !seen {
			out[msg.FieldID] = msg.Message
		}
	}
	return out
}

// FieldLabel resolves a field label: its LabelKey, then fields.<id>.label,
// then a humanised id.
func FieldLabel(field model.Field, loc Localizer) string {
	return loc.First(DefaultLabeler(field.ID), field.LabelKey, "fields."+field.ID+".label")
}

// FieldHint resolves the optional hint text; an empty string means none.
func FieldHint(field model.Field, loc Localizer) string {
	keys := []string{field.HintKey, "fields." + field.ID + ".hint"}
	if loc.Translator == nil {
		return ""
	}
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			continue
		}
		if msg, err := loc.Translator.Translate(loc.Locale, key); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return ""
}

// OptionLabel resolves a choice option label: its LabelKey, then
// fields.<id>.options.<value>, then options.<value>, then the value itself.
func OptionLabel(field model.Field, opt model.Option, loc Localizer) string {
	return loc.First(opt.Value, opt.LabelKey, "fields."+field.ID+".options."+opt.Value, "options."+opt.Value)
}

// ActionLabel resolves a form action label.
func ActionLabel(action model.Action, loc Localizer) string {
	return loc.First(DefaultLabeler(string(action.Type)), action.LabelKey, "actions."+string(action.Type))
}

// StatusLabel resolves the task-list text of a status.
func StatusLabel(s status.Status, loc Localizer) string {
	return loc.First(DefaultLabeler(string(s)), "status."+string(s))
}

// SectionLabel resolves a hub section title.
func SectionLabel(hubID, section string, loc Localizer) string {
	return loc.First(DefaultLabeler(section), "sections."+hubID+"."+section, "sections."+section)
}
