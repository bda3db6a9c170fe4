package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/render"
	"github.com/goliatone/go-caseflow/pkg/validation"
	"github.com/goliatone/go-caseflow/pkg/visibility"
	"github.com/goliatone/go-caseflow/pkg/visibility/expr"
)

// Renderer prompts the fields of a screen in a terminal and collects the
// answers into a raw payload. It does not validate: the payload goes through
// the form engine like any other submission, and a rejected submission is
// prompted again with its error messages.
type Renderer struct {
	driver    PromptDriver
	loc       render.Localizer
	evaluator visibility.Evaluator
	openFile  FileOpener
	theme     Theme
}

// New constructs a renderer with the survey driver and the default
// expression evaluator.
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:    NewSurveyDriver(nil),
		evaluator: expr.New(),
		openFile:  statFile,
		theme:     Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Prompt asks for every field a user would see, following revealed branches
// as options are chosen. Defaults come from state.Values, and state.Errors
// are shown before the field they belong to. stored is consulted for
// showWhen rules that read earlier answers.
func (r *Renderer) Prompt(ctx context.Context, form model.FormDefinition, state render.ScreenState, stored validation.Reader) (engine.Payload, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}

	if state.HasErrors() {
		for _, msg := range state.Summary {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg.Message); err != nil {
				return nil, err
			}
		}
	}

	p := &session{r: r, state: state, stored: stored, out: make(engine.Payload)}
	if err := p.fields(ctx, form.Fields); err != nil {
		return nil, err
	}
	return p.out, nil
}

type session struct {
	r      *Renderer
	state  render.ScreenState
	stored validation.Reader
	out    engine.Payload
}

func (s *session) fields(ctx context.Context, fields []model.Field) error {
	for _, field := range fields {
		if !field.Kind.CarriesValue() {
			continue
		}
		vctx := visibility.Context{Submitted: s.out, Stored: s.stored}
		if !visibility.Active(s.r.evaluator, field, vctx) {
			continue
		}
		if err := s.field(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) field(ctx context.Context, field model.Field) error {
	label := render.FieldLabel(field, s.r.loc)
	help := render.FieldHint(field, s.r.loc)
	if msg, ok := s.state.Errors[field.ID]; ok {
		if err := s.r.driver.Info(ctx, s.r.theme.ErrorPrefix+label+": "+msg); err != nil {
			return err
		}
	}
	current := s.state.Values[field.ID]

	switch field.Kind {
	case model.KindSingleChoice:
		return s.single(ctx, field, label, help, current)
	case model.KindMultiChoice:
		return s.multi(ctx, field, label, help, current)
	case model.KindTextArea:
		answer, err := s.r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: text(current), Help: help})
		if err != nil {
			return err
		}
		s.out[field.ID] = answer
		return nil
	case model.KindFile:
		return s.file(ctx, field, label, help)
	default:
		answer, err := s.r.driver.Input(ctx, InputConfig{Message: label, Default: text(current), Help: help})
		if err != nil {
			return err
		}
		s.out[field.ID] = answer
		return nil
	}
}

func (s *session) single(ctx context.Context, field model.Field, label, help string, current any) error {
	labels := make([]string, 0, len(field.Options)+1)
	offset := 0
	if !requires(field) {
		labels = append(labels, s.r.loc.Text("actions.skip", "Skip"))
		offset = 1
	}
	selected := text(current)
	defaultIndex := -1
	for i, opt := range field.Options {
		labels = append(labels, render.OptionLabel(field, opt, s.r.loc))
		if opt.Value == selected {
			defaultIndex = i + offset
		}
	}

	idx, err := s.r.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: defaultIndex, Help: help})
	if err != nil {
		return err
	}
	idx -= offset
	if idx < 0 || idx >= len(field.Options) {
		return nil
	}
	opt := field.Options[idx]
	s.out[field.ID] = opt.Value
	return s.fields(ctx, opt.SubFields)
}

func (s *session) multi(ctx context.Context, field model.Field, label, help string, current any) error {
	selected := make(map[string]struct{})
	for _, v := range validation.AsStrings(current) {
		selected[v] = struct{}{}
	}
	labels := make([]string, 0, len(field.Options))
	var defaults []int
	for i, opt := range field.Options {
		labels = append(labels, render.OptionLabel(field, opt, s.r.loc))
		if _, ok := selected[opt.Value]; ok {
			defaults = append(defaults, i)
		}
	}

	indices, err := s.r.driver.MultiSelect(ctx, SelectConfig{Message: label, Options: labels, Defaults: defaults, Help: help})
	if err != nil {
		return err
	}
	values := make([]string, 0, len(indices))
	var chosen []model.Option
	for _, idx := range indices {
		if idx < 0 || idx >= len(field.Options) {
			continue
		}
		values = append(values, field.Options[idx].Value)
		chosen = append(chosen, field.Options[idx])
	}
	s.out[field.ID] = values
	for _, opt := range chosen {
		if err := s.fields(ctx, opt.SubFields); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) file(ctx context.Context, field model.Field, label, help string) error {
	for {
		path, err := s.r.driver.Input(ctx, InputConfig{Message: label, Help: help})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		upload, err := s.r.openFile(path)
		if err != nil {
			if infoErr := s.r.driver.Info(ctx, fmt.Sprintf("%scannot read %s: %v", s.r.theme.ErrorPrefix, path, err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		s.out[field.ID] = upload
		return nil
	}
}

func requires(field model.Field) bool {
	for _, rule := range field.Rules {
		if name, _, _ := strings.Cut(strings.TrimSpace(rule), ":"); name == "required" {
			return true
		}
	}
	return false
}

func text(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
