package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/validation"
)

func agreeForm(t *testing.T) model.FormDefinition {
	t.Helper()
	form, err := model.NewForm(model.FormDefinition{
		ID: "agreement",
		Fields: []model.Field{
			model.Radio("agree", []model.Option{
				model.Opt("Yes", model.TextArea("reason", validation.Required)),
				model.Opt("No"),
			}),
			model.Structural("continue"),
		},
	})
	if err != nil {
		t.Fatalf("NewForm: %v", err)
	}
	return form
}

func TestNewFormDefaults(t *testing.T) {
	t.Parallel()

	form := agreeForm(t)
	if form.Scope != model.ScopeCase {
		t.Fatalf("expected case scope by default, got %q", form.Scope)
	}
	if form.PrimaryAction.Type != model.ActionContinue {
		t.Fatalf("expected continue action by default, got %q", form.PrimaryAction.Type)
	}
	if diff := cmp.Diff([]string{"agree", "reason"}, form.FieldIDs()); diff != "" {
		t.Fatalf("field ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	form := agreeForm(t)

	field, err := form.Lookup("reason")
	if err != nil {
		t.Fatalf("Lookup(reason): %v", err)
	}
	if field.Kind != model.KindTextArea {
		t.Fatalf("expected textarea, got %q", field.Kind)
	}

	_, err = form.Lookup("missing")
	if !errors.Is(err, model.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	// literal definitions without NewForm still resolve
	raw := model.FormDefinition{ID: "raw", Fields: []model.Field{model.Text("name")}}
	if _, err := raw.Lookup("name"); err != nil {
		t.Fatalf("Lookup on unindexed form: %v", err)
	}
}

func TestNewFormRejectsBadStructure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  model.FormDefinition
		want string
	}{
		{
			name: "missing id",
			def:  model.FormDefinition{Fields: []model.Field{model.Text("a")}},
			want: "form id is required",
		},
		{
			name: "duplicate top level",
			def:  model.FormDefinition{ID: "f", Fields: []model.Field{model.Text("a"), model.Text("a")}},
			want: "duplicate field id",
		},
		{
			name: "choice without options",
			def:  model.FormDefinition{ID: "f", Fields: []model.Field{{ID: "a", Kind: model.KindSingleChoice}}},
			want: "requires options",
		},
		{
			name: "options on text",
			def: model.FormDefinition{ID: "f", Fields: []model.Field{
				{ID: "a", Kind: model.KindText, Options: []model.Option{model.Opt("x")}},
			}},
			want: "only allowed on choice",
		},
		{
			name: "sub-field shadows top level",
			def: model.FormDefinition{ID: "f", Fields: []model.Field{
				model.Text("reason"),
				model.Radio("agree", []model.Option{model.Opt("Yes", model.Text("reason"))}),
			}},
			want: "shadows a top-level field",
		},
		{
			name: "duplicate option",
			def: model.FormDefinition{ID: "f", Fields: []model.Field{
				model.Radio("agree", []model.Option{model.Opt("Yes"), model.Opt("Yes")}),
			}},
			want: "duplicate option",
		},
		{
			name: "multi choice shared sub-field",
			def: model.FormDefinition{ID: "f", Fields: []model.Field{
				model.Checkboxes("pay", []model.Option{
					model.Opt("weekly", model.Currency("amount")),
					model.Opt("monthly", model.Currency("amount")),
				}),
			}},
			want: "more than one option",
		},
		{
			name: "unknown kind",
			def:  model.FormDefinition{ID: "f", Fields: []model.Field{{ID: "a", Kind: "slider"}}},
			want: "unknown kind",
		},
		{
			name: "unknown scope",
			def:  model.FormDefinition{ID: "f", Scope: "claimant", Fields: []model.Field{model.Text("a")}},
			want: "unknown scope",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.NewForm(tc.def)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestSingleChoiceBranchesMayReuseIDs(t *testing.T) {
	t.Parallel()

	_, err := model.NewForm(model.FormDefinition{ID: "f", Fields: []model.Field{
		model.Radio("contact", []model.Option{
			model.Opt("Email", model.Text("detail", validation.Email)),
			model.Opt("Phone", model.Text("detail", validation.PhoneNumber)),
		}),
	}})
	if err != nil {
		t.Fatalf("expected sibling branches of a radio to share ids, got %v", err)
	}
}

func TestFieldBranch(t *testing.T) {
	t.Parallel()

	field := agreeForm(t).Fields[0]
	if got := len(field.Branch("Yes")); got != 1 {
		t.Fatalf("expected one sub-field for Yes, got %d", got)
	}
	if got := field.Branch("No"); got != nil {
		t.Fatalf("expected no sub-fields for No, got %v", got)
	}
	if diff := cmp.Diff([]string{"Yes", "No"}, field.OptionValues()); diff != "" {
		t.Fatalf("option values mismatch (-want +got):\n%s", diff)
	}
	if !field.HasBranches() {
		t.Fatalf("expected HasBranches")
	}
}
