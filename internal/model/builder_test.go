package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/validation"
	"github.com/goliatone/go-caseflow/pkg/visibility/expr"
)

func contestClaimDoc() FormDocument {
	return FormDocument{
		ID:    "contestClaim",
		Scope: "respondent",
		Fields: []FieldDocument{
			{
				ID:       "contestClaim",
				Kind:     "radios",
				Required: true,
				Options: []OptionDocument{
					{Value: "Yes", SubFields: []FieldDocument{
						{ID: "contestClaimReason", Kind: "charactercount", Rules: []string{"required", "maxLength:2500"}},
					}},
					{Value: "No"},
				},
			},
			{ID: "noticeWeeks", Kind: "numeric", Rules: []string{"wholeNumber:0:52"}, ShowWhen: `contestClaim == "No"`},
			{ID: "saveAndContinue", Kind: "button"},
		},
		PrimaryAction:   ActionDocument{Type: "continue"},
		SecondaryAction: ActionDocument{Type: "saveForLater"},
	}
}

func TestBuildResolvesKindsAndRules(t *testing.T) {
	t.Parallel()

	form, err := NewDefault(expr.New()).Build(contestClaimDoc())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if form.Scope != pkgmodel.ScopeRespondent {
		t.Fatalf("scope = %q", form.Scope)
	}

	kinds := []pkgmodel.Kind{}
	for _, f := range form.Fields {
		kinds = append(kinds, f.Kind)
	}
	want := []pkgmodel.Kind{pkgmodel.KindSingleChoice, pkgmodel.KindNumeric, pkgmodel.KindStructural}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	choice := form.Fields[0]
	if diff := cmp.Diff([]string{"required"}, choice.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if got := choice.Validator.Validate("Maybe"); got != validation.KindFormatInvalid {
		t.Fatalf("expected option constraint, got %q", got)
	}
	if got := choice.Validator.Validate(""); got != validation.KindRequired {
		t.Fatalf("expected required first, got %q", got)
	}

	reason, err := form.Lookup("contestClaimReason")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := reason.Validator.Validate(strings.Repeat("x", 2501)); got != validation.KindTooLong {
		t.Fatalf("expected too-long, got %q", got)
	}
	if form.SecondaryAction.Type != pkgmodel.ActionSaveForLater {
		t.Fatalf("secondary action = %q", form.SecondaryAction.Type)
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*FormDocument)
		want   string
	}{
		{"missing id", func(d *FormDocument) { d.ID = "" }, "form id is required"},
		{"no fields", func(d *FormDocument) { d.Fields = nil }, "no fields"},
		{"unknown kind", func(d *FormDocument) { d.Fields[1].Kind = "slider" }, "unknown kind"},
		{"unknown rule", func(d *FormDocument) { d.Fields[1].Rules = []string{"iban"} }, "unknown rule"},
		{"bad show when", func(d *FormDocument) { d.Fields[1].ShowWhen = "contestClaim = 1" }, "showWhen"},
		{"rules on button", func(d *FormDocument) { d.Fields[2].Rules = []string{"required"} }, "structural"},
		{"nested failure", func(d *FormDocument) {
			d.Fields[0].Options[0].SubFields[0].Rules = []string{"maxLength:x"}
		}, `option "Yes"`},
		{"shadowed id", func(d *FormDocument) {
			d.Fields[0].Options[0].SubFields[0].ID = "noticeWeeks"
		}, "shadows a top-level field"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			doc := contestClaimDoc()
			tc.mutate(&doc)
			_, err := NewDefault(expr.New()).Build(doc)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestExclusiveOption(t *testing.T) {
	t.Parallel()

	doc := FormDocument{ID: "benefits", Fields: []FieldDocument{{
		ID:   "benefits",
		Kind: "checkboxes",
		Options: []OptionDocument{
			{Value: "pension"},
			{Value: "carAllowance"},
			{Value: "none", Exclusive: true},
		},
	}}}
	form, err := NewDefault(nil).Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	v := form.Fields[0].Validator
	if got := v.Validate([]string{"pension", "carAllowance"}); got != validation.None {
		t.Fatalf("expected valid, got %q", got)
	}
	if got := v.Validate([]string{"pension", "none"}); got != validation.KindFormatInvalid {
		t.Fatalf("expected format-invalid, got %q", got)
	}
	if got := v.Validate([]string{"none"}); got != validation.None {
		t.Fatalf("expected valid, got %q", got)
	}
}

func TestBuildWithoutOptionConstraint(t *testing.T) {
	t.Parallel()

	doc := FormDocument{ID: "f", Fields: []FieldDocument{{
		ID: "agree", Kind: "radio", Options: []OptionDocument{{Value: "Yes"}, {Value: "No"}},
	}}}
	form, err := New(Options{}).Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if form.Fields[0].Validator != nil {
		t.Fatalf("expected no validator without constraints")
	}
}
