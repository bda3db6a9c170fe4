package render_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/render"
	"github.com/goliatone/go-caseflow/pkg/status"
	"github.com/goliatone/go-caseflow/pkg/validation"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestErrorMessagesFallbackChain(t *testing.T) {
	t.Parallel()

	loc := render.Localizer{Translator: stubTranslator{
		"errors.email.format-invalid": "Enter a valid email",
		"errors.required":             "This is required",
	}}
	errs := engine.Errors{
		{FieldID: "email", Kind: validation.KindFormatInvalid},
		{FieldID: "name", Kind: validation.KindRequired},
		{FieldID: "pay", Kind: validation.KindTooHigh},
	}

	want := map[string]string{
		"email": "Enter a valid email",
		"name":  "This is required",
		"pay":   "too-high",
	}
	if diff := cmp.Diff(want, render.ErrorMessages(errs, loc)); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	summary := render.ErrorSummary(errs, loc)
	if len(summary) != 3 || summary[0].FieldID != "email" || summary[2].Kind != "too-high" {
		t.Fatalf("unexpected summary order: %+v", summary)
	}
	if render.ErrorMessages(nil, loc) != nil {
		t.Fatalf("expected nil messages for no errors")
	}
}

func TestLabelsFallBackToHumanisedIDs(t *testing.T) {
	t.Parallel()

	loc := render.Localizer{Locale: "cy"}
	field := model.Radio("typeOfClaim", []model.Option{model.Opt("Yes")})

	if got := render.FieldLabel(field, loc); got != "Type of claim" {
		t.Fatalf("label = %q", got)
	}
	if got := render.OptionLabel(field, field.Options[0], loc); got != "Yes" {
		t.Fatalf("option label = %q", got)
	}
	if got := render.FieldHint(field, loc); got != "" {
		t.Fatalf("hint = %q, want empty", got)
	}
	if got := render.StatusLabel(status.CannotStartYet, loc); got != "Cannot start yet" {
		t.Fatalf("status label = %q", got)
	}

	translated := render.Localizer{Translator: stubTranslator{"labels.claim": "Math o hawliad", "fields.typeOfClaim.hint": "Dewiswch"}}
	if got := render.FieldLabel(field.WithLabel("labels.claim", ""), translated); got != "Math o hawliad" {
		t.Fatalf("translated label = %q", got)
	}
	if got := render.FieldHint(field, translated); got != "Dewiswch" {
		t.Fatalf("translated hint = %q", got)
	}
}

func TestDefaultLabeler(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"typeOfClaim":        "Type of claim",
		"pay_details":        "Pay details",
		"ACASCertificate":    "ACAS certificate",
		"respondent2Address": "Respondent 2 address",
		"checkYourAnswers":   "Check your answers",
		"":                   "",
	}
	for in, want := range cases {
		if got := render.DefaultLabeler(in); got != want {
			t.Errorf("DefaultLabeler(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOnMissingHandler(t *testing.T) {
	t.Parallel()

	var seen error
	loc := render.Localizer{OnMissing: func(_ string, key string, _ []any, err error) string {
		seen = err
		return "[" + key + "]"
	}}
	if got := loc.Text("actions.submit", "Submit"); got != "[actions.submit]" {
		t.Fatalf("Text = %q", got)
	}
	if !errors.Is(seen, render.ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", seen)
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	catalog := render.DefaultCatalog()
	if diff := cmp.Diff([]string{"cy", "en"}, catalog.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
	if msg, err := catalog.Translate("cy", "errors.required"); err != nil || msg != "Atebwch y cwestiwn hwn i barhau" {
		t.Fatalf("cy required = %q, %v", msg, err)
	}
	// Welsh catalogue has no postcode message, so English is used
	if msg, err := catalog.Translate("cy-GB", "errors.postcode.format-invalid"); err != nil || msg != "Enter a real postcode" {
		t.Fatalf("fallback = %q, %v", msg, err)
	}
	if _, err := catalog.Translate("en", "nope"); !errors.Is(err, render.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}

	overlay, err := render.LoadCatalog(fstest.MapFS{
		"msgs/en.json":   {Data: []byte(`{"errors": {"required": "Required (%s)"}}`)},
		"msgs/notes.txt": {Data: []byte("ignored")},
	}, "msgs")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	merged := catalog.Merge(overlay)
	if msg, _ := merged.Translate("en", "errors.required", "email"); msg != "Required (email)" {
		t.Fatalf("merged message = %q", msg)
	}
	if msg, _ := merged.Translate("en", "errors.too-long"); msg != "Your answer is too long" {
		t.Fatalf("base message lost after merge: %q", msg)
	}
}

func TestNewScreenStateKeepsRawInput(t *testing.T) {
	t.Parallel()

	form := model.MustForm(model.FormDefinition{ID: "contact", Fields: []model.Field{model.Text("email", validation.Email)}})
	raw := engine.Payload{"email": "  not-an-email "}
	errs := engine.Errors{{FieldID: "email", Kind: validation.KindFormatInvalid}}

	state := render.NewScreenState(form, raw, errs, render.Localizer{Translator: render.DefaultCatalog()}, render.CaseIDField("c-1"))
	if state.Values["email"] != "  not-an-email " {
		t.Fatalf("raw value not preserved: %q", state.Values["email"])
	}
	if !state.HasErrors() {
		t.Fatalf("expected errors")
	}
	if got := state.Errors["email"]; got != "Enter an email address in the correct format, like name@example.com" {
		t.Fatalf("message = %q", got)
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "caseId", Value: "c-1"}}, state.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}

	prefill := render.Prefill(form, validation.MapReader{"email": "a@b.com", "other": "x"})
	if diff := cmp.Diff(engine.Payload{"email": "a@b.com"}, prefill.Values); diff != "" {
		t.Fatalf("prefill mismatch (-want +got):\n%s", diff)
	}
}
