package caserecord_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/caserecord"
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/status"
)

var (
	created = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	later   = created.Add(time.Hour)
)

func TestApplyCaseScope(t *testing.T) {
	t.Parallel()

	c := caserecord.New("case-1", created)
	c.Fields["reason"] = "stale"

	list := []string{"a", "b"}
	if err := c.Apply(model.ScopeCase, map[string]any{"agree": "No", "options": list}, later); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	list[0] = "mutated"

	want := map[string]any{"reason": "stale", "agree": "No", "options": []string{"a", "b"}}
	if diff := cmp.Diff(want, c.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !c.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt = %v, want %v", c.UpdatedAt, later)
	}
}

func TestApplyRespondentScope(t *testing.T) {
	t.Parallel()

	c := caserecord.New("case-1", created)
	if err := c.Apply(model.ScopeRespondent, map[string]any{"x": "y"}, later); !errors.Is(err, caserecord.ErrNoRespondent) {
		t.Fatalf("expected ErrNoRespondent, got %v", err)
	}

	c.AddRespondent("Acme Ltd")
	second := c.AddRespondent("Widgets plc")
	if err := c.Select(second); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := c.Apply(model.ScopeRespondent, map[string]any{"respondentName": "Widgets plc"}, later); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok := c.Respondents[0].Fields["respondentName"]; ok {
		t.Fatalf("write leaked into unselected respondent")
	}
	if got := c.Respondents[1].Fields["respondentName"]; got != "Widgets plc" {
		t.Fatalf("respondent field = %v", got)
	}
	if err := c.Select(5); err == nil {
		t.Fatalf("expected out of range selection error")
	}
}

func TestReaderScopes(t *testing.T) {
	t.Parallel()

	c := caserecord.New("case-1", created)
	c.Fields["typeOfClaim"] = "unfairDismissal"
	c.AddRespondent("Acme")
	c.Respondents[0].Fields["acasCert"] = "Yes"

	r := c.Reader(model.ScopeRespondent)
	if v, ok := r.Get("acasCert"); !ok || v != "Yes" {
		t.Fatalf("respondent read = %v, %v", v, ok)
	}
	if v, ok := r.Get("typeOfClaim"); !ok || v != "unfairDismissal" {
		t.Fatalf("fallback read = %v, %v", v, ok)
	}

	c.SelectedRespondent = 3
	if _, ok := c.Reader(model.ScopeRespondent).Get("acasCert"); ok {
		t.Fatalf("out-of-range selection must read the case scope only")
	}
}

func TestStatuses(t *testing.T) {
	t.Parallel()

	hub := status.Hub{ID: "h", Sections: []string{"a", "b"}, Derived: "cya"}
	c := caserecord.New("case-1", created)

	if got := c.Statuses(hub)["cya"]; got != status.CannotStartYet {
		t.Fatalf("derived on empty case = %q", got)
	}
	c.SetStatus(hub, "a", status.Completed, later)
	m := c.SetStatus(hub, "b", status.Completed, later)
	if m["cya"] != status.NotStartedYet {
		t.Fatalf("derived = %q, want notStartedYet", m["cya"])
	}
	if diff := cmp.Diff(m, c.Sections["h"]); diff != "" {
		t.Fatalf("stored map mismatch (-want +got):\n%s", diff)
	}

	var nilCase *caserecord.Case
	if got := nilCase.Statuses(hub)["cya"]; got != status.CannotStartYet {
		t.Fatalf("nil case derived = %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	c := caserecord.New("case-1", created)
	c.Fields["list"] = []string{"a"}
	c.AddRespondent("Acme")
	c.Sections["h"] = status.Map{"a": status.Completed}

	clone := c.Clone()
	clone.Fields["list"].([]string)[0] = "z"
	clone.Respondents[0].Fields["x"] = 1
	clone.Sections["h"]["a"] = status.InProgress

	if c.Fields["list"].([]string)[0] != "a" || len(c.Respondents[0].Fields) != 0 || c.Sections["h"]["a"] != status.Completed {
		t.Fatalf("clone shares state with original")
	}
}
