package wizard_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/caserecord"
	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/status"
	"github.com/goliatone/go-caseflow/pkg/testsupport"
	"github.com/goliatone/go-caseflow/pkg/validation"
	"github.com/goliatone/go-caseflow/pkg/wizard"
)

type recordingSaver struct {
	saved []*caserecord.Case
	err   error
}

func (s *recordingSaver) Save(_ context.Context, c *caserecord.Case) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, c.Clone())
	return nil
}

func newWizard(t *testing.T, saver wizard.Saver) *wizard.Wizard {
	t.Helper()
	return wizard.New(
		testsupport.ReplyScreens(t),
		testsupport.Hubs(),
		wizard.WithSaver(saver),
		wizard.WithClock(testsupport.Clock),
	)
}

func TestSubmitAcceptedAppliesAndSaves(t *testing.T) {
	t.Parallel()

	saver := &recordingSaver{}
	w := newWizard(t, saver)
	c := testsupport.NewCase("case-1")

	raw, err := testsupport.LoadPayload(filepath.Join("testdata", "contest_no.json"))
	if err != nil {
		t.Fatalf("LoadPayload: %v", err)
	}
	out, err := w.Submit(context.Background(), c, "contest", raw)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !out.Accepted() {
		t.Fatalf("expected acceptance, got %v", out.Errors)
	}

	want := engine.Values{"contestClaim": "No", "payBeforeTax": "£1,200.50", "benefits": []string{}}
	if diff := cmp.Diff(want, out.Update); diff != "" {
		t.Fatalf("update mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.Get("contestClaimReason"); ok {
		t.Fatalf("inactive sub-field must not be written")
	}
	if got := c.Statuses(testsupport.ReplyHub())["claim"]; got != status.Completed {
		t.Fatalf("expected claim completed, got %q", got)
	}
	if out.Next != "" {
		t.Fatalf("expected return to task list, got %q", out.Next)
	}
	if len(saver.saved) != 1 || saver.saved[0].Fields["contestClaim"] != "No" {
		t.Fatalf("expected the updated case to be saved, got %+v", saver.saved)
	}

	tasks, err := w.Tasks(c, testsupport.ReplyHubID)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if diff := testsupport.CompareGolden(t, filepath.Join("testdata", "tasks_after_contest.golden.json"), tasks); diff != "" {
		t.Fatalf("task list mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitRejectedLeavesCaseUntouched(t *testing.T) {
	t.Parallel()

	saver := &recordingSaver{}
	w := newWizard(t, saver)
	c := testsupport.NewCase("case-1")
	before := c.Clone()

	raw := engine.Payload{"contestClaim": "Yes", "contestClaimReason": "   "}
	out, err := w.Submit(context.Background(), c, "contest", raw)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.Accepted() {
		t.Fatalf("expected rejection")
	}
	want := engine.Errors{{FieldID: "contestClaimReason", Kind: validation.KindRequired}}
	if diff := cmp.Diff(want, out.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if out.Update != nil {
		t.Fatalf("expected no update on rejection")
	}
	if diff := cmp.Diff(raw, out.Raw); diff != "" {
		t.Fatalf("raw payload should be returned for redisplay (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, c); diff != "" {
		t.Fatalf("case changed on rejection (-want +got):\n%s", diff)
	}
	if len(saver.saved) != 0 {
		t.Fatalf("nothing should be saved on rejection")
	}
}

func TestSubmitRespondentScope(t *testing.T) {
	t.Parallel()

	w := newWizard(t, nil)
	c := testsupport.NewCase("case-1")

	out, err := w.Submit(context.Background(), c, "name", engine.Payload{"respondentName": " Acme Trading "})
	if err != nil || !out.Accepted() {
		t.Fatalf("Submit: %v %v", err, out.Errors)
	}
	if out.Next != "preference" {
		t.Fatalf("expected next screen preference, got %q", out.Next)
	}
	if got := c.Respondents[0].Fields["respondentName"]; got != "Acme Trading" {
		t.Fatalf("expected respondent bag to hold the name, got %v", got)
	}
	if _, ok := c.Get("respondentName"); ok {
		t.Fatalf("respondent answers must not leak into case fields")
	}
	if got := out.Statuses["contact"]; got != status.InProgress {
		t.Fatalf("expected contact in progress, got %q", got)
	}

	orphan := testsupport.NewCase("case-2")
	orphan.Respondents = nil
	if _, err := w.Submit(context.Background(), orphan, "name", engine.Payload{"respondentName": "x"}); !errors.Is(err, caserecord.ErrNoRespondent) {
		t.Fatalf("expected ErrNoRespondent, got %v", err)
	}
}

func TestSubmitSaveFailureLeavesCaseUntouched(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	w := newWizard(t, &recordingSaver{err: boom})
	c := testsupport.NewCase("case-1")
	before := c.Clone()

	_, err := w.Submit(context.Background(), c, "contest", engine.Payload{"contestClaim": "No"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if diff := cmp.Diff(before, c); diff != "" {
		t.Fatalf("case changed after failed save (-want +got):\n%s", diff)
	}
}

func TestFinalScreenGatedOnCompletion(t *testing.T) {
	t.Parallel()

	w := newWizard(t, nil)
	ctx := context.Background()
	c := testsupport.NewCase("case-1")

	if ok, _ := w.CanSubmit(c, testsupport.ReplyHubID); ok {
		t.Fatalf("fresh case must not be submittable")
	}
	if _, err := w.Submit(ctx, c, "review", nil); !errors.Is(err, wizard.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	steps := []struct {
		screen  string
		payload engine.Payload
	}{
		{"name", engine.Payload{"respondentName": "Acme"}},
		{"preference", engine.Payload{"contactPreference": "post"}},
		{"contest", engine.Payload{"contestClaim": "No"}},
	}
	for _, step := range steps {
		out, err := w.Submit(ctx, c, step.screen, step.payload)
		if err != nil || !out.Accepted() {
			t.Fatalf("Submit(%s): %v %v", step.screen, err, out.Errors)
		}
	}

	hub := testsupport.ReplyHub()
	if got := c.Statuses(hub)["review"]; got != status.NotStartedYet {
		t.Fatalf("expected review notStartedYet, got %q", got)
	}
	if ok, err := w.CanSubmit(c, testsupport.ReplyHubID); err != nil || !ok {
		t.Fatalf("expected case to be submittable, got %v %v", ok, err)
	}

	if _, err := w.Submit(ctx, c, "review", nil); err != nil {
		t.Fatalf("Submit(review): %v", err)
	}
	if c.State != caserecord.StateSubmitted {
		t.Fatalf("expected submitted state, got %q", c.State)
	}
	if _, err := w.Submit(ctx, c, "contest", engine.Payload{"contestClaim": "Yes"}); !errors.Is(err, wizard.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if ok, _ := w.CanSubmit(c, testsupport.ReplyHubID); ok {
		t.Fatalf("submitted case must not be submittable again")
	}
}

func TestSubmitUnknownScreenAndContext(t *testing.T) {
	t.Parallel()

	w := newWizard(t, nil)
	c := testsupport.NewCase("case-1")
	if _, err := w.Submit(context.Background(), c, "nope", nil); !errors.Is(err, wizard.ErrUnknownScreen) {
		t.Fatalf("expected ErrUnknownScreen, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := w.Submit(ctx, c, "contest", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := w.CanSubmit(c, "missing"); !errors.Is(err, wizard.ErrUnknownHub) {
		t.Fatalf("expected ErrUnknownHub, got %v", err)
	}
}

func TestTasks(t *testing.T) {
	t.Parallel()

	w := newWizard(t, nil)
	c := w.Start("case-1")
	if c.CreatedAt != testsupport.Now {
		t.Fatalf("expected clock to stamp the case")
	}
	c.Sections[testsupport.ReplyHubID]["claim"] = "IN_PROGRESS_CYA"

	tasks, err := w.Tasks(c, testsupport.ReplyHubID)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	want := []wizard.Task{
		{Section: "contact", Status: status.NotStartedYet, Category: status.CategoryOf(status.NotStartedYet), Screen: "name"},
		{Section: "claim", Status: status.NotStartedYet, Category: status.CategoryOf(status.NotStartedYet), Screen: "contest"},
		{Section: "review", Status: status.CannotStartYet, Category: status.CategoryOf(status.CannotStartYet), Screen: "review", Derived: true},
	}
	if diff := cmp.Diff(want, tasks); diff != "" {
		t.Fatalf("tasks mismatch (-want +got):\n%s", diff)
	}
}
