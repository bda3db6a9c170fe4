package screens_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/screens"
	"github.com/goliatone/go-caseflow/pkg/status"
)

func TestDefaultCatalogue(t *testing.T) {
	t.Parallel()

	catalogue, err := screens.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if catalogue.Empty() {
		t.Fatalf("expected embedded screens")
	}

	screen, ok := catalogue.Get("respondentContactPreference")
	if !ok {
		t.Fatalf("respondentContactPreference missing")
	}
	if screen.Hub != status.RespondentReply || screen.Section != "contactDetails" {
		t.Fatalf("unexpected placement %s/%s", screen.Hub, screen.Section)
	}
	if screen.OnSuccess != status.Completed {
		t.Fatalf("expected completed on success, got %q", screen.OnSuccess)
	}
	if screen.Form.Scope != model.ScopeRespondent {
		t.Fatalf("expected respondent scope, got %q", screen.Form.Scope)
	}
	if _, err := screen.Form.Lookup("respondentEmail"); err != nil {
		t.Fatalf("expected nested email field: %v", err)
	}

	first, ok := catalogue.First(status.RespondentReply, "contactDetails")
	if !ok || first.ID != "respondentName" {
		t.Fatalf("expected respondentName to open contactDetails, got %q", first.ID)
	}
	if first.OnSuccess != status.InProgress {
		t.Fatalf("expected inProgress default, got %q", first.OnSuccess)
	}

	review, ok := catalogue.Get("checkYourAnswers")
	if !ok || !review.Submit {
		t.Fatalf("expected checkYourAnswers to submit the case")
	}
}

func TestDefaultCatalogueCoversEveryRespondentSection(t *testing.T) {
	t.Parallel()

	catalogue, err := screens.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	hub := status.Defaults()[status.RespondentReply]
	for _, section := range hub.Names() {
		if _, ok := catalogue.First(hub.ID, section); !ok {
			t.Errorf("section %q has no screen", section)
		}
	}
}

func TestLoadFSFileDefaults(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"reply.yaml": {Data: []byte(`
hub: respondentReply
section: contestClaim
screens:
  - id: contest
    next: contestUpload
    form:
      fields:
        - id: contestClaim
          kind: radios
          required: true
          options:
            - value: "Yes"
            - value: "No"
  - id: contestUpload
    onSuccess: COMPLETED
    form:
      fields:
        - id: contestClaimDocument
          kind: file
`)},
		"notes.txt": {Data: []byte("ignored")},
	}

	catalogue, err := screens.LoadFS(fsys, screens.WithHubs(status.Defaults()))
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"contest", "contestUpload"}, catalogue.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	upload, _ := catalogue.Get("contestUpload")
	if upload.Section != "contestClaim" || upload.OnSuccess != status.Completed {
		t.Fatalf("unexpected screen %+v", upload)
	}
	if upload.Form.ID != "contestUpload" {
		t.Fatalf("expected form id to default to screen id, got %q", upload.Form.ID)
	}
	if upload.Source != "reply.yaml" {
		t.Fatalf("expected source reply.yaml, got %q", upload.Source)
	}
}

func TestLoadFSErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "missing id",
			data: "hub: respondentReply\nsection: contestClaim\nscreens:\n  - form: {fields: [{id: a, kind: text}]}\n",
			want: "without an id",
		},
		{
			name: "missing section",
			data: "hub: respondentReply\nscreens:\n  - id: a\n    form: {fields: [{id: a, kind: text}]}\n",
			want: "needs a hub and a section",
		},
		{
			name: "bad status",
			data: "hub: respondentReply\nsection: contestClaim\nscreens:\n  - id: a\n    onSuccess: done\n    form: {fields: [{id: a, kind: text}]}\n",
			want: "unknown onSuccess status",
		},
		{
			name: "dangling next",
			data: "hub: respondentReply\nsection: contestClaim\nscreens:\n  - id: a\n    next: b\n    form: {fields: [{id: a, kind: text}]}\n",
			want: "unknown next screen",
		},
		{
			name: "duplicate",
			data: "hub: respondentReply\nsection: contestClaim\nscreens:\n  - id: a\n    form: {fields: [{id: a, kind: text}]}\n  - id: a\n    form: {fields: [{id: a, kind: text}]}\n",
			want: "duplicate screen",
		},
		{
			name: "unknown hub",
			data: "hub: claimant\nsection: contestClaim\nscreens:\n  - id: a\n    form: {fields: [{id: a, kind: text}]}\n",
			want: "unknown hub",
		},
		{
			name: "unknown section",
			data: "hub: respondentReply\nsection: hearings\nscreens:\n  - id: a\n    form: {fields: [{id: a, kind: text}]}\n",
			want: "unknown section",
		},
		{
			name: "submit outside derived section",
			data: "hub: respondentReply\nsection: contestClaim\nscreens:\n  - id: a\n    submit: true\n    form: {fields: [{id: a, kind: text}]}\n",
			want: "only the \"checkYourAnswers\" section",
		},
		{
			name: "bad form",
			data: "hub: respondentReply\nsection: contestClaim\nscreens:\n  - id: a\n    form: {fields: [{id: a, kind: slider}]}\n",
			want: "unknown kind",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fsys := fstest.MapFS{"screens.yaml": {Data: []byte(tc.data)}}
			_, err := screens.LoadFS(fsys, screens.WithHubs(status.Defaults()))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadFSJSONAndNil(t *testing.T) {
	t.Parallel()

	empty, err := screens.LoadFS(nil)
	if err != nil || !empty.Empty() {
		t.Fatalf("expected empty catalogue, got %v, %v", empty, err)
	}

	fsys := fstest.MapFS{
		"custom/screens.json": {Data: []byte(`{"hub":"anything","section":"free","screens":[{"id":"a","form":{"fields":[{"id":"a","kind":"text"}]}}]}`)},
	}
	// without a hub catalogue placement is not checked
	catalogue, err := screens.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if _, ok := catalogue.Get("a"); !ok {
		t.Fatalf("expected screen a")
	}
}
