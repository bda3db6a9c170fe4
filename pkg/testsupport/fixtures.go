// Package testsupport offers fixtures shared by package tests: a small two
// section hub, screens bound to it, and golden file helpers.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseflow/pkg/caserecord"
	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/screens"
	"github.com/goliatone/go-caseflow/pkg/status"
)

// ReplyHubID names the fixture hub.
const ReplyHubID = "reply"

// Now is the fixed clock used by fixtures.
var Now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

// Clock returns Now.
func Clock() time.Time { return Now }

// ReplyHub has two ordinary sections and a derived review section.
func ReplyHub() status.Hub {
	return status.Hub{
		ID:       ReplyHubID,
		Sections: []string{"contact", "claim"},
		Derived:  "review",
	}
}

// Hubs returns a catalogue holding ReplyHub.
func Hubs() status.Catalogue {
	return status.Catalogue{ReplyHubID: ReplyHub()}
}

const replyScreens = `
hub: reply
screens:
  - id: name
    section: contact
    next: preference
    form:
      scope: respondent
      fields:
        - id: respondentName
          kind: text
          required: true
          rules: ["maxLength:20"]
  - id: preference
    section: contact
    onSuccess: completed
    form:
      scope: respondent
      fields:
        - id: contactPreference
          kind: radios
          required: true
          options:
            - value: email
              subFields:
                - id: respondentEmail
                  kind: text
                  required: true
                  rules: [email]
            - value: post
  - id: contest
    section: claim
    onSuccess: completed
    form:
      fields:
        - id: contestClaim
          kind: radios
          required: true
          options:
            - value: "Yes"
              subFields:
                - id: contestClaimReason
                  kind: textarea
                  required: true
                  rules: ["maxLength:2500"]
            - value: "No"
        - id: payBeforeTax
          kind: currency
          rules: ["currency:0.01:1000000"]
        - id: benefits
          kind: checkboxes
          options:
            - value: pension
            - value: car
  - id: review
    section: review
    submit: true
    form:
      fields:
        - id: confirm
          kind: button
      primaryAction: {type: submit}
`

// ReplyScreensFS holds the fixture screens as a YAML file.
func ReplyScreensFS() fstest.MapFS {
	return fstest.MapFS{"reply.yaml": {Data: []byte(replyScreens)}}
}

// ReplyScreens loads the fixture screens checked against Hubs.
func ReplyScreens(t testing.TB) *screens.Catalogue {
	t.Helper()
	catalogue, err := screens.LoadFS(ReplyScreensFS(), screens.WithHubs(Hubs()))
	if err != nil {
		t.Fatalf("load fixture screens: %v", err)
	}
	return catalogue
}

// NewCase returns a draft case with one selected respondent and gap-filled
// statuses for ReplyHub.
func NewCase(id string) *caserecord.Case {
	c := caserecord.New(id, Now)
	c.AddRespondent("Acme Ltd")
	c.Refresh(ReplyHub())
	return c
}

// LoadPayload reads a JSON object into a raw payload.
func LoadPayload(path string) (engine.Payload, error) {
	if path == "" {
		return nil, errors.New("testsupport: payload path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read payload: %w", err)
	}
	var out engine.Payload
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal payload: %w", err)
	}
	return out, nil
}

// WriteGolden writes value as indented JSON to a golden file when
// UPDATE_GOLDENS is set.
func WriteGolden(t testing.TB, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff between the golden file at path and got, both
// compared in their JSON form. The golden file is refreshed first when
// UPDATE_GOLDENS is set.
func CompareGolden(t testing.TB, path string, got any) string {
	t.Helper()

	WriteGolden(t, path, got)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	var want any
	if err := json.Unmarshal(data, &want); err != nil {
		t.Fatalf("decode golden %s: %v", path, err)
	}
	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var actual any
	if err := json.Unmarshal(encoded, &actual); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return cmp.Diff(want, actual)
}
