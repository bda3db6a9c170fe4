// Package caserecord holds the live case aggregate: a flat bag of answers
// keyed by field id, optional repeatable respondents with their own bags, and
// per-hub section status maps. A Case is owned by one request at a time and
// is not safe for concurrent use.
package caserecord

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/status"
	"github.com/goliatone/go-caseflow/pkg/validation"
)

// State is the submission state of a case.
type State string

const (
	StateDraft     State = "draft"
	StateSubmitted State = "submitted"
)

// ErrNoRespondent is returned when a respondent-scoped write has no valid
// selected respondent.
var ErrNoRespondent = errors.New("caserecord: no respondent selected")

// Respondent is one repeatable sub-entity of a case.
type Respondent struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Case is the accumulated answer set for one case.
type Case struct {
	ID                 string                `json:"id"`
	CreatedAt          time.Time             `json:"createdAt"`
	UpdatedAt          time.Time             `json:"updatedAt"`
	State              State                 `json:"state"`
	Fields             map[string]any        `json:"fields,omitempty"`
	Respondents        []Respondent          `json:"respondents,omitempty"`
	SelectedRespondent int                   `json:"selectedRespondent"`
	Sections           map[string]status.Map `json:"sections,omitempty"`
}

// New returns an empty draft case.
func New(id string, now time.Time) *Case {
	return &Case{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		State:     StateDraft,
		Fields:    map[string]any{},
		Sections:  map[string]status.Map{},
	}
}

// Get reads a top-level case field.
func (c *Case) Get(id string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.Fields[id]
	return v, ok
}

// Selected returns the currently selected respondent.
func (c *Case) Selected() (*Respondent, bool) {
	if c == nil || c.SelectedRespondent < 0 || c.SelectedRespondent >= len(c.Respondents) {
		return nil, false
	}
	return &c.Respondents[c.SelectedRespondent], true
}

// AddRespondent appends a respondent and returns its index.
func (c *Case) AddRespondent(name string) int {
	c.Respondents = append(c.Respondents, Respondent{Name: name, Fields: map[string]any{}})
	return len(c.Respondents) - 1
}

// Select makes the respondent at index current.
func (c *Case) Select(index int) error {
	if index < 0 || index >= len(c.Respondents) {
		return fmt.Errorf("caserecord: respondent index %d out of range (%d respondents)", index, len(c.Respondents))
	}
	c.SelectedRespondent = index
	return nil
}

// Reader exposes the values visible to a form of the given scope. A
// respondent-scoped reader consults the selected respondent first and falls
// back to the case fields; with no valid selection it reads the case only.
func (c *Case) Reader(scope model.Scope) validation.Reader {
	if scope == model.ScopeRespondent {
		if r, ok := c.Selected(); ok {
			return scopedReader{primary: r.Fields, fallback: c}
		}
	}
	return caseReader{c}
}

type caseReader struct{ c *Case }

func (r caseReader) Get(id string) (any, bool) { return r.c.Get(id) }

type scopedReader struct {
	primary  map[string]any
	fallback validation.Reader
}

func (r scopedReader) Get(id string) (any, bool) {
	if v, ok := r.primary[id]; ok {
		return v, true
	}
	return r.fallback.Get(id)
}

// Apply merges a validated update into the bag selected by scope. Values are
// copied so later edits to update do not leak into the case. Stale values of
// fields absent from update are left in place.
func (c *Case) Apply(scope model.Scope, update map[string]any, now time.Time) error {
	target := c.Fields
	if scope == model.ScopeRespondent {
		r, ok := c.Selected()
		if !ok {
			return ErrNoRespondent
		}
		if r.Fields == nil {
			r.Fields = map[string]any{}
		}
		target = r.Fields
	} else if target == nil {
		c.Fields = map[string]any{}
		target = c.Fields
	}
	for id, value := range update {
		target[id] = copyValue(value)
	}
	c.touch(now)
	return nil
}

// Statuses returns the gap-filled status map of hub.
func (c *Case) Statuses(hub status.Hub) status.Map {
	var current status.Map
	if c != nil {
		current = c.Sections[hub.ID]
	}
	return hub.FillGaps(current)
}

// SetStatus records a section status for hub and stores the refreshed map.
func (c *Case) SetStatus(hub status.Hub, section string, s status.Status, now time.Time) status.Map {
	if c.Sections == nil {
		c.Sections = map[string]status.Map{}
	}
	m := hub.Set(c.Sections[hub.ID], section, s)
	c.Sections[hub.ID] = m
	c.touch(now)
	return m
}

// Refresh gap fills every hub map the case knows about. Hubs without a map
// yet get one.
func (c *Case) Refresh(hubs ...status.Hub) {
	if c.Sections == nil {
		c.Sections = map[string]status.Map{}
	}
	for _, hub := range hubs {
		c.Sections[hub.ID] = hub.FillGaps(c.Sections[hub.ID])
	}
}

// MarkSubmitted moves the case to the submitted state.
func (c *Case) MarkSubmitted(now time.Time) {
	c.State = StateSubmitted
	c.touch(now)
}

// Clone returns a deep copy of the case.
func (c *Case) Clone() *Case {
	if c == nil {
		return nil
	}
	out := *c
	out.Fields = copyFields(c.Fields)
	out.Respondents = make([]Respondent, len(c.Respondents))
	for i, r := range c.Respondents {
		out.Respondents[i] = Respondent{Name: r.Name, Fields: copyFields(r.Fields)}
	}
	if c.Respondents == nil {
		out.Respondents = nil
	}
	if c.Sections != nil {
		out.Sections = make(map[string]status.Map, len(c.Sections))
		for hub, m := range c.Sections {
			out.Sections[hub] = m.Clone()
		}
	}
	return &out
}

func (c *Case) touch(now time.Time) {
	if !now.IsZero() {
		c.UpdatedAt = now
	}
}

func copyFields(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(value any) any {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		return slices.Clone(v)
	case map[string]any:
		return maps.Clone(v)
	default:
		return v
	}
}
