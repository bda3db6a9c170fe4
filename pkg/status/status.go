// Package status models task-list progress: a closed enumeration of status
// tokens, per-hub section maps and the propagation rules that keep those maps
// complete and compute the derived "check your answers" section.
//
// Nothing in this package returns an error for bad input. Absent maps,
// unknown sections and unparseable tokens degrade to conservative defaults so
// a task list can always be rendered.
package status

import "strings"

// Status is one task-list state token.
type Status string

const (
	NotStartedYet      Status = "notStartedYet"
	InProgress         Status = "inProgress"
	Completed          Status = "completed"
	Optional           Status = "optional"
	NotAvailableYet    Status = "notAvailableYet"
	CannotStartYet     Status = "cannotStartYet"
	Submitted          Status = "submitted"
	Viewed             Status = "viewed"
	NotViewed          Status = "notViewed"
	Stored             Status = "stored"
	WaitingForTribunal Status = "waitingForTheTribunal"
	Updated            Status = "updated"
	ReadyToView        Status = "readyToView"
)

// All lists the enumeration in display order.
var All = []Status{
	NotStartedYet,
	InProgress,
	Completed,
	Optional,
	NotAvailableYet,
	CannotStartYet,
	Submitted,
	Viewed,
	NotViewed,
	Stored,
	WaitingForTribunal,
	Updated,
	ReadyToView,
}

var lookup = func() map[string]Status {
	out := make(map[string]Status, len(All))
	for _, s := range All {
		out[strings.ToLower(string(s))] = s
	}
	return out
}()

// Parse resolves a token case-insensitively. Anything outside the
// enumeration, including legacy values such as "IN_PROGRESS_CYA", reports
// false.
func Parse(token string) (Status, bool) {
	s, ok := lookup[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

// Valid reports whether s belongs to the enumeration.
func (s Status) Valid() bool {
	known, ok := lookup[strings.ToLower(string(s))]
	return ok && known == s
}

// Category is the fixed display grouping of a status.
type Category struct {
	Name   string
	Colour string
}

var categories = map[Status]Category{
	NotStartedYet:      {Name: "todo", Colour: "grey"},
	InProgress:         {Name: "active", Colour: "yellow"},
	Completed:          {Name: "done", Colour: "green"},
	Optional:           {Name: "optional", Colour: "blue"},
	NotAvailableYet:    {Name: "blocked", Colour: "grey"},
	CannotStartYet:     {Name: "blocked", Colour: "grey"},
	Submitted:          {Name: "done", Colour: "turquoise"},
	Viewed:             {Name: "done", Colour: "turquoise"},
	NotViewed:          {Name: "todo", Colour: "red"},
	Stored:             {Name: "done", Colour: "blue"},
	WaitingForTribunal: {Name: "waiting", Colour: "purple"},
	Updated:            {Name: "active", Colour: "yellow"},
	ReadyToView:        {Name: "todo", Colour: "blue"},
}

// CategoryOf returns the display category of s. Unknown statuses share the
// blocked category.
func CategoryOf(s Status) Category {
	if c, ok := categories[s]; ok {
		return c
	}
	return categories[CannotStartYet]
}
