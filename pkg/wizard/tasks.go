package wizard

import (
	"github.com/goliatone/go-caseflow/pkg/caserecord"
	"github.com/goliatone/go-caseflow/pkg/status"
)

// Task is one row of a hub's task list.
type Task struct {
	Section  string
	Status   status.Status
	Category status.Category
	// Screen is the entry screen of the section, empty when none is
	// configured.
	Screen string
	// Derived marks the computed final section.
	Derived bool
}

// Tasks lists the sections of hubID in display order with their current
// status.
func (w *Wizard) Tasks(c *caserecord.Case, hubID string) ([]Task, error) {
	hub, err := w.Hub(hubID)
	if err != nil {
		return nil, err
	}
	statuses := c.Statuses(hub)
	out := make([]Task, 0, len(hub.Sections)+1)
	for _, section := range hub.Names() {
		s := statuses[section]
		task := Task{
			Section:  section,
			Status:   s,
			Category: status.CategoryOf(s),
			Derived:  section == hub.Derived,
		}
		if screen, ok := w.screens.First(hub.ID, section); ok {
			task.Screen = screen.ID
		}
		out = append(out, task)
	}
	return out, nil
}
