package screens

import (
	formdoc "github.com/goliatone/go-caseflow/internal/model"
	"github.com/goliatone/go-caseflow/pkg/model"
	"github.com/goliatone/go-caseflow/pkg/status"
)

// Screen is one step of the wizard.
type Screen struct {
	ID      string
	Hub     string
	Section string
	Form    model.FormDefinition
	// OnSuccess is the section status set after an accepted submission.
	OnSuccess status.Status
	// Next is the screen that follows; empty returns to the task list.
	Next string
	// Submit marks the final review screen that submits the case.
	Submit bool
	Source string
}

// Catalogue keeps the parsed screens in declaration order. It is safe for
// concurrent readers when treated as immutable after construction.
type Catalogue struct {
	screens map[string]Screen
	order   []string
}

// Get returns the screen with the supplied id.
func (c *Catalogue) Get(id string) (Screen, bool) {
	if c == nil {
		return Screen{}, false
	}
	s, ok := c.screens[id]
	return s, ok
}

// IDs lists screen ids in declaration order.
func (c *Catalogue) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Empty reports whether the catalogue holds any screens.
func (c *Catalogue) Empty() bool {
	return c == nil || len(c.screens) == 0
}

// ForSection lists the screens of one hub section in declaration order.
func (c *Catalogue) ForSection(hub, section string) []Screen {
	if c == nil {
		return nil
	}
	var out []Screen
	for _, id := range c.order {
		s := c.screens[id]
		if s.Hub == hub && s.Section == section {
			out = append(out, s)
		}
	}
	return out
}

// First returns the entry screen of a section.
func (c *Catalogue) First(hub, section string) (Screen, bool) {
	list := c.ForSection(hub, section)
	if len(list) == 0 {
		return Screen{}, false
	}
	return list[0], true
}

type documentFile struct {
	Hub     string       `json:"hub" yaml:"hub"`
	Section string       `json:"section" yaml:"section"`
	Screens []screenFile `json:"screens" yaml:"screens"`
}

type screenFile struct {
	ID        string               `json:"id" yaml:"id"`
	Hub       string               `json:"hub" yaml:"hub"`
	Section   string               `json:"section" yaml:"section"`
	OnSuccess string               `json:"onSuccess" yaml:"onSuccess"`
	Next      string               `json:"next" yaml:"next"`
	Submit    bool                 `json:"submit" yaml:"submit"`
	Form      formdoc.FormDocument `json:"form" yaml:"form"`
}
