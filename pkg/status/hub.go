package status

import (
	"maps"
)

// Map holds one status per section name of a hub.
type Map map[string]Status

// Clone returns a shallow copy; a nil map clones to nil.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}

// Hub is a task list: a closed, ordered set of ordinary sections plus one
// derived section whose status is computed, never set.
type Hub struct {
	ID       string
	Sections []string
	Derived  string
	// Defaults overrides the notStartedYet default for individual sections.
	Defaults map[string]Status
}

// Names returns every section name, ordinary sections first.
func (h Hub) Names() []string {
	out := make([]string, 0, len(h.Sections)+1)
	out = append(out, h.Sections...)
	if h.Derived != "" {
		out = append(out, h.Derived)
	}
	return out
}

// Known reports whether name is an ordinary or the derived section.
func (h Hub) Known(name string) bool {
	return h.ordinary(name) || (name != "" && name == h.Derived)
}

func (h Hub) ordinary(name string) bool {
	for _, section := range h.Sections {
		if section == name {
			return true
		}
	}
	return false
}

// Default is the status an ordinary section takes when it has none.
func (h Hub) Default(section string) Status {
	if s, ok := h.Defaults[section]; ok && s.Valid() {
		return s
	}
	return NotStartedYet
}

// DerivedStatus computes the derived section: notStartedYet when every
// ordinary section is completed, otherwise cannotStartYet. A nil map, and a
// hub without ordinary sections, yield cannotStartYet. Any value stored
// under the derived name itself is ignored.
func (h Hub) DerivedStatus(m Map) Status {
	if m == nil || len(h.Sections) == 0 {
		return CannotStartYet
	}
	for _, section := range h.Sections {
		if s, _ := normalise(m[section]); s != Completed {
			return CannotStartYet
		}
	}
	return NotStartedYet
}

// FillGaps returns a complete copy of m: every ordinary section holds a valid
// status (absent or unparseable values become the section default) and the
// derived section is recomputed. Keys outside the hub are carried over
// untouched. FillGaps is idempotent and never mutates m.
func (h Hub) FillGaps(m Map) Map {
	out := make(Map, len(h.Sections)+1+len(m))
	for name, s := range m {
		if !h.Known(name) {
			out[name] = s
		}
	}
	for _, section := range h.Sections {
		s, ok := m[section]
		if ok {
			s, ok = normalise(s)
		}
		if !ok {
			s = h.Default(section)
		}
		out[section] = s
	}
	if h.Derived != "" {
		out[h.Derived] = h.DerivedStatus(out)
	}
	return out
}

// Merge folds a freshly introduced map into a possibly stale one. Values
// already present in stale win; sections only present in fresh are added.
// The result is gap filled.
func (h Hub) Merge(stale, fresh Map) Map {
	out := make(Map, len(stale)+len(fresh))
	for name, s := range fresh {
		out[name] = s
	}
	for name, s := range stale {
		if _, ok := normalise(s); ok || !h.ordinary(name) {
			out[name] = s
		}
	}
	return h.FillGaps(out)
}

// Set records s for an ordinary section and returns the refreshed map.
// Attempts to set the derived section, an unknown section or an invalid
// status leave the content unchanged apart from gap filling.
func (h Hub) Set(m Map, section string, s Status) Map {
	out := m.Clone()
	if out == nil {
		out = Map{}
	}
	if h.ordinary(section) {
		if normalised, ok := normalise(s); ok {
			out[section] = normalised
		}
	}
	return h.FillGaps(out)
}

// Complete reports whether every ordinary section is completed, i.e. whether
// the derived section may be started.
func (h Hub) Complete(m Map) bool {
	return h.DerivedStatus(m) == NotStartedYet
}

func normalise(s Status) (Status, bool) {
	return Parse(string(s))
}
