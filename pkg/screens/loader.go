package screens

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	formdoc "github.com/goliatone/go-caseflow/internal/model"
	"github.com/goliatone/go-caseflow/pkg/status"
	"github.com/goliatone/go-caseflow/pkg/visibility/expr"
)

// Option configures LoadFS.
type Option func(*loader)

type loader struct {
	builder *formdoc.Builder
	hubs    status.Catalogue
}

// WithBuilder overrides the form builder, for example to use a validation
// registry with project specific rules.
func WithBuilder(b *formdoc.Builder) Option {
	return func(l *loader) {
		if b != nil {
			l.builder = b
		}
	}
}

// WithHubs checks every screen against a hub catalogue: the hub must exist,
// the section must belong to it, and only the derived section may carry the
// submit screen.
func WithHubs(hubs status.Catalogue) Option {
	return func(l *loader) {
		l.hubs = hubs
	}
}

// LoadFS walks the provided filesystem and parses JSON/YAML screen files.
// When fsys is nil or no screen files are present, the returned catalogue is
// empty.
func LoadFS(fsys fs.FS, options ...Option) (*Catalogue, error) {
	l := &loader{builder: formdoc.NewDefault(expr.New())}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	catalogue := &Catalogue{screens: make(map[string]Screen)}
	if fsys == nil {
		return catalogue, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isScreenFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("screens: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, raw := range doc.Screens {
			screen, err := l.normalise(raw, doc, path)
			if err != nil {
				return err
			}
			if _, exists := catalogue.screens[screen.ID]; exists {
				return fmt.Errorf("screens: duplicate screen %q (file %s)", screen.ID, path)
			}
			catalogue.screens[screen.ID] = screen
			catalogue.order = append(catalogue.order, screen.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := l.link(catalogue); err != nil {
		return nil, err
	}
	return catalogue, nil
}

// Default loads the embedded catalogue checked against the built-in hubs.
func Default() (*Catalogue, error) {
	return LoadFS(EmbeddedFS(), WithHubs(status.Defaults()))
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("screens: file %s is empty", source)
	}

	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("screens: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("screens: parse %s: %w", source, err)
	}
	return doc, nil
}

func (l *loader) normalise(raw screenFile, doc documentFile, source string) (Screen, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return Screen{}, fmt.Errorf("screens: file %s defines a screen without an id", source)
	}
	screen := Screen{
		ID:      id,
		Hub:     firstNonEmpty(raw.Hub, doc.Hub),
		Section: firstNonEmpty(raw.Section, doc.Section),
		Next:    strings.TrimSpace(raw.Next),
		Submit:  raw.Submit,
		Source:  source,
	}
	if screen.Hub == "" || screen.Section == "" {
		return Screen{}, fmt.Errorf("screens: screen %q (file %s) needs a hub and a section", id, source)
	}

	screen.OnSuccess = status.InProgress
	if token := strings.TrimSpace(raw.OnSuccess); token != "" {
		s, ok := status.Parse(token)
		if !ok {
			return Screen{}, fmt.Errorf("screens: screen %q (file %s) has unknown onSuccess status %q", id, source, token)
		}
		screen.OnSuccess = s
	}

	formDoc := raw.Form
	if strings.TrimSpace(formDoc.ID) == "" {
		formDoc.ID = id
	}
	form, err := l.builder.Build(formDoc)
	if err != nil {
		return Screen{}, fmt.Errorf("screens: screen %q (file %s): %w", id, source, err)
	}
	screen.Form = form
	return screen, nil
}

func (l *loader) link(c *Catalogue) error {
	for _, id := range c.order {
		screen := c.screens[id]
		if screen.Next != "" {
			if _, ok := c.screens[screen.Next]; !ok {
				return fmt.Errorf("screens: screen %q points to unknown next screen %q", id, screen.Next)
			}
		}
		if l.hubs == nil {
			continue
		}
		hub, ok := l.hubs[screen.Hub]
		if !ok {
			return fmt.Errorf("screens: screen %q references unknown hub %q", id, screen.Hub)
		}
		if !hub.Known(screen.Section) {
			return fmt.Errorf("screens: screen %q references unknown section %q of hub %q", id, screen.Section, screen.Hub)
		}
		if screen.Submit != (screen.Section == hub.Derived) {
			return fmt.Errorf("screens: screen %q: only the %q section submits the case", id, hub.Derived)
		}
	}
	return nil
}

func isScreenFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
