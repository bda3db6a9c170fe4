package tui

import (
	"os"
	"path/filepath"

	"github.com/goliatone/go-caseflow/pkg/render"
	"github.com/goliatone/go-caseflow/pkg/validation"
	"github.com/goliatone/go-caseflow/pkg/visibility"
)

// Theme captures optional message prefixes the renderer applies when
// printing through the driver.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// FileOpener turns a path typed by the user into an upload descriptor.
type FileOpener func(path string) (validation.Upload, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithLocalizer resolves labels, hints and option text.
func WithLocalizer(loc render.Localizer) Option {
	return func(r *Renderer) {
		r.loc = loc
	}
}

// WithEvaluator overrides the showWhen evaluator.
func WithEvaluator(ev visibility.Evaluator) Option {
	return func(r *Renderer) {
		if ev != nil {
			r.evaluator = ev
		}
	}
}

// WithFileOpener overrides how file answers are read.
func WithFileOpener(open FileOpener) Option {
	return func(r *Renderer) {
		if open != nil {
			r.openFile = open
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

func statFile(path string) (validation.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return validation.Upload{}, err
	}
	return validation.Upload{Name: filepath.Base(path), Size: info.Size()}, nil
}
