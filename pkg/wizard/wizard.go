package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-caseflow/pkg/caserecord"
	"github.com/goliatone/go-caseflow/pkg/engine"
	"github.com/goliatone/go-caseflow/pkg/screens"
	"github.com/goliatone/go-caseflow/pkg/status"
)

var (
	// ErrUnknownScreen is returned for screen ids missing from the catalogue.
	ErrUnknownScreen = errors.New("wizard: unknown screen")
	// ErrUnknownHub is returned when a hub id is not configured.
	ErrUnknownHub = errors.New("wizard: unknown hub")
	// ErrNotReady is returned when the final screen is submitted before every
	// section of its hub is completed.
	ErrNotReady = errors.New("wizard: case is not ready to submit")
	// ErrAlreadySubmitted is returned for writes to a submitted case.
	ErrAlreadySubmitted = errors.New("wizard: case already submitted")
)

// Saver persists a case after an accepted submission.
type Saver interface {
	Save(ctx context.Context, c *caserecord.Case) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, c *caserecord.Case) error

// Save implements Saver.
func (fn SaverFunc) Save(ctx context.Context, c *caserecord.Case) error { return fn(ctx, c) }

// Option customises a Wizard.
type Option func(*Wizard)

// WithEngine injects a configured form engine.
func WithEngine(e *engine.Engine) Option {
	return func(w *Wizard) {
		if e != nil {
			w.engine = e
		}
	}
}

// WithSaver persists accepted submissions. Without one the wizard only
// mutates the case in memory.
func WithSaver(s Saver) Option {
	return func(w *Wizard) {
		w.saver = s
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		if now != nil {
			w.now = now
		}
	}
}

// Wizard binds a screen catalogue to the hubs whose sections the screens
// complete.
type Wizard struct {
	screens *screens.Catalogue
	hubs    status.Catalogue
	engine  *engine.Engine
	saver   Saver
	now     func() time.Time
}

// New constructs a Wizard. The engine defaults to engine.New().
func New(catalogue *screens.Catalogue, hubs status.Catalogue, options ...Option) *Wizard {
	w := &Wizard{
		screens: catalogue,
		hubs:    hubs,
		engine:  engine.New(),
		now:     time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w
}

// Outcome reports what happened to one submission.
type Outcome struct {
	Screen screens.Screen
	// Update holds the values written to the case; nil when rejected.
	Update engine.Values
	// Errors lists field errors in display order; empty when accepted.
	Errors engine.Errors
	// Raw is the payload as submitted, for redisplay after a rejection.
	Raw engine.Payload
	// Next is the screen to show after an accepted submission. Empty means
	// return to the task list.
	Next string
	// Statuses is the refreshed status map of the screen's hub.
	Statuses status.Map
}

// Accepted reports whether the submission was applied.
func (o Outcome) Accepted() bool { return len(o.Errors) == 0 }

// Screen returns the screen with the given id.
func (w *Wizard) Screen(id string) (screens.Screen, error) {
	screen, ok := w.screens.Get(id)
	if !ok {
		return screens.Screen{}, fmt.Errorf("%w %q", ErrUnknownScreen, id)
	}
	return screen, nil
}

// Hub returns the configured hub with the given id.
func (w *Wizard) Hub(id string) (status.Hub, error) {
	hub, ok := w.hubs[id]
	if !ok {
		return status.Hub{}, fmt.Errorf("%w %q", ErrUnknownHub, id)
	}
	return hub, nil
}

// Submit runs raw through the screen's form. On success the update is
// applied to the scope the form declares, the screen's section takes its
// OnSuccess status, every hub is gap filled and the case is saved; the final
// screen of a hub also marks the case submitted. When validation fails, or
// persisting fails, c is left exactly as it was.
func (w *Wizard) Submit(ctx context.Context, c *caserecord.Case, screenID string, raw engine.Payload) (Outcome, error) {
	if ctx == nil {
		return Outcome{}, errors.New("wizard: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if c == nil {
		return Outcome{}, errors.New("wizard: case is required")
	}
	screen, err := w.Screen(screenID)
	if err != nil {
		return Outcome{}, err
	}
	hub, err := w.Hub(screen.Hub)
	if err != nil {
		return Outcome{}, err
	}
	if c.State == caserecord.StateSubmitted {
		return Outcome{}, ErrAlreadySubmitted
	}
	if screen.Submit && !hub.Complete(c.Statuses(hub)) {
		return Outcome{}, ErrNotReady
	}

	result := w.engine.Process(raw, screen.Form, c.Reader(screen.Form.Scope))
	if !result.OK() {
		return Outcome{
			Screen:   screen,
			Errors:   result.Errors,
			Raw:      raw.Clone(),
			Statuses: c.Statuses(hub),
		}, nil
	}

	now := w.now()
	next := c.Clone()
	if err := next.Apply(screen.Form.Scope, result.Update, now); err != nil {
		return Outcome{}, fmt.Errorf("wizard: screen %q: %w", screen.ID, err)
	}
	next.SetStatus(hub, screen.Section, screen.OnSuccess, now)
	next.Refresh(w.allHubs()...)
	if screen.Submit {
		next.MarkSubmitted(now)
	}

	if w.saver != nil {
		if err := w.saver.Save(ctx, next); err != nil {
			return Outcome{}, fmt.Errorf("wizard: save case %s: %w", next.ID, err)
		}
	}
	*c = *next

	return Outcome{
		Screen:   screen,
		Update:   result.Update,
		Next:     screen.Next,
		Statuses: c.Statuses(hub),
	}, nil
}

// CanSubmit reports whether the final screen of hubID may be submitted, i.e.
// every ordinary section is completed and the case is still a draft.
func (w *Wizard) CanSubmit(c *caserecord.Case, hubID string) (bool, error) {
	hub, err := w.Hub(hubID)
	if err != nil {
		return false, err
	}
	if c == nil || c.State == caserecord.StateSubmitted {
		return false, nil
	}
	return hub.Complete(c.Statuses(hub)), nil
}

// Start prepares a new case with a gap-filled status map for every hub.
func (w *Wizard) Start(id string) *caserecord.Case {
	c := caserecord.New(id, w.now())
	c.Refresh(w.allHubs()...)
	return c
}

func (w *Wizard) allHubs() []status.Hub {
	out := make([]status.Hub, 0, len(w.hubs))
	for _, id := range w.hubs.IDs() {
		out = append(out, w.hubs[id])
	}
	return out
}
