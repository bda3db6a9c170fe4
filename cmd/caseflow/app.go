package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/goliatone/go-caseflow/internal/store"
	"github.com/goliatone/go-caseflow/pkg/caserecord"
	"github.com/goliatone/go-caseflow/pkg/render"
	"github.com/goliatone/go-caseflow/pkg/screens"
	"github.com/goliatone/go-caseflow/pkg/status"
	"github.com/goliatone/go-caseflow/pkg/wizard"
)

// app bundles what a command needs once configuration is resolved.
type app struct {
	store   store.Store
	hubs    status.Catalogue
	screens *screens.Catalogue
	wizard  *wizard.Wizard
	loc     render.Localizer
}

type appConfig struct {
	Workspace string
	Locale    string
	Screens   string
	Hubs      string
}

func configFromViper() appConfig {
	return appConfig{
		Workspace: viper.GetString("workspace"),
		Locale:    viper.GetString("locale"),
		Screens:   viper.GetString("screens"),
		Hubs:      viper.GetString("hubs"),
	}
}

func newApp(cfg appConfig, s store.Store) (*app, error) {
	hubs, err := loadHubs(cfg.Hubs)
	if err != nil {
		return nil, err
	}
	catalogue, err := loadScreens(cfg.Screens, hubs)
	if err != nil {
		return nil, err
	}
	locale := cfg.Locale
	if locale == "" {
		locale = render.DefaultLocale
	}
	return &app{
		store:   s,
		hubs:    hubs,
		screens: catalogue,
		wizard:  wizard.New(catalogue, hubs, wizard.WithSaver(s)),
		loc:     render.Localizer{Translator: render.DefaultCatalog(), Locale: locale},
	}, nil
}

func loadHubs(path string) (status.Catalogue, error) {
	if path == "" {
		return status.Defaults(), nil
	}
	cfg, err := status.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return cfg.Catalogue(), nil
}

func loadScreens(dir string, hubs status.Catalogue) (*screens.Catalogue, error) {
	fsys := screens.EmbeddedFS()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return screens.LoadFS(fsys, screens.WithHubs(hubs))
}

// withApp opens the workspace database and runs fn.
func withApp(ctx context.Context, fn func(context.Context, *app) error) error {
	cfg := configFromViper()
	db, err := store.Open(cfg.Workspace)
	if err != nil {
		return err
	}
	defer db.Close()
	a, err := newApp(cfg, db)
	if err != nil {
		return err
	}
	logger.Debug("workspace opened", "path", store.Path(cfg.Workspace), "screens", len(a.screens.IDs()))
	return fn(ctx, a)
}

func (a *app) load(ctx context.Context, id string) (*caserecord.Case, error) {
	c, err := a.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Refresh(a.allHubs()...)
	return c, nil
}

func (a *app) allHubs() []status.Hub {
	out := make([]status.Hub, 0, len(a.hubs))
	for _, id := range a.hubs.IDs() {
		out = append(out, a.hubs[id])
	}
	return out
}
