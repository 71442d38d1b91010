package cli

import (
	"os"
	"os/user"

	"github.com/rcliao/patchdash/internal/annotations"
	"github.com/rcliao/patchdash/internal/loader"
	"github.com/rcliao/patchdash/internal/metrics"
	"github.com/rcliao/patchdash/internal/modal"
	"github.com/rcliao/patchdash/internal/optimize"
	"github.com/rcliao/patchdash/internal/remote"
	"github.com/rcliao/patchdash/internal/state"
)

// app holds the components shared by the dashboard commands.
type app struct {
	metrics   *metrics.Metrics
	client    *remote.Client
	store     *state.Store
	notes     *annotations.SQLiteStore
	loader    *loader.Loader
	editor    *modal.PatchEditor
	chat      *modal.ChatSession
	viewer    *modal.RecommendationsViewer
	optimizer *optimize.Orchestrator
}

func newApp() (*app, error) {
	notes, err := openStore()
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	client := remote.New(cfg.API.URL, cfg.API.Timeout,
		remote.WithLogger(logger),
		remote.WithMetrics(m),
		remote.WithBestHourTTL(cfg.Cache.BestHourTTL),
	)
	st := state.New()
	if err := st.SelectDay(cfg.UI.Day); err != nil {
		notes.Close()
		return nil, err
	}

	l := loader.New(client, st, logger, m)
	viewer := modal.NewRecommendationsViewer(st, m)
	return &app{
		metrics: m,
		client:  client,
		store:   st,
		notes:   notes,
		loader:  l,
		editor: modal.NewPatchEditor(st, client, l, notes,
			modal.WithAuthor(author()),
			modal.WithEditorLogger(logger),
			modal.WithEditorMetrics(m),
		),
		chat:      modal.NewChatSession(st, client, logger, m),
		viewer:    viewer,
		optimizer: optimize.New(st, client, viewer, logger, m),
	}, nil
}

func (a *app) Close() error {
	return a.notes.Close()
}

func openApp() *app {
	a, err := newApp()
	if err != nil {
		exitErr("open", err)
	}
	return a
}

// author names the local user on saved annotations.
func author() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
