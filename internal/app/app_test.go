package app

import (
	"context"
	"testing"

	"dukan/internal/config"
	"dukan/internal/reminder"
	"dukan/internal/storage"
	logx "dukan/pkg/logx"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		Log:     logx.Config{}, // no sinks: silent
		Storage: storage.Config{Driver: "file", Path: t.TempDir()},
	}
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = a.Stop(context.Background()) })
	return a
}

func TestApplyCommitsReloadedConfig(t *testing.T) {
	t.Parallel()
	a := newTestApp(t)

	a.mu.Lock()
	before := a.cfg
	a.mu.Unlock()

	next := &config.Config{
		Log:     before.Log,
		Storage: before.Storage,
		Telegram: config.TelegramConfig{
			// Enabled with no token: alerter construction fails, the send
			// path degrades to no channels instead of keeping stale ones.
			Enabled: true,
		},
	}
	a.Apply(next)

	a.mu.Lock()
	committed := a.cfg
	a.mu.Unlock()
	if committed != next {
		t.Fatal("reloaded config not committed")
	}

	// A reload that only touches storage warns and changes nothing live;
	// the committed config still advances so later diffs are correct.
	again := *next
	again.Storage.Path = t.TempDir()
	a.Apply(&again)
	a.mu.Lock()
	committed = a.cfg
	a.mu.Unlock()
	if committed != &again {
		t.Fatal("storage-only reload not committed")
	}

	// Nil is what a misbehaving caller would pass; must be a no-op.
	a.Apply(nil)
	a.mu.Lock()
	committed = a.cfg
	a.mu.Unlock()
	if committed != &again {
		t.Fatal("nil reload clobbered config")
	}
}

func TestApplyRestartsSweep(t *testing.T) {
	t.Parallel()
	a := newTestApp(t)
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	a.mu.Lock()
	base := *a.cfg
	a.mu.Unlock()

	on := base
	on.Sweep = reminder.SweepConfig{Enabled: true, Spec: "@hourly"}
	a.Apply(&on)

	off := on
	off.Sweep = reminder.SweepConfig{}
	a.Apply(&off)

	// Stop after a reload cycle must still shut down cleanly.
	if err := a.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}
