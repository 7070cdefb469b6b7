// Package app wires the engine together: storage, trigger adapter,
// alerters, and the two services. There is no global singleton; the
// caller constructs one App at startup and passes it down (explicit
// dependency injection).
package app

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"dukan/internal/config"
	"dukan/internal/eventbus"
	"dukan/internal/notify"
	"dukan/internal/reminder"
	"dukan/internal/storage"
	"dukan/internal/template"
	"dukan/internal/transport/telegram"
	"dukan/internal/trigger"
	logx "dukan/pkg/logx"
)

type App struct {
	mu        sync.Mutex // guards log, logCloser, cfg across hot reload
	log       logx.Logger
	logCloser io.Closer
	cfg       *config.Config

	store  storage.Store
	bus    eventbus.Bus
	timers *trigger.Timers
	sweep  *reminder.Sweep

	Notifications *notify.Service
	Reminders     *reminder.Service
}

// New builds the full engine from config. Construction loads persisted
// collections and seeds templates; Start arms the runtime pieces.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	log, closer, err := logx.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage, log.With(logx.String("comp", "storage")))
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	a := &App{
		log:       log,
		logCloser: closer,
		cfg:       cfg,
		store:     store,
		bus:       eventbus.New(),
	}

	a.Notifications = notify.New(ctx, store, log.With(logx.String("comp", "notify")), a.bus, buildAlerters(cfg, log)...)
	a.timers = trigger.NewTimers(a.onTriggerFired, log.With(logx.String("comp", "trigger")))
	a.Reminders = reminder.New(ctx, store, a.timers, log.With(logx.String("comp", "reminder")), a.bus)
	a.sweep = reminder.NewSweep(a.Reminders, a.bus, log.With(logx.String("comp", "sweep")))

	return a, nil
}

// buildAlerters constructs the configured delivery channels. Alerters are
// best-effort by contract; a bad telegram config degrades to no ops-chat
// surfacing instead of failing startup or reload.
func buildAlerters(cfg *config.Config, log logx.Logger) []notify.Alerter {
	var alerters []notify.Alerter
	if cfg.Telegram.Enabled {
		tg, err := telegram.New(telegram.Config{
			Token:      cfg.Telegram.Token,
			ChatID:     cfg.Telegram.ChatID,
			RatePerSec: cfg.Telegram.RatePerSec,
		}, log.With(logx.String("comp", "telegram")))
		if err != nil {
			log.Warn("telegram alerter disabled", logx.Err(err))
		} else {
			alerters = append(alerters, tg)
		}
	}
	return alerters
}

// Start rearms persisted reminder triggers and starts the overdue sweep.
func (a *App) Start(ctx context.Context) error {
	if err := a.Reminders.Rearm(ctx); err != nil {
		a.Log().Warn("reminder rearm persist failed", logx.Err(err))
	}
	a.mu.Lock()
	sweep := a.cfg.Sweep
	a.mu.Unlock()
	return a.sweep.Start(sweep)
}

// Apply re-applies the hot-reloadable parts of a changed config: log
// sinks, the telegram alerter, and the sweep schedule. Storage changes
// need a restart.
func (a *App) Apply(cfg *config.Config) {
	if cfg == nil {
		return
	}

	a.mu.Lock()
	prev := a.cfg
	if cfg.Storage != prev.Storage {
		a.log.Warn("storage config changed; restart required for changes to take effect")
	}

	if cfg.Log != prev.Log {
		log, closer, err := logx.New(cfg.Log)
		if err != nil {
			a.log.Warn("log reload failed; keeping previous", logx.Err(err))
		} else {
			if a.logCloser != nil {
				_ = a.logCloser.Close()
			}
			a.log = log
			a.logCloser = closer
		}
	}
	log := a.log
	sweepChanged := cfg.Sweep != prev.Sweep
	a.cfg = cfg
	a.mu.Unlock()

	if cfg.Telegram != prev.Telegram {
		a.Notifications.SetAlerters(buildAlerters(cfg, log)...)
	}

	if sweepChanged {
		a.sweep.Stop()
		if err := a.sweep.Start(cfg.Sweep); err != nil {
			log.Warn("sweep restart failed", logx.Err(err))
		}
	}
	log.Info("config applied")
}

// Stop halts timers and the sweep, then releases the store and log file.
func (a *App) Stop(ctx context.Context) error {
	_ = ctx
	a.sweep.Stop()
	a.timers.Stop()

	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	a.mu.Lock()
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
	a.mu.Unlock()
	return err
}

func (a *App) Bus() eventbus.Bus { return a.bus }

func (a *App) Log() logx.Logger {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.log
}

// onTriggerFired turns a fired debt-due trigger into a customer
// notification. The reminder record itself is untouched: it surfaces via
// Overdue until the caller cancels it.
func (a *App) onTriggerFired(p trigger.Payload) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "بیرخستنەوەی قەرز"
	}
	_, err := a.Notifications.Send(ctx, notify.SendInput{
		Type:          template.TypeCustomerInfo,
		Title:         title,
		Message:       p.Message,
		SenderRole:    "market",
		RecipientRole: "customer",
		RecipientID:   p.DebtorID,
	})
	if err != nil {
		a.Log().Warn("due reminder notification failed",
			logx.String("reminder", p.ReminderID), logx.Err(err))
	}
}
