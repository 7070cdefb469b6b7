package reminder

import (
	"errors"
	"strings"
	"sync"
	"time"

	"dukan/internal/eventbus"
	logx "dukan/pkg/logx"

	"github.com/robfig/cron/v3"
)

// SweepConfig controls the periodic overdue sweep.
type SweepConfig struct {
	Enabled  bool   `json:"enabled"`
	Spec     string `json:"spec"`     // cron spec, e.g. "0 9 * * *"
	Timezone string `json:"timezone"` // IANA TZ; empty = local
}

// Sweep publishes a reminder.overdue event for every overdue reminder on
// a cron schedule. It exists for platforms running the Noop trigger
// adapter, where polling is the only way reminders ever surface.
type Sweep struct {
	log logx.Logger
	svc *Service
	bus eventbus.Bus

	mu sync.Mutex // config reload may restart the sweep while shutdown stops it
	c  *cron.Cron
}

func NewSweep(svc *Service, bus eventbus.Bus, log logx.Logger) *Sweep {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Sweep{log: log, svc: svc, bus: bus}
}

// Start registers the cron schedule. Calling Start on a running sweep is
// an error; Stop first.
func (w *Sweep) Start(cfg SweepConfig) error {
	if !cfg.Enabled {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.c != nil {
		return errors.New("sweep already started")
	}
	spec := strings.TrimSpace(cfg.Spec)
	if spec == "" {
		spec = "@hourly"
	}

	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			w.log.Warn("invalid sweep timezone; falling back to Local", logx.String("tz", tz), logx.Err(err))
		} else {
			loc = l
		}
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, w.run); err != nil {
		return err
	}
	c.Start()
	w.c = c
	w.log.Info("overdue sweep started", logx.String("spec", spec), logx.String("tz", loc.String()))
	return nil
}

// Stop halts the schedule and waits for an in-flight run.
func (w *Sweep) Stop() {
	w.mu.Lock()
	c := w.c
	w.c = nil
	w.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
	w.log.Info("overdue sweep stopped")
}

func (w *Sweep) run() {
	overdue := w.svc.Overdue()
	if len(overdue) == 0 {
		return
	}
	w.log.Debug("overdue sweep", logx.Int("count", len(overdue)))
	if w.bus == nil {
		return
	}
	for _, r := range overdue {
		w.bus.Publish(eventbus.Event{Type: eventbus.ReminderOverdue, Data: r})
	}
}
