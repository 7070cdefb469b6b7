package trigger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	logx "dukan/pkg/logx"

	"github.com/google/uuid"
)

// FireFunc receives the payload of a trigger that reached its deadline.
// It runs on the timer goroutine; keep it short.
type FireFunc func(p Payload)

// Timers is an in-process Adapter backed by wall-clock timers.
//
// Handles are versioned: a stale callback from a timer that was replaced
// or canceled is ignored, so Cancel followed by the old deadline passing
// never double-fires.
type Timers struct {
	log  logx.Logger
	fire FireFunc

	mu      sync.Mutex
	timers  map[string]*time.Timer
	vers    map[string]uint64
	stopped bool
}

func NewTimers(fire FireFunc, log logx.Logger) *Timers {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Timers{
		log:    log,
		fire:   fire,
		timers: map[string]*time.Timer{},
		vers:   map[string]uint64{},
	}
}

func (t *Timers) Supported() bool { return true }

func (t *Timers) Register(ctx context.Context, fireAt time.Time, p Payload) (string, error) {
	_ = ctx
	if fireAt.IsZero() {
		return "", errors.New("fireAt required")
	}

	handle := uuid.NewString()
	delay := time.Until(fireAt)
	// Immediate-fire semantics for deadlines already in the past.
	if delay < 0 {
		delay = 0
	}

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return "", errors.New("trigger adapter stopped")
	}
	ver := t.vers[handle] + 1
	t.vers[handle] = ver

	localVer := ver
	tmr := time.AfterFunc(delay, func() {
		t.mu.Lock()
		cur, ok := t.vers[handle]
		if !ok || cur != localVer || t.stopped {
			t.mu.Unlock()
			return
		}
		delete(t.timers, handle)
		delete(t.vers, handle)
		fire := t.fire
		t.mu.Unlock()

		t.log.Debug("trigger fired", logx.String("handle", handle), logx.String("reminder", p.ReminderID))
		if fire != nil {
			fire(p)
		}
	})
	t.timers[handle] = tmr
	t.mu.Unlock()

	t.log.Debug("trigger registered",
		logx.String("handle", handle),
		logx.Time("fire_at", fireAt),
		logx.Duration("delay", delay))
	return handle, nil
}

func (t *Timers) Cancel(ctx context.Context, handle string) error {
	_ = ctx
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil
	}
	t.mu.Lock()
	if tmr, ok := t.timers[handle]; ok {
		_ = tmr.Stop()
		delete(t.timers, handle)
	}
	delete(t.vers, handle)
	t.mu.Unlock()
	return nil
}

// Stop halts all pending timers. Register fails afterwards.
func (t *Timers) Stop() {
	t.mu.Lock()
	t.stopped = true
	for h, tmr := range t.timers {
		_ = tmr.Stop()
		delete(t.timers, h)
	}
	t.vers = map[string]uint64{}
	t.mu.Unlock()
}
