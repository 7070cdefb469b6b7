package reminder

import (
	"testing"
	"time"

	"dukan/internal/eventbus"
	"dukan/internal/trigger"
	logx "dukan/pkg/logx"
)

func TestSweepRunPublishesOverdue(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	events, unsub := bus.Subscribe(8)
	defer unsub()

	s := newTestService(t, openTestStore(t), trigger.Noop{})
	early := mustSchedule(t, s, ScheduleInput{DebtorID: "early", DueDate: testNow.Add(-48 * time.Hour)})
	late := mustSchedule(t, s, ScheduleInput{DebtorID: "late", DueDate: testNow.Add(-time.Hour)})
	mustSchedule(t, s, ScheduleInput{DebtorID: "future", DueDate: testNow.Add(time.Hour)})

	w := NewSweep(s, bus, logx.Nop())
	w.run()

	// One event per overdue reminder, ascending by due date.
	for _, want := range []Reminder{early, late} {
		select {
		case e := <-events:
			if e.Type != eventbus.ReminderOverdue {
				t.Fatalf("event type = %q, want %q", e.Type, eventbus.ReminderOverdue)
			}
			r, ok := e.Data.(Reminder)
			if !ok || r.ID != want.ID {
				t.Fatalf("event data = %+v, want reminder %s", e.Data, want.DebtorID)
			}
		default:
			t.Fatalf("missing overdue event for %s", want.DebtorID)
		}
	}
	select {
	case e := <-events:
		t.Fatalf("unexpected extra event: %+v", e)
	default:
	}
}

func TestSweepRunNothingOverdue(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	events, unsub := bus.Subscribe(8)
	defer unsub()

	s := newTestService(t, openTestStore(t), trigger.Noop{})
	mustSchedule(t, s, ScheduleInput{DebtorID: "future", DueDate: testNow.Add(time.Hour)})

	w := NewSweep(s, bus, logx.Nop())
	w.run()

	select {
	case e := <-events:
		t.Fatalf("unexpected event: %+v", e)
	default:
	}
}

func TestSweepStartStop(t *testing.T) {
	t.Parallel()
	s := newTestService(t, openTestStore(t), trigger.Noop{})
	w := NewSweep(s, nil, logx.Nop())

	// Disabled config never arms the schedule; Stop on an unstarted sweep
	// is a no-op.
	if err := w.Start(SweepConfig{}); err != nil {
		t.Fatalf("Start(disabled) error: %v", err)
	}
	w.Stop()

	if err := w.Start(SweepConfig{Enabled: true, Spec: "not a cron spec"}); err == nil {
		t.Fatal("bad spec accepted")
	}

	if err := w.Start(SweepConfig{Enabled: true, Spec: "@hourly"}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := w.Start(SweepConfig{Enabled: true, Spec: "@hourly"}); err == nil {
		t.Fatal("double Start accepted")
	}
	w.Stop()
	w.Stop()

	// Stop/Start cycles are how config reloads swap the schedule.
	if err := w.Start(SweepConfig{Enabled: true, Spec: "@daily"}); err != nil {
		t.Fatalf("restart error: %v", err)
	}
	w.Stop()
}
