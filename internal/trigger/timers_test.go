package trigger

import (
	"context"
	"sync"
	"testing"
	"time"

	logx "dukan/pkg/logx"
)

type fireRecorder struct {
	mu       sync.Mutex
	payloads []Payload
	ch       chan Payload
}

func newFireRecorder() *fireRecorder {
	return &fireRecorder{ch: make(chan Payload, 8)}
}

func (f *fireRecorder) fire(p Payload) {
	f.mu.Lock()
	f.payloads = append(f.payloads, p)
	f.mu.Unlock()
	f.ch <- p
}

func (f *fireRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func (f *fireRecorder) wait(t *testing.T) Payload {
	t.Helper()
	select {
	case p := <-f.ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
		return Payload{}
	}
}

func TestRegisterPastDeadlineFiresImmediately(t *testing.T) {
	t.Parallel()
	rec := newFireRecorder()
	tm := NewTimers(rec.fire, logx.Nop())
	defer tm.Stop()

	h, err := tm.Register(context.Background(), time.Now().Add(-time.Hour), Payload{ReminderID: "r1", DebtorID: "d1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if h == "" {
		t.Fatal("empty handle")
	}
	p := rec.wait(t)
	if p.ReminderID != "r1" || p.DebtorID != "d1" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestRegisterZeroDeadlineRejected(t *testing.T) {
	t.Parallel()
	tm := NewTimers(func(Payload) {}, logx.Nop())
	defer tm.Stop()

	if _, err := tm.Register(context.Background(), time.Time{}, Payload{}); err == nil {
		t.Fatal("zero deadline accepted")
	}
}

func TestCancelPreventsFire(t *testing.T) {
	t.Parallel()
	rec := newFireRecorder()
	tm := NewTimers(rec.fire, logx.Nop())
	defer tm.Stop()

	h, err := tm.Register(context.Background(), time.Now().Add(50*time.Millisecond), Payload{ReminderID: "r1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := tm.Cancel(context.Background(), h); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}

	time.Sleep(150 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("fired %d times after cancel, want 0", got)
	}

	// Canceling again, or canceling garbage, stays a no-op.
	if err := tm.Cancel(context.Background(), h); err != nil {
		t.Fatalf("second Cancel error: %v", err)
	}
	if err := tm.Cancel(context.Background(), ""); err != nil {
		t.Fatalf("Cancel(empty) error: %v", err)
	}
}

func TestFireRemovesHandle(t *testing.T) {
	t.Parallel()
	rec := newFireRecorder()
	tm := NewTimers(rec.fire, logx.Nop())
	defer tm.Stop()

	h, err := tm.Register(context.Background(), time.Now().Add(10*time.Millisecond), Payload{ReminderID: "r1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	rec.wait(t)

	tm.mu.Lock()
	_, timerLeft := tm.timers[h]
	_, verLeft := tm.vers[h]
	tm.mu.Unlock()
	if timerLeft || verLeft {
		t.Fatal("fired handle not cleaned up")
	}
}

func TestStopHaltsEverything(t *testing.T) {
	t.Parallel()
	rec := newFireRecorder()
	tm := NewTimers(rec.fire, logx.Nop())

	for i := 0; i < 3; i++ {
		if _, err := tm.Register(context.Background(), time.Now().Add(50*time.Millisecond), Payload{}); err != nil {
			t.Fatalf("Register error: %v", err)
		}
	}
	tm.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("fired %d times after Stop, want 0", got)
	}

	if _, err := tm.Register(context.Background(), time.Now().Add(time.Minute), Payload{}); err == nil {
		t.Fatal("Register accepted after Stop")
	}
}
