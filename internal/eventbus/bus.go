// Package eventbus carries the engine's lifecycle signals: a notification
// was sent or read, a reminder was scheduled, fired, or fell overdue.
// Consumers are observers (logging, UI refresh hooks); no engine operation
// depends on an event being received.
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

// Type names a lifecycle event.
type Type string

const (
	NotificationSent    Type = "notification.sent"
	NotificationRead    Type = "notification.read"
	NotificationDeleted Type = "notification.deleted"
	ReminderScheduled   Type = "reminder.scheduled"
	ReminderCanceled    Type = "reminder.canceled"
	ReminderOverdue     Type = "reminder.overdue"
)

// Event is a lightweight in-memory signal.
//
// Contract:
//   - Publish never blocks.
//   - Slow subscribers drop events rather than stalling the publisher.
//
// Data holds the notification or reminder record the event is about.
type Event struct {
	Type Type
	Time time.Time
	Data any
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

// New returns an in-memory fanout bus. It owns no goroutines.
func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

// Publish delivers e to every subscriber whose buffer has room. The read
// lock is held across the sends; they cannot block, and holding it keeps
// unsubscribe (which closes the channel) from interleaving with a send.
func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 8
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			close(ch)
			b.mu.Unlock()
		})
	}
	return ch, unsub
}
