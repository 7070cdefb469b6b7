package reminder

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dukan/internal/eventbus"
	"dukan/internal/storage"
	"dukan/internal/trigger"
	logx "dukan/pkg/logx"

	"github.com/google/uuid"
)

const remindersKey = "reminders"

// Service owns the reminder collection and its external triggers.
//
// The trigger adapter is an optional collaborator: when it reports no
// support, reminders are still persisted and remain queryable through
// Upcoming and Overdue, they just never fire on their own.
type Service struct {
	mu sync.Mutex

	log     logx.Logger
	store   storage.Store
	bus     eventbus.Bus
	adapter trigger.Adapter
	now     func() time.Time

	reminders []Reminder
}

// New loads the persisted reminders. A nil adapter behaves like one that
// reports no trigger support.
func New(ctx context.Context, store storage.Store, adapter trigger.Adapter, log logx.Logger, bus eventbus.Bus) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if adapter == nil {
		adapter = trigger.Noop{}
	}
	return &Service{
		log:       log,
		store:     store,
		bus:       bus,
		adapter:   adapter,
		now:       time.Now,
		reminders: storage.Load(ctx, store, log, remindersKey, []Reminder{}),
	}
}

// Schedule creates a reminder and, when the platform has a trigger
// facility, registers a wall-clock trigger at the due date (immediate
// fire when the due date already passed).
//
// The reminder is persisted regardless of the adapter outcome; a register
// failure only costs the trigger handle. Persistence failures propagate
// and the record is rolled back.
func (s *Service) Schedule(ctx context.Context, in ScheduleInput) (Reminder, error) {
	if strings.TrimSpace(in.DebtorID) == "" {
		return Reminder{}, ErrDebtorRequired
	}
	if in.DueDate.IsZero() {
		return Reminder{}, ErrDueDateRequired
	}

	r := Reminder{
		ID:         uuid.NewString(),
		DebtorID:   in.DebtorID,
		DebtorName: in.DebtorName,
		Amount:     in.Amount,
		DueDate:    in.DueDate,
		Message:    in.Message,
		Active:     true,
		CreatedAt:  s.now(),
	}

	if s.adapter.Supported() {
		handle, err := s.adapter.Register(ctx, r.DueDate, trigger.Payload{
			ReminderID: r.ID,
			DebtorID:   r.DebtorID,
			Title:      r.DebtorName,
			Message:    r.Message,
		})
		if err != nil {
			s.log.Warn("trigger register failed; reminder kept local-only",
				logx.String("debtor", r.DebtorID), logx.Err(err))
		} else {
			r.TriggerHandle = handle
		}
	}

	s.mu.Lock()
	s.reminders = append(s.reminders, r)
	if err := storage.Save(ctx, s.store, remindersKey, s.reminders); err != nil {
		s.reminders = s.reminders[:len(s.reminders)-1]
		s.mu.Unlock()
		if r.TriggerHandle != "" {
			if cerr := s.adapter.Cancel(ctx, r.TriggerHandle); cerr != nil {
				s.log.Warn("trigger rollback cancel failed", logx.Err(cerr))
			}
		}
		return Reminder{}, err
	}
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.ReminderScheduled, Data: r})
	}
	s.log.Debug("reminder scheduled",
		logx.String("id", r.ID),
		logx.String("debtor", r.DebtorID),
		logx.Time("due", r.DueDate),
		logx.Bool("trigger", r.TriggerHandle != ""))
	return r, nil
}

// Cancel removes a reminder. The external trigger is canceled best-effort;
// the local removal is unconditional even when the adapter fails. Unknown
// ids are a no-op.
func (s *Service) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	r := s.reminders[idx]
	s.reminders = append(s.reminders[:idx], s.reminders[idx+1:]...)
	err := storage.Save(ctx, s.store, remindersKey, s.reminders)
	s.mu.Unlock()

	if r.TriggerHandle != "" && s.adapter.Supported() {
		if cerr := s.adapter.Cancel(ctx, r.TriggerHandle); cerr != nil {
			s.log.Warn("trigger cancel failed", logx.String("id", id), logx.Err(cerr))
		}
	}
	if err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.ReminderCanceled, Data: r})
	}
	s.log.Debug("reminder canceled", logx.String("id", id))
	return nil
}

// Upcoming returns active reminders due strictly between now and
// now+withinDays, ascending by due date.
func (s *Service) Upcoming(withinDays int) []Reminder {
	now := s.now()
	limit := now.AddDate(0, 0, withinDays)

	s.mu.Lock()
	out := make([]Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.Active && r.DueDate.After(now) && r.DueDate.Before(limit) {
			out = append(out, r)
		}
	}
	s.mu.Unlock()

	sortByDue(out)
	return out
}

// Overdue returns active reminders whose due date has passed, ascending
// by due date.
func (s *Service) Overdue() []Reminder {
	now := s.now()

	s.mu.Lock()
	out := make([]Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.Active && !r.DueDate.After(now) {
			out = append(out, r)
		}
	}
	s.mu.Unlock()

	sortByDue(out)
	return out
}

// Rearm re-registers triggers for active reminders with a future due
// date. Call once after restart: in-process timers do not survive the
// previous process, so the persisted handles are stale.
func (s *Service) Rearm(ctx context.Context) error {
	if !s.adapter.Supported() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rearmed := 0
	for i := range s.reminders {
		r := &s.reminders[i]
		if !r.Active || !r.DueDate.After(now) {
			continue
		}
		handle, err := s.adapter.Register(ctx, r.DueDate, trigger.Payload{
			ReminderID: r.ID,
			DebtorID:   r.DebtorID,
			Title:      r.DebtorName,
			Message:    r.Message,
		})
		if err != nil {
			s.log.Warn("trigger rearm failed", logx.String("id", r.ID), logx.Err(err))
			r.TriggerHandle = ""
			continue
		}
		r.TriggerHandle = handle
		rearmed++
	}
	if rearmed == 0 {
		return nil
	}
	s.log.Info("reminders rearmed", logx.Int("count", rearmed))
	return storage.Save(ctx, s.store, remindersKey, s.reminders)
}

func sortByDue(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].DueDate.Before(rs[j].DueDate)
	})
}
