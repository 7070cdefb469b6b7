package notify

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dukan/internal/eventbus"
	"dukan/internal/storage"
	"dukan/internal/template"
	logx "dukan/pkg/logx"

	"github.com/google/uuid"
)

const (
	notificationsKey = "notifications"
	templatesKey     = "templates"
)

// Service owns the notification and template collections.
//
// All mutations are read-modify-write against the in-memory lists under
// one mutex, then persisted as a whole-collection save. Overlapping
// callers serialize; the persisted state never loses a record to a race.
type Service struct {
	mu sync.Mutex

	log      logx.Logger
	store    storage.Store
	bus      eventbus.Bus
	alerters []Alerter
	now      func() time.Time

	notifications []Notification // most-recent-first
	templates     []template.Template
}

// New loads both collections from the store. An empty or unreadable
// template collection is reseeded from the defaults and persisted; the
// reseed is idempotent, so repeated restarts converge on the same set.
func New(ctx context.Context, store storage.Store, log logx.Logger, bus eventbus.Bus, alerters ...Alerter) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{
		log:      log,
		store:    store,
		bus:      bus,
		alerters: alerters,
		now:      time.Now,
	}

	s.notifications = storage.Load(ctx, store, log, notificationsKey, []Notification{})
	s.templates = storage.Load(ctx, store, log, templatesKey, []template.Template{})
	if len(s.templates) == 0 {
		s.templates = template.Defaults()
		if err := storage.Save(ctx, store, templatesKey, s.templates); err != nil {
			log.Warn("template seed persist failed", logx.Err(err))
		} else {
			log.Info("templates seeded", logx.Int("count", len(s.templates)))
		}
	}
	return s
}

// Send creates one notification and returns its id.
//
// The record is prepended (most-recent-first) and the whole collection is
// persisted before any delivery side effect runs. Persistence failures
// roll the record back and propagate; alerter failures are logged and
// swallowed.
func (s *Service) Send(ctx context.Context, in SendInput) (string, error) {
	n, err := s.build(in)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.notifications = append([]Notification{n}, s.notifications...)
	if err := storage.Save(ctx, s.store, notificationsKey, s.notifications); err != nil {
		s.notifications = s.notifications[1:]
		s.mu.Unlock()
		return "", err
	}
	s.mu.Unlock()

	s.publish(eventbus.NotificationSent, n)
	s.alert(ctx, n)
	return n.ID, nil
}

// SendToMany creates one record per recipient id in a single persisted
// batch: either every record lands or the whole batch fails. Delivery
// side effects run once per call, not per recipient.
func (s *Service) SendToMany(ctx context.Context, in SendInput, recipientIDs []string) ([]string, error) {
	if len(recipientIDs) == 0 {
		return nil, ErrNoRecipients
	}

	batch := make([]Notification, 0, len(recipientIDs))
	ids := make([]string, 0, len(recipientIDs))
	for _, rid := range recipientIDs {
		one := in
		one.RecipientID = rid
		n, err := s.build(one)
		if err != nil {
			return nil, err
		}
		batch = append(batch, n)
		ids = append(ids, n.ID)
	}

	s.mu.Lock()
	s.notifications = append(batch, s.notifications...)
	if err := storage.Save(ctx, s.store, notificationsKey, s.notifications); err != nil {
		s.notifications = s.notifications[len(batch):]
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	s.publish(eventbus.NotificationSent, batch[0])
	s.alert(ctx, batch[0])
	return ids, nil
}

func (s *Service) build(in SendInput) (Notification, error) {
	if strings.TrimSpace(in.RecipientRole) == "" {
		return Notification{}, ErrRecipientRoleRequired
	}
	typ := in.Type
	if typ == "" {
		typ = template.TypeGeneral
	}
	return Notification{
		ID:            uuid.NewString(),
		Type:          typ,
		Title:         in.Title,
		Message:       in.Message,
		SenderRole:    in.SenderRole,
		SenderID:      in.SenderID,
		RecipientRole: in.RecipientRole,
		RecipientID:   in.RecipientID,
		MarketID:      in.MarketID,
		Read:          false,
		CreatedAt:     s.now(),
	}, nil
}

// MarkRead flips one notification to read. Unknown ids and already-read
// records are a no-op; nothing is persisted then.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	changed := false
	var hit Notification
	for i := range s.notifications {
		if s.notifications[i].ID == id && !s.notifications[i].Read {
			s.notifications[i].Read = true
			hit = s.notifications[i]
			changed = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	if err := storage.Save(ctx, s.store, notificationsKey, s.notifications); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.publish(eventbus.NotificationRead, hit)
	return nil
}

// MarkAllRead flips every matching unread notification. Idempotent.
func (s *Service) MarkAllRead(ctx context.Context, f Filter) error {
	s.mu.Lock()
	changed := 0
	for i := range s.notifications {
		if !s.notifications[i].Read && f.matches(s.notifications[i]) {
			s.notifications[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		s.mu.Unlock()
		return nil
	}
	if err := storage.Save(ctx, s.store, notificationsKey, s.notifications); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.log.Debug("notifications marked read",
		logx.String("role", f.RecipientRole),
		logx.Int("count", changed))
	return nil
}

// Delete removes one notification by id. Unknown ids are a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.notifications[:0:0]
	var hit *Notification
	for _, n := range s.notifications {
		if n.ID == id {
			nn := n
			hit = &nn
			continue
		}
		kept = append(kept, n)
	}
	if hit == nil {
		s.mu.Unlock()
		return nil
	}
	prev := s.notifications
	s.notifications = kept
	if err := storage.Save(ctx, s.store, notificationsKey, s.notifications); err != nil {
		s.notifications = prev
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.publish(eventbus.NotificationDeleted, *hit)
	return nil
}

// DeleteAll removes every matching notification.
func (s *Service) DeleteAll(ctx context.Context, f Filter) error {
	s.mu.Lock()
	kept := s.notifications[:0:0]
	removed := 0
	for _, n := range s.notifications {
		if f.matches(n) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	if removed == 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.notifications
	s.notifications = kept
	if err := storage.Save(ctx, s.store, notificationsKey, s.notifications); err != nil {
		s.notifications = prev
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.log.Debug("notifications deleted",
		logx.String("role", f.RecipientRole),
		logx.Int("count", removed))
	return nil
}

// Query returns the matching notifications, most recent first.
func (s *Service) Query(f Filter) []Notification {
	s.mu.Lock()
	out := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if f.matches(n) {
			out = append(out, n)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UnreadCount counts matching unread notifications.
func (s *Service) UnreadCount(f Filter) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := 0
	for _, n := range s.notifications {
		if !n.Read && f.matches(n) {
			c++
		}
	}
	return c
}

// TemplatesFor returns the templates a sender role may use, optionally
// narrowed to one recipient role.
func (s *Service) TemplatesFor(senderRole, recipientRole string) []template.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]template.Template, 0, len(s.templates))
	for _, t := range s.templates {
		if template.Match(t, senderRole, recipientRole) {
			out = append(out, t)
		}
	}
	return out
}

// SetAlerters replaces the delivery channels wholesale. Used on config
// reload; in-flight alerts finish against the snapshot they started with.
func (s *Service) SetAlerters(alerters ...Alerter) {
	s.mu.Lock()
	s.alerters = alerters
	s.mu.Unlock()
}

// alert runs each alerter exactly once for this call. Best-effort: a
// failing channel is logged and never fails the send.
func (s *Service) alert(ctx context.Context, n Notification) {
	s.mu.Lock()
	alerters := s.alerters
	s.mu.Unlock()
	for _, a := range alerters {
		if a == nil {
			continue
		}
		if err := a.Alert(ctx, n); err != nil {
			s.log.Warn("alert failed",
				logx.String("alerter", a.Name()),
				logx.String("id", n.ID),
				logx.Err(err))
		}
	}
}

func (s *Service) publish(typ eventbus.Type, n Notification) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: typ, Data: n})
}
