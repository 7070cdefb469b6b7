package notify

import (
	"context"
	"errors"
	"time"

	"dukan/internal/template"
)

var (
	ErrRecipientRoleRequired = errors.New("recipient role required")
	ErrNoRecipients          = errors.New("no recipient ids")
)

// Notification is a delivered, fully resolved message. The JSON shape is
// the persisted record format and must stay stable across restarts.
type Notification struct {
	ID            string        `json:"id"`
	Type          template.Type `json:"type"`
	Title         string        `json:"title"`
	Message       string        `json:"message"`
	SenderRole    string        `json:"senderRole"`
	SenderID      string        `json:"senderId,omitempty"`
	RecipientRole string        `json:"recipientRole"`
	RecipientID   string        `json:"recipientId,omitempty"` // empty = broadcast to the role
	MarketID      string        `json:"marketId,omitempty"`
	Read          bool          `json:"isRead"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// SendInput carries the caller-supplied fields of a send.
type SendInput struct {
	Type          template.Type
	Title         string
	Message       string
	SenderRole    string
	SenderID      string
	RecipientRole string
	RecipientID   string
	MarketID      string
}

// Filter selects notifications for one recipient identity.
// An empty RecipientID selects everything addressed to the role.
type Filter struct {
	RecipientRole string
	RecipientID   string
}

// matches implements the delivery rule: the role must match, and a
// broadcast record (no recipient id) is visible to every identity
// holding the role.
func (f Filter) matches(n Notification) bool {
	if n.RecipientRole != f.RecipientRole {
		return false
	}
	if f.RecipientID == "" || n.RecipientID == "" {
		return true
	}
	return n.RecipientID == f.RecipientID
}

// Alerter surfaces a freshly created notification on a delivery channel
// (platform notification tray, alert sound, ops chat). Implementations
// are best-effort: a failing alerter never fails the send.
type Alerter interface {
	Name() string
	Alert(ctx context.Context, n Notification) error
}
