// Package trigger defines the boundary to the platform's time-trigger
// facility. The engine consumes this capability; it does not implement
// push delivery itself. Platforms without any such facility plug in Noop
// and reminders degrade to data the caller polls via upcoming/overdue.
package trigger

import (
	"context"
	"time"
)

// Payload is what a registered trigger carries back when it fires.
type Payload struct {
	ReminderID string `json:"reminderId"`
	DebtorID   string `json:"debtorId"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

// Adapter is the external scheduler facility.
//
// Register returns an opaque handle used for cancellation. Implementations
// fire immediately when fireAt is in the past. Cancel on an unknown handle
// is not an error.
type Adapter interface {
	// Supported reports whether a trigger facility exists at all on this
	// platform. When false, Register and Cancel are never called.
	Supported() bool
	Register(ctx context.Context, fireAt time.Time, p Payload) (handle string, err error)
	Cancel(ctx context.Context, handle string) error
}

// Noop is the adapter for platforms without a trigger facility.
type Noop struct{}

func (Noop) Supported() bool { return false }

func (Noop) Register(ctx context.Context, fireAt time.Time, p Payload) (string, error) {
	_, _, _ = ctx, fireAt, p
	return "", nil
}

func (Noop) Cancel(ctx context.Context, handle string) error {
	_, _ = ctx, handle
	return nil
}
