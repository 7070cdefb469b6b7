// Package notify implements the notification service: creation from
// caller-resolved text or role-scoped templates, broadcast fan-out,
// per-recipient read state, and durable whole-collection persistence.
//
// Ordering contract: notifications are presented most-recent-first by
// creation time. Read flips are one-directional (unread to read, never
// back).
package notify
