// Package reminder schedules debt-due reminders: durable records plus an
// optional external wall-clock trigger per reminder. Records survive
// restarts; triggers are rearmed on startup. A reminder is either active
// or gone: cancellation removes the record.
package reminder
