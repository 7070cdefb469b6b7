// Package storage persists the engine's record collections.
//
// Collections (notifications, templates, reminders) are stored whole:
// every save replaces the full value under its key. Loads tolerate
// malformed payloads by erasing the offending key and handing back the
// caller-supplied default, so a corrupted store never takes the engine
// down.
package storage
