package storage

import (
	"context"
	"encoding/json"

	logx "dukan/pkg/logx"
)

// Load reads the collection stored under key into T.
//
// Missing keys and disabled storage return def. Malformed payloads are
// logged, the offending key is erased, and def is returned; a corrupted
// record must never propagate a parse error to callers.
func Load[T any](ctx context.Context, s Store, log logx.Logger, key string, def T) T {
	if s == nil {
		return def
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	b, ok, err := s.Get(ctx, key)
	if err != nil {
		log.Warn("storage read failed", logx.String("key", key), logx.Err(err))
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		log.Warn("corrupt record erased", logx.String("key", key), logx.Err(err))
		if derr := s.Delete(ctx, key); derr != nil {
			log.Warn("corrupt record erase failed", logx.String("key", key), logx.Err(derr))
		}
		return def
	}
	return v
}

// Save replaces the collection stored under key with v.
// Unlike Load, write failures propagate: a dropped save means the
// in-memory and persisted states diverge.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, b)
}
