package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	cacheport "chatline/internal/infrastructure/cache/port"
	"chatline/internal/pkg/identity/port"
)

// CachedDirectory wraps a Directory with a short-TTL cache for profile
// lookups. Display names and avatars tolerate bounded staleness; the
// relationship check does not go through here and is never cached.
type CachedDirectory struct {
	inner port.Directory
	cache cacheport.Cache
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedDirectory(inner port.Directory, cache cacheport.Cache, ttl time.Duration, log *slog.Logger) *CachedDirectory {
	return &CachedDirectory{inner: inner, cache: cache, ttl: ttl, log: log}
}

var _ port.Directory = (*CachedDirectory)(nil)

func (d *CachedDirectory) Lookup(ctx context.Context, id int64) (port.Profile, error) {
	key := fmt.Sprintf("profile:%d", id)

	if raw, err := d.cache.Get(ctx, key); err == nil {
		var p port.Profile
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
		// Unreadable entry: drop it and fall through to the source.
		_, _ = d.cache.Del(ctx, key)
	} else if !errors.Is(err, cacheport.ErrMiss) {
		d.log.Warn("profile cache read failed", "id", id, "error", err)
	}

	p, err := d.inner.Lookup(ctx, id)
	if err != nil {
		return port.Profile{}, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := d.cache.Set(ctx, key, string(raw), d.ttl); err != nil {
			d.log.Warn("profile cache write failed", "id", id, "error", err)
		}
	}
	return p, nil
}
