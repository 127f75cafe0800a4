package adapter

import (
	"context"
	"encoding/json"
	"time"

	cacheport "github.com/texura-githhubsource/SMS/internal/infrastructure/cache/port"
	"github.com/texura-githhubsource/SMS/internal/pkg/identity/port"
	messaging "github.com/texura-githhubsource/SMS/internal/pkg/messaging/application/domain"
)

const identityTTL = 5 * time.Minute

// CachedDirectory decorates a Directory with a short-TTL cache. Identity
// lookups sit on the hot path of every relayed message, and profiles change
// rarely enough that a few minutes of staleness is acceptable.
//
// Cache failures are soft: any cache error falls through to the inner
// directory so the relay keeps working when Redis is down.
type CachedDirectory struct {
	inner port.Directory
	cache cacheport.Cache
	ttl   time.Duration
}

func NewCachedDirectory(inner port.Directory, cache cacheport.Cache) *CachedDirectory {
	return &CachedDirectory{inner: inner, cache: cache, ttl: identityTTL}
}

var _ port.Directory = (*CachedDirectory)(nil)

func (d *CachedDirectory) Lookup(ctx context.Context, userID string) (*messaging.Identity, error) {
	key := "identity:" + userID
	if raw, err := d.cache.Get(ctx, key); err == nil && raw != "" {
		var ident messaging.Identity
		if json.Unmarshal([]byte(raw), &ident) == nil {
			return &ident, nil
		}
	}

	ident, err := d.inner.Lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(ident); err == nil {
		_ = d.cache.Set(ctx, key, string(raw), d.ttl)
	}
	return ident, nil
}

func (d *CachedDirectory) LookupClassroom(ctx context.Context, classroomID string) (*messaging.Classroom, error) {
	key := "classroom:" + classroomID
	if raw, err := d.cache.Get(ctx, key); err == nil && raw != "" {
		var room messaging.Classroom
		if json.Unmarshal([]byte(raw), &room) == nil {
			return &room, nil
		}
	}

	room, err := d.inner.LookupClassroom(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(room); err == nil {
		_ = d.cache.Set(ctx, key, string(raw), d.ttl)
	}
	return room, nil
}
