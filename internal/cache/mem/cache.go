package mem

import (
	"context"
	"sync"
	"time"

	"github.com/goserg/guildrating/internal/cache"
	"github.com/goserg/guildrating/internal/domain"
)

type entry struct {
	profile domain.PlayerProfile
	expires time.Time
}

// Cache is an in-process profile cache with a fixed TTL.
type Cache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	profiles map[string]entry
}

var _ cache.Cache = (*Cache)(nil)

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:      ttl,
		now:      time.Now,
		profiles: make(map[string]entry),
	}
}

func (c *Cache) Get(_ context.Context, playerID string) (domain.PlayerProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.profiles[playerID]
	if !ok || c.now().After(e.expires) {
		return domain.PlayerProfile{}, false
	}
	return e.profile.Clone(), true
}

func (c *Cache) Set(_ context.Context, profile domain.PlayerProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.profiles[profile.PlayerID] = entry{
		profile: profile.Clone(),
		expires: c.now().Add(c.ttl),
	}
}

func (c *Cache) Invalidate(_ context.Context, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.profiles, playerID)
}
