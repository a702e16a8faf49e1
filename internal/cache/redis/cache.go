package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/goserg/guildrating/internal/cache"
	"github.com/goserg/guildrating/internal/domain"
)

const keyPrefix = "guildrating:profile:"

// client is the part of *redis.Client the cache uses.
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache stores JSON encoded profiles in redis. Errors are logged and
// treated as cache misses.
type Cache struct {
	client client
	ttl    time.Duration
	log    *logrus.Entry
}

var _ cache.Cache = (*Cache)(nil)

type Config struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		MinIdleConns: 2,
		PoolTimeout:  30 * time.Second,
	})
}

func New(c client, ttl time.Duration, l *logrus.Logger) *Cache {
	return &Cache{
		client: c,
		ttl:    ttl,
		log:    l.WithField("from", "redis-cache"),
	}
}

func key(playerID string) string {
	return keyPrefix + playerID
}

func (c *Cache) Get(ctx context.Context, playerID string) (domain.PlayerProfile, bool) {
	data, err := c.client.Get(ctx, key(playerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("player_id", playerID).Warn("cache get failed")
		}
		return domain.PlayerProfile{}, false
	}
	var profile domain.PlayerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		c.log.WithError(err).WithField("player_id", playerID).Warn("corrupted cache entry")
		return domain.PlayerProfile{}, false
	}
	return profile, true
}

func (c *Cache) Set(ctx context.Context, profile domain.PlayerProfile) {
	data, err := json.Marshal(profile)
	if err != nil {
		c.log.WithError(err).Warn("unable to encode profile")
		return
	}
	if err := c.client.Set(ctx, key(profile.PlayerID), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("player_id", profile.PlayerID).Warn("cache set failed")
	}
}

func (c *Cache) Invalidate(ctx context.Context, playerID string) {
	if err := c.client.Del(ctx, key(playerID)).Err(); err != nil {
		c.log.WithError(err).WithField("player_id", playerID).Warn("cache invalidation failed")
	}
}
