package cache

import (
	"context"

	"github.com/goserg/guildrating/internal/domain"
)

// Cache holds profiles keyed by player id.
type Cache interface {
	Get(ctx context.Context, playerID string) (domain.PlayerProfile, bool)
	Set(ctx context.Context, profile domain.PlayerProfile)
	Invalidate(ctx context.Context, playerID string)
}
