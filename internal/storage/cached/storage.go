package cached

import (
	"context"

	"github.com/goserg/guildrating/internal/cache"
	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/storage"
)

// Storage serves profile reads from a cache in front of another storage.
// Every save invalidates the cached entry of the player, whether the write
// succeeded or not.
type Storage struct {
	next  storage.ProfileStorage
	cache cache.Cache
}

var _ storage.ProfileStorage = (*Storage)(nil)

func New(next storage.ProfileStorage, c cache.Cache) *Storage {
	return &Storage{
		next:  next,
		cache: c,
	}
}

func (s *Storage) LoadProfile(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
	if profile, ok := s.cache.Get(ctx, playerID); ok {
		return profile, nil
	}
	profile, err := s.next.LoadProfile(ctx, playerID)
	if err != nil {
		return domain.PlayerProfile{}, err
	}
	s.cache.Set(ctx, profile)
	return profile, nil
}

func (s *Storage) SaveProfile(ctx context.Context, profile *domain.PlayerProfile) error {
	defer s.cache.Invalidate(ctx, profile.PlayerID)
	return s.next.SaveProfile(ctx, profile)
}

// ListProfiles always reads through.
func (s *Storage) ListProfiles(ctx context.Context, limit int) ([]domain.PlayerProfile, error) {
	return s.next.ListProfiles(ctx, limit)
}
