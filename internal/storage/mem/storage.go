package mem

import (
	"context"
	"sort"
	"sync"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/storage"
)

// Storage keeps profiles in process memory.
type Storage struct {
	mu             sync.RWMutex
	startingRating int
	profiles       map[string]domain.PlayerProfile
}

var _ storage.ProfileStorage = (*Storage)(nil)

func New(startingRating int) *Storage {
	return &Storage{
		startingRating: startingRating,
		profiles:       make(map[string]domain.PlayerProfile),
	}
}

func (s *Storage) LoadProfile(_ context.Context, playerID string) (domain.PlayerProfile, error) {
	if err := storage.ValidatePlayerID(playerID); err != nil {
		return domain.PlayerProfile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[playerID]
	if !ok {
		return domain.NewProfile(playerID, s.startingRating), nil
	}
	return profile.Clone(), nil
}

func (s *Storage) SaveProfile(_ context.Context, profile *domain.PlayerProfile) error {
	if err := storage.ValidatePlayerID(profile.PlayerID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.profiles[profile.PlayerID]
	if ok && stored.Version != profile.Version || !ok && profile.Version != 0 {
		return storage.ErrConcurrentModification
	}
	profile.Version++
	s.profiles[profile.PlayerID] = profile.Clone()
	return nil
}

func (s *Storage) ListProfiles(_ context.Context, limit int) ([]domain.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]domain.PlayerProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p.Clone())
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].CurrentRating == profiles[j].CurrentRating {
			return profiles[i].PlayerID < profiles[j].PlayerID
		}
		return profiles[i].CurrentRating > profiles[j].CurrentRating
	})
	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}
