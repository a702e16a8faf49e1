package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/goserg/guildrating/internal/domain"
)

var (
	ErrInvalidPlayerID        = errors.New("invalid player id")
	ErrConcurrentModification = errors.New("profile was modified concurrently")
)

// ProfileStorage persists rating profiles keyed by player id.
type ProfileStorage interface {
	// LoadProfile returns the stored profile or a default one if the player
	// has never been saved.
	LoadProfile(ctx context.Context, playerID string) (domain.PlayerProfile, error)
	// SaveProfile upserts profile. It fails with ErrConcurrentModification
	// when the stored version differs from profile.Version and bumps
	// profile.Version on success.
	SaveProfile(ctx context.Context, profile *domain.PlayerProfile) error
	// ListProfiles returns profiles ordered by current rating, highest
	// first. limit <= 0 returns all of them.
	ListProfiles(ctx context.Context, limit int) ([]domain.PlayerProfile, error)
}

func ValidatePlayerID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidPlayerID
	}
	return nil
}
