package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/storage"
)

const exportVersion = 1

var (
	ErrInvalidExport        = errors.New("invalid export file")
	ErrInvalidExportVersion = errors.New("invalid export file version")
)

type export struct {
	Version    int                    `json:"version"`
	ExportedAt time.Time              `json:"exportedAt"`
	Profiles   []domain.PlayerProfile `json:"profiles"`
}

// Export returns a JSON snapshot of every stored profile.
func (m *RatingManager) Export(ctx context.Context) ([]byte, error) {
	profiles, err := m.storage.ListProfiles(ctx, 0)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(export{
		Version:    exportVersion,
		ExportedAt: m.now().UTC(),
		Profiles:   profiles,
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Import writes every profile of an Export snapshot over the stored ones.
// Nothing is written if any profile of the snapshot is invalid.
func (m *RatingManager) Import(ctx context.Context, data []byte) (int, error) {
	var importData export
	err := json.Unmarshal(data, &importData)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	if importData.Version != exportVersion {
		return 0, fmt.Errorf("%w: %d", ErrInvalidExportVersion, importData.Version)
	}

	var errs []error
	for _, p := range importData.Profiles {
		if err := m.validateImported(p); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", p.PlayerID, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}

	for i, p := range importData.Profiles {
		stored, err := m.storage.LoadProfile(ctx, p.PlayerID)
		if err != nil {
			return i, err
		}
		p.Version = stored.Version
		if p.History == nil {
			p.History = []domain.RatingChangeRecord{}
		}
		if limit := m.bounds.MaxHistoryEntries; limit > 0 && len(p.History) > limit {
			p.History = p.History[:limit]
		}
		if err := m.storage.SaveProfile(ctx, &p); err != nil {
			return i, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
		}
	}
	m.log.WithField("profiles", len(importData.Profiles)).Info("profiles imported")
	return len(importData.Profiles), nil
}

func (m *RatingManager) validateImported(p domain.PlayerProfile) error {
	var errs []error
	if err := storage.ValidatePlayerID(p.PlayerID); err != nil {
		errs = append(errs, err)
	}
	if err := m.bounds.ValidateRating(p.CurrentRating); err != nil {
		errs = append(errs, err)
	}
	if p.PeakRating < p.CurrentRating {
		errs = append(errs, fmt.Errorf("peak rating %d is below current rating %d", p.PeakRating, p.CurrentRating))
	}
	if p.MVPCount < 0 || p.FlawlessWins < 0 || p.FlawlessLosses < 0 {
		errs = append(errs, errors.New("negative counter"))
	}
	return errors.Join(errs...)
}
