package sqlite

import (
	"github.com/goserg/guildrating/gen/model"
	"github.com/goserg/guildrating/internal/domain"
)

func convertProfileToDomain(p model.Profiles, history []model.RatingHistory) domain.PlayerProfile {
	converted := domain.PlayerProfile{
		PlayerID:       p.PlayerID,
		CurrentRating:  int(p.CurrentRating),
		PeakRating:     int(p.PeakRating),
		History:        make([]domain.RatingChangeRecord, 0, len(history)),
		MVPCount:       int(p.MvpCount),
		FlawlessWins:   int(p.FlawlessWins),
		FlawlessLosses: int(p.FlawlessLosses),
		LastUpdate:     p.LastUpdate,
		Version:        int64(p.Version),
	}
	for _, h := range history {
		converted.History = append(converted.History, domain.RatingChangeRecord{
			MatchID:         h.MatchID,
			Date:            h.Date,
			Delta:           int(h.Delta),
			ResultingRating: int(h.ResultingRating),
			Reason:          domain.Reason(h.Reason),
			MatchOutcome:    domain.MatchOutcome(deref(h.MatchOutcome)),
			GroupName:       deref(h.GroupName),
			OperatorID:      h.OperatorID,
			Note:            deref(h.Note),
		})
	}
	return converted
}

func convertProfileFromDomain(p domain.PlayerProfile) model.Profiles {
	return model.Profiles{
		PlayerID:       p.PlayerID,
		CurrentRating:  int32(p.CurrentRating),
		PeakRating:     int32(p.PeakRating),
		MvpCount:       int32(p.MVPCount),
		FlawlessWins:   int32(p.FlawlessWins),
		FlawlessLosses: int32(p.FlawlessLosses),
		LastUpdate:     p.LastUpdate,
		Version:        int32(p.Version),
	}
}

func convertHistoryFromDomain(playerID string, history []domain.RatingChangeRecord) []model.RatingHistory {
	converted := make([]model.RatingHistory, 0, len(history))
	for i, h := range history {
		converted = append(converted, model.RatingHistory{
			PlayerID:        playerID,
			Position:        int32(i),
			MatchID:         h.MatchID,
			Date:            h.Date,
			Delta:           int32(h.Delta),
			ResultingRating: int32(h.ResultingRating),
			Reason:          string(h.Reason),
			MatchOutcome:    ref(string(h.MatchOutcome)),
			GroupName:       ref(h.GroupName),
			OperatorID:      h.OperatorID,
			Note:            ref(h.Note),
		})
	}
	return converted
}

func ref(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
