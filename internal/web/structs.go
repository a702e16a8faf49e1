package web

import (
	"time"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/service"
)

type profileResponse struct {
	PlayerID       string            `json:"playerId"`
	CurrentRating  int               `json:"currentRating"`
	PeakRating     int               `json:"peakRating"`
	MVPCount       int               `json:"mvpCount"`
	FlawlessWins   int               `json:"flawlessWins"`
	FlawlessLosses int               `json:"flawlessLosses"`
	LastUpdate     *time.Time        `json:"lastUpdate"`
	Tier           elo.TierInfo      `json:"tier"`
	NextTier       *elo.NextTierInfo `json:"nextTier"`
}

func newProfileResponse(p domain.PlayerProfile) profileResponse {
	resp := profileResponse{
		PlayerID:       p.PlayerID,
		CurrentRating:  p.CurrentRating,
		PeakRating:     p.PeakRating,
		MVPCount:       p.MVPCount,
		FlawlessWins:   p.FlawlessWins,
		FlawlessLosses: p.FlawlessLosses,
		LastUpdate:     p.LastUpdate,
		Tier:           elo.Classify(p.CurrentRating),
	}
	if next, ok := elo.NextTier(p.CurrentRating); ok {
		resp.NextTier = &next
	}
	return resp
}

type leaderboardEntry struct {
	Position int          `json:"position"`
	PlayerID string       `json:"playerId"`
	Rating   int          `json:"rating"`
	Tier     elo.RankTier `json:"tier"`
}

func newLeaderboard(profiles []domain.PlayerProfile) []leaderboardEntry {
	entries := make([]leaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, leaderboardEntry{
			Position: i + 1,
			PlayerID: p.PlayerID,
			Rating:   p.CurrentRating,
			Tier:     elo.Classify(p.CurrentRating).RankTier,
		})
	}
	return entries
}

type updateResponse struct {
	PlayerID   string                    `json:"playerId"`
	OldRating  int                       `json:"oldRating"`
	NewRating  int                       `json:"newRating"`
	TierChange elo.TierChange            `json:"tierChange"`
	Record     domain.RatingChangeRecord `json:"record"`
}

func newUpdateResponse(u service.UpdateOutcome) updateResponse {
	return updateResponse{
		PlayerID:   u.PlayerID,
		OldRating:  u.OldRating,
		NewRating:  u.NewRating,
		TierChange: u.TierChange,
		Record:     u.Record,
	}
}

type playerErrorResponse struct {
	PlayerID string `json:"playerId"`
	Error    string `json:"error"`
}

type batchResponse struct {
	Success bool                  `json:"success"`
	MatchID string                `json:"matchId"`
	Updates []updateResponse      `json:"updates"`
	Errors  []playerErrorResponse `json:"errors"`
}

func newBatchResponse(b service.BatchOutcome) batchResponse {
	resp := batchResponse{
		Success: b.Success,
		MatchID: b.MatchID,
		Updates: make([]updateResponse, 0, len(b.Updates)),
		Errors:  make([]playerErrorResponse, 0, len(b.Errors)),
	}
	for _, u := range b.Updates {
		resp.Updates = append(resp.Updates, newUpdateResponse(u))
	}
	for _, e := range b.Errors {
		resp.Errors = append(resp.Errors, playerErrorResponse{
			PlayerID: e.PlayerID,
			Error:    e.Err.Error(),
		})
	}
	return resp
}
