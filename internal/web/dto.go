package web

import (
	"errors"
	"fmt"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/normalize"
	"github.com/goserg/guildrating/internal/roster"
)

type matchRequest struct {
	MatchID       string   `json:"matchId"`
	WinnerTeam    string   `json:"winnerTeam"`
	LoserTeam     string   `json:"loserTeam"`
	WinnerPlayers []string `json:"winnerPlayers"`
	LoserPlayers  []string `json:"loserPlayers"`
	WinnerMVP     string   `json:"winnerMvp"`
	LoserMVP      string   `json:"loserMvp"`
	Outcome       string   `json:"matchOutcome"`
}

// convertToDomainMatch fills empty player lists from the rosters.
func (r matchRequest) convertToDomainMatch(resolver *roster.Resolver) (domain.MatchResult, error) {
	winnerTeam, winners, err := resolver.Expand(r.WinnerTeam, r.WinnerPlayers)
	if err != nil {
		return domain.MatchResult{}, err
	}
	loserTeam, losers, err := resolver.Expand(r.LoserTeam, r.LoserPlayers)
	if err != nil {
		return domain.MatchResult{}, err
	}
	return domain.MatchResult{
		MatchID:       r.MatchID,
		WinnerTeam:    winnerTeam,
		LoserTeam:     loserTeam,
		WinnerPlayers: winners,
		LoserPlayers:  losers,
		WinnerMVP:     normalize.Name(r.WinnerMVP),
		LoserMVP:      normalize.Name(r.LoserMVP),
		Outcome:       domain.MatchOutcome(r.Outcome),
	}, nil
}

type wagerRequest struct {
	MatchID  string `json:"matchId"`
	WinnerID string `json:"winnerId"`
	LoserID  string `json:"loserId"`
	Wipe     bool   `json:"wipe"`
}

func (r wagerRequest) convertToDomainWager() domain.WagerResult {
	return domain.WagerResult{
		MatchID:  r.MatchID,
		WinnerID: normalize.Name(r.WinnerID),
		LoserID:  normalize.Name(r.LoserID),
		Wipe:     r.Wipe,
	}
}

var ErrMissingValue = errors.New("missing value")

type adjustRequest struct {
	Delta int    `json:"delta"`
	Note  string `json:"note"`
}

func (r adjustRequest) Validate() error {
	if r.Delta == 0 {
		return fmt.Errorf("%w: delta must not be zero", elo.ErrInvalidRatingDelta)
	}
	return nil
}

type setRequest struct {
	Rating *int   `json:"rating"`
	Note   string `json:"note"`
}

func (r setRequest) Validate() error {
	if r.Rating == nil {
		return fmt.Errorf("%w: rating", ErrMissingValue)
	}
	return nil
}

type noteRequest struct {
	Note string `json:"note"`
}
