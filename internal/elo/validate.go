package elo

import (
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goserg/guildrating/internal/domain"
)

// ValidateRating checks an absolute rating value.
func (b Bounds) ValidateRating(rating int) error {
	if rating < b.MinRating || rating > b.MaxRating {
		return fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidRatingValue, rating, b.MinRating, b.MaxRating)
	}
	return nil
}

// ValidateDelta checks a manual adjustment of currentRating by delta.
func (b Bounds) ValidateDelta(currentRating, delta int) error {
	if delta == 0 {
		return fmt.Errorf("%w: delta must not be zero", ErrInvalidRatingDelta)
	}
	if delta > MaxManualDelta || delta < -MaxManualDelta {
		return fmt.Errorf("%w: |%d| exceeds %d", ErrInvalidRatingDelta, delta, MaxManualDelta)
	}
	if result := currentRating + delta; result < b.MinRating || result > b.MaxRating {
		return fmt.Errorf("%w: %d%+d leaves [%d, %d]", ErrInvalidRatingDelta, currentRating, delta, b.MinRating, b.MaxRating)
	}
	return nil
}

// ValidateMatchResult reports every violation of m, joined into one error.
func ValidateMatchResult(m domain.MatchResult) error {
	var errs []error
	if !m.Outcome.Valid() || m.Outcome.IsWager() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidMatchOutcome, m.Outcome))
	}
	if strings.TrimSpace(m.WinnerTeam) == "" {
		errs = append(errs, fmt.Errorf("%w: winner team", ErrMissingTeamIdentifier))
	}
	if strings.TrimSpace(m.LoserTeam) == "" {
		errs = append(errs, fmt.Errorf("%w: loser team", ErrMissingTeamIdentifier))
	}
	if strings.TrimSpace(m.WinnerMVP) == "" {
		errs = append(errs, fmt.Errorf("%w: winner MVP", ErrMissingMVP))
	}
	if strings.TrimSpace(m.LoserMVP) == "" {
		errs = append(errs, fmt.Errorf("%w: loser MVP", ErrMissingMVP))
	}
	if m.WinnerMVP != "" && m.WinnerMVP == m.LoserMVP {
		errs = append(errs, ErrDuplicateMVP)
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	reported := mapset.NewThreadUnsafeSet[string]()
	for _, id := range append(append([]string{}, m.WinnerPlayers...), m.LoserPlayers...) {
		if id == "" {
			continue
		}
		if !seen.Add(id) && reported.Add(id) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id))
		}
	}
	return errors.Join(errs...)
}

// ValidateWagerResult reports every violation of w, joined into one error.
func ValidateWagerResult(w domain.WagerResult) error {
	var errs []error
	if strings.TrimSpace(w.WinnerID) == "" {
		errs = append(errs, fmt.Errorf("%w: winner", ErrMissingPlayer))
	}
	if strings.TrimSpace(w.LoserID) == "" {
		errs = append(errs, fmt.Errorf("%w: loser", ErrMissingPlayer))
	}
	if w.WinnerID != "" && w.WinnerID == w.LoserID {
		errs = append(errs, ErrSamePlayer)
	}
	return errors.Join(errs...)
}
