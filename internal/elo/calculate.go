package elo

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/goserg/guildrating/internal/domain"
)

// RandomSource draws the base delta. *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// NewRandomSource returns a time seeded source.
func NewRandomSource() RandomSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Result is the outcome of a single rating computation.
type Result struct {
	OldRating int `json:"oldRating"`
	NewRating int `json:"newRating"`
	// Delta is the change actually applied, NewRating - OldRating.
	Delta int `json:"delta"`
	// RawDelta is the delta before the new rating was clamped.
	RawDelta   int                 `json:"rawDelta"`
	BaseDelta  int                 `json:"baseDelta"`
	Multiplier float64             `json:"multiplier"`
	BaseRange  Range               `json:"baseRange"`
	Reason     domain.Reason       `json:"reason"`
	HitBound   bool                `json:"hitBound"`
	Context    domain.MatchContext `json:"context"`
}

type Calculator struct {
	bounds Bounds
	rnd    RandomSource
}

func NewCalculator(bounds Bounds, rnd RandomSource) *Calculator {
	if rnd == nil {
		rnd = NewRandomSource()
	}
	return &Calculator{
		bounds: bounds,
		rnd:    rnd,
	}
}

// Calculate computes the rating change of one player. The base delta is
// drawn uniformly from the range of the match context and scaled by the
// bracket multiplier of currentRating.
func (c *Calculator) Calculate(currentRating int, isWinner, isMVP bool, outcome domain.MatchOutcome, isWagerMatch bool) (Result, error) {
	if currentRating < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidRatingValue, currentRating)
	}
	if !outcome.Valid() {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMatchOutcome, outcome)
	}
	ctx := domain.MatchContext{
		IsWinner:     isWinner,
		IsMVP:        isMVP,
		IsFlawless:   outcome.IsFlawless(),
		IsWagerMatch: isWagerMatch,
		Outcome:      outcome,
	}
	rng, reason := BaseRange(ctx)
	base := rng.Min + c.rnd.Intn(rng.Max-rng.Min+1)
	multiplier := Multiplier(currentRating, isWinner)
	raw := int(math.Round(float64(base) * multiplier))
	newRating := c.bounds.Clamp(currentRating + raw)

	return Result{
		OldRating:  currentRating,
		NewRating:  newRating,
		Delta:      newRating - currentRating,
		RawDelta:   raw,
		BaseDelta:  base,
		Multiplier: multiplier,
		BaseRange:  rng,
		Reason:     reason,
		HitBound:   newRating != currentRating+raw || newRating == c.bounds.MinRating || newRating == c.bounds.MaxRating,
		Context:    ctx,
	}, nil
}

// PlayerRating is a player identity with its rating at computation time.
type PlayerRating struct {
	PlayerID string
	Rating   int
}

type PlayerResult struct {
	PlayerID string
	Result
}

// CalculateTeam applies Calculate to every player of one side. Only the
// player whose id equals mvpID is treated as MVP.
func (c *Calculator) CalculateTeam(players []PlayerRating, mvpID string, isWinnerTeam bool, outcome domain.MatchOutcome) ([]PlayerResult, error) {
	if len(players) == 0 {
		return nil, ErrEmptyPlayerList
	}
	results := make([]PlayerResult, 0, len(players))
	for _, p := range players {
		res, err := c.Calculate(p.Rating, isWinnerTeam, p.PlayerID == mvpID, outcome, outcome.IsWager())
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", p.PlayerID, err)
		}
		results = append(results, PlayerResult{PlayerID: p.PlayerID, Result: res})
	}
	return results, nil
}

// CalculateWager computes both sides of a 1v1 wager. Neither side is MVP.
func (c *Calculator) CalculateWager(winnerRating, loserRating int, isWipe bool) (winner Result, loser Result, err error) {
	winnerOutcome := domain.OutcomeWagerWin
	if isWipe {
		winnerOutcome = domain.OutcomeWagerWipeWin
	}
	winner, err = c.Calculate(winnerRating, true, false, winnerOutcome, true)
	if err != nil {
		return Result{}, Result{}, err
	}
	loser, err = c.Calculate(loserRating, false, false, winnerOutcome.Mirror(), true)
	if err != nil {
		return Result{}, Result{}, err
	}
	return winner, loser, nil
}

// Manual builds a result for an operator initiated change from oldRating to
// newRating. The target is clamped to the bounds.
func (c *Calculator) Manual(oldRating, newRating int, reason domain.Reason) Result {
	clamped := c.bounds.Clamp(newRating)
	return Result{
		OldRating:  oldRating,
		NewRating:  clamped,
		Delta:      clamped - oldRating,
		RawDelta:   newRating - oldRating,
		BaseDelta:  newRating - oldRating,
		Multiplier: 1,
		Reason:     reason,
		HitBound:   clamped != newRating,
	}
}

func (c *Calculator) Bounds() Bounds {
	return c.bounds
}
