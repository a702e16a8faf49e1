package elo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always draws the same offset, clamped to the range size.
type fixedSource int

func (f fixedSource) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		rating   int
		isWinner bool
		isMVP    bool
		outcome  domain.MatchOutcome
		wager    bool
		draw     int
		want     int
		reason   domain.Reason
	}{
		{
			name:     "medium bracket ladder win",
			rating:   1000,
			isWinner: true,
			outcome:  domain.Outcome21,
			draw:     0,
			want:     1018,
			reason:   domain.ReasonLadderWin,
		},
		{
			name:     "medium bracket flawless mvp win top of range",
			rating:   1000,
			isWinner: true,
			isMVP:    true,
			outcome:  domain.Outcome20,
			draw:     100,
			want:     1050,
			reason:   domain.ReasonLadderWinMVPFlawless,
		},
		{
			name:    "medium bracket ladder loss",
			rating:  1000,
			outcome: domain.Outcome12,
			draw:    0,
			want:    975,
			reason:  domain.ReasonLadderLoss,
		},
		{
			name:     "low bracket win is amplified",
			rating:   500,
			isWinner: true,
			outcome:  domain.Outcome21,
			draw:     2,
			want:     524,
			reason:   domain.ReasonLadderWin,
		},
		{
			name:    "low bracket loss is dampened",
			rating:  500,
			outcome: domain.Outcome02,
			draw:    0,
			want:    476,
			reason:  domain.ReasonLadderLossFlawless,
		},
		{
			name:    "high bracket loss is amplified",
			rating:  2000,
			isMVP:   true,
			outcome: domain.Outcome12,
			draw:    0,
			want:    1982,
			reason:  domain.ReasonLadderLossMVP,
		},
		{
			name:     "wager wipe win",
			rating:   1000,
			isWinner: true,
			outcome:  domain.OutcomeWagerWipeWin,
			wager:    true,
			draw:     0,
			want:     1045,
			reason:   domain.ReasonWagerWinFlawless,
		},
		{
			name:    "loss clamps at min rating",
			rating:  10,
			outcome: domain.Outcome02,
			draw:    0,
			want:    0,
			reason:  domain.ReasonLadderLossFlawless,
		},
		{
			name:     "win clamps at max rating",
			rating:   2990,
			isWinner: true,
			outcome:  domain.Outcome20,
			draw:     0,
			want:     3000,
			reason:   domain.ReasonLadderWinFlawless,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator(DefaultBounds(), fixedSource(tt.draw))
			got, err := c.Calculate(tt.rating, tt.isWinner, tt.isMVP, tt.outcome, tt.wager)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.NewRating)
			assert.Equal(t, tt.reason, got.Reason)
			assert.Equal(t, got.NewRating-got.OldRating, got.Delta)
		})
	}
}

func TestCalculate_clampedDeltaIsApplied(t *testing.T) {
	c := NewCalculator(DefaultBounds(), fixedSource(0))
	got, err := c.Calculate(10, false, false, domain.Outcome02, false)
	require.NoError(t, err)
	assert.Equal(t, -10, got.Delta)
	assert.Equal(t, -24, got.RawDelta)
	assert.True(t, got.HitBound)
}

func TestCalculate_invalidInput(t *testing.T) {
	c := NewCalculator(DefaultBounds(), fixedSource(0))
	_, err := c.Calculate(1000, true, false, "3-0", false)
	assert.ErrorIs(t, err, ErrInvalidMatchOutcome)

	_, err = c.Calculate(-1, true, false, domain.Outcome20, false)
	assert.ErrorIs(t, err, ErrInvalidRatingValue)
}

func TestCalculate_flawlessMVPWinScenario(t *testing.T) {
	mult := Multiplier(1200, true)
	assert.Equal(t, 0.8, mult)
	low := 1200 + int(math.Round(35*mult))
	high := 1200 + int(math.Round(50*mult))

	c := NewCalculator(DefaultBounds(), rand.New(rand.NewSource(42)))
	for i := 0; i < 200; i++ {
		got, err := c.Calculate(1200, true, true, domain.Outcome20, false)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got.NewRating, low)
		assert.LessOrEqual(t, got.NewRating, high)
	}
}

func TestCalculate_staysWithinBounds(t *testing.T) {
	bounds := DefaultBounds()
	c := NewCalculator(bounds, rand.New(rand.NewSource(7)))
	outcomes := []domain.MatchOutcome{
		domain.Outcome20, domain.Outcome21, domain.Outcome12, domain.Outcome02,
		domain.OutcomeWagerWin, domain.OutcomeWagerLoss, domain.OutcomeWagerWipeWin, domain.OutcomeWagerWipeLoss,
	}
	for rating := 0; rating <= bounds.MaxRating; rating += 37 {
		for _, outcome := range outcomes {
			for _, winner := range []bool{true, false} {
				for _, mvp := range []bool{true, false} {
					got, err := c.Calculate(rating, winner, mvp, outcome, outcome.IsWager())
					require.NoError(t, err)
					assert.GreaterOrEqual(t, got.NewRating, bounds.MinRating)
					assert.LessOrEqual(t, got.NewRating, bounds.MaxRating)
					assert.GreaterOrEqual(t, got.BaseDelta, got.BaseRange.Min)
					assert.LessOrEqual(t, got.BaseDelta, got.BaseRange.Max)
				}
			}
		}
	}
}

func TestOutcomeFlawless(t *testing.T) {
	flawless := []domain.MatchOutcome{domain.Outcome20, domain.Outcome02, domain.OutcomeWagerWipeWin, domain.OutcomeWagerWipeLoss}
	for _, o := range flawless {
		assert.True(t, o.IsFlawless(), o)
	}
	normal := []domain.MatchOutcome{domain.Outcome21, domain.Outcome12, domain.OutcomeWagerWin, domain.OutcomeWagerLoss}
	for _, o := range normal {
		assert.False(t, o.IsFlawless(), o)
	}
}

func TestBaseRange_everyContextHasDistinctReason(t *testing.T) {
	seen := make(map[domain.Reason]bool)
	for _, winner := range []bool{true, false} {
		for _, mvp := range []bool{true, false} {
			for _, flawless := range []bool{true, false} {
				for _, wager := range []bool{true, false} {
					rng, reason := BaseRange(domain.MatchContext{
						IsWinner:     winner,
						IsMVP:        mvp,
						IsFlawless:   flawless,
						IsWagerMatch: wager,
					})
					require.NotEmpty(t, reason)
					assert.False(t, seen[reason], reason)
					seen[reason] = true
					assert.LessOrEqual(t, rng.Min, rng.Max)
					if winner {
						assert.Positive(t, rng.Min)
					} else {
						assert.Negative(t, rng.Max)
					}
				}
			}
		}
	}
	assert.Len(t, seen, 16)
}

func TestCalculateTeam(t *testing.T) {
	c := NewCalculator(DefaultBounds(), fixedSource(0))
	players := []PlayerRating{
		{PlayerID: "a", Rating: 1000},
		{PlayerID: "b", Rating: 1000},
		{PlayerID: "c", Rating: 1000},
	}
	results, err := c.CalculateTeam(players, "b", true, domain.Outcome21)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, r.PlayerID == "b", r.Context.IsMVP)
	}
	assert.Equal(t, domain.ReasonLadderWinMVP, results[1].Reason)
	assert.Equal(t, domain.ReasonLadderWin, results[0].Reason)

	_, err = c.CalculateTeam(nil, "b", true, domain.Outcome21)
	assert.ErrorIs(t, err, ErrEmptyPlayerList)
}

func TestCalculateWager(t *testing.T) {
	c := NewCalculator(DefaultBounds(), fixedSource(0))
	winner, loser, err := c.CalculateWager(1000, 1000, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonWagerWinFlawless, winner.Reason)
	assert.Equal(t, domain.ReasonWagerLossFlawless, loser.Reason)
	assert.False(t, winner.Context.IsMVP)
	assert.False(t, loser.Context.IsMVP)
	assert.Equal(t, 45, winner.Delta)
	assert.Equal(t, -50, loser.Delta)

	winner, loser, err = c.CalculateWager(1000, 1000, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonWagerWin, winner.Reason)
	assert.Equal(t, domain.ReasonWagerLoss, loser.Reason)
}

func TestManual(t *testing.T) {
	c := NewCalculator(DefaultBounds(), fixedSource(0))
	got := c.Manual(2900, 3200, domain.ReasonManualSet)
	assert.Equal(t, 3000, got.NewRating)
	assert.Equal(t, 100, got.Delta)
	assert.True(t, got.HitBound)
}
