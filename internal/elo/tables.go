package elo

import (
	"math"

	"github.com/goserg/guildrating/internal/domain"
)

const (
	DefaultStartingRating    = 1000
	DefaultMinRating         = 0
	DefaultMaxRating         = 3000
	DefaultMaxHistoryEntries = 50

	// MaxManualDelta caps a single operator adjustment.
	MaxManualDelta = 500
)

// Bounds are the configurable limits of the rating scale.
type Bounds struct {
	StartingRating    int `toml:"starting_rating"`
	MinRating         int `toml:"min_rating"`
	MaxRating         int `toml:"max_rating"`
	MaxHistoryEntries int `toml:"max_history_entries"`
}

func DefaultBounds() Bounds {
	return Bounds{
		StartingRating:    DefaultStartingRating,
		MinRating:         DefaultMinRating,
		MaxRating:         DefaultMaxRating,
		MaxHistoryEntries: DefaultMaxHistoryEntries,
	}
}

// Clamp limits rating to [MinRating, MaxRating].
func (b Bounds) Clamp(rating int) int {
	if rating < b.MinRating {
		return b.MinRating
	}
	if rating > b.MaxRating {
		return b.MaxRating
	}
	return rating
}

// Unbounded marks the open upper end of the top tier.
const Unbounded = math.MaxInt

type RankTier struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	MinRating   int    `json:"minRating"`
	MaxRating   int    `json:"maxRating"`
}

func (t RankTier) IsTop() bool {
	return t.MaxRating == Unbounded
}

// Ranks is ordered from the lowest tier to the highest.
var Ranks = []RankTier{
	{Key: "rank_d", DisplayName: "Rank D", MinRating: 0, MaxRating: 499},
	{Key: "rank_c", DisplayName: "Rank C", MinRating: 500, MaxRating: 999},
	{Key: "rank_b", DisplayName: "Rank B", MinRating: 1000, MaxRating: 1499},
	{Key: "rank_a", DisplayName: "Rank A", MinRating: 1500, MaxRating: 1999},
	{Key: "rank_s", DisplayName: "Rank S", MinRating: 2000, MaxRating: 2499},
	{Key: "grandmaster", DisplayName: "Grandmaster", MinRating: 2500, MaxRating: Unbounded},
}

type multiplierBand struct {
	name      string
	minRating int
	maxRating int
	gain      float64
	loss      float64
}

var multiplierBands = []multiplierBand{
	{name: "low", minRating: 0, maxRating: 799, gain: 1.2, loss: 0.8},
	{name: "medium", minRating: 800, maxRating: 1199, gain: 1.0, loss: 1.0},
	{name: "high", minRating: 1200, maxRating: Unbounded, gain: 0.8, loss: 1.2},
}

// Multiplier returns the bracket multiplier applied to a base delta for a
// player at rating.
func Multiplier(rating int, isWinner bool) float64 {
	band := multiplierBands[0]
	for _, b := range multiplierBands {
		if rating >= b.minRating && rating <= b.maxRating {
			band = b
			break
		}
	}
	if isWinner {
		return band.gain
	}
	return band.loss
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type rangeKey struct {
	winner   bool
	mvp      bool
	flawless bool
	wager    bool
}

type baseValue struct {
	rng    Range
	reason domain.Reason
}

var baseValues = map[rangeKey]baseValue{
	{winner: true, mvp: true, flawless: true}:   {Range{35, 50}, domain.ReasonLadderWinMVPFlawless},
	{winner: true, mvp: true}:                   {Range{28, 40}, domain.ReasonLadderWinMVP},
	{winner: true, flawless: true}:              {Range{25, 35}, domain.ReasonLadderWinFlawless},
	{winner: true}:                              {Range{18, 28}, domain.ReasonLadderWin},
	{mvp: true, flawless: true}:                 {Range{-20, -12}, domain.ReasonLadderLossMVPFlawless},
	{mvp: true}:                                 {Range{-15, -8}, domain.ReasonLadderLossMVP},
	{flawless: true}:                            {Range{-30, -20}, domain.ReasonLadderLossFlawless},
	{}:                                          {Range{-25, -15}, domain.ReasonLadderLoss},

	{winner: true, mvp: true, flawless: true, wager: true}: {Range{50, 70}, domain.ReasonWagerWinMVPFlawless},
	{winner: true, mvp: true, wager: true}:                 {Range{40, 60}, domain.ReasonWagerWinMVP},
	{winner: true, flawless: true, wager: true}:            {Range{45, 65}, domain.ReasonWagerWinFlawless},
	{winner: true, wager: true}:                            {Range{35, 55}, domain.ReasonWagerWin},
	{mvp: true, flawless: true, wager: true}:               {Range{-40, -25}, domain.ReasonWagerLossMVPFlawless},
	{mvp: true, wager: true}:                               {Range{-35, -20}, domain.ReasonWagerLossMVP},
	{flawless: true, wager: true}:                          {Range{-50, -35}, domain.ReasonWagerLossFlawless},
	{wager: true}:                                          {Range{-45, -30}, domain.ReasonWagerLoss},
}

// BaseRange returns the base delta interval and audit reason for a match
// context.
func BaseRange(ctx domain.MatchContext) (Range, domain.Reason) {
	v := baseValues[rangeKey{
		winner:   ctx.IsWinner,
		mvp:      ctx.IsMVP,
		flawless: ctx.IsFlawless,
		wager:    ctx.IsWagerMatch,
	}]
	return v.rng, v.reason
}
