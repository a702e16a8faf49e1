package elo

import "math"

// TierInfo is the tier of a rating together with the progress inside it.
type TierInfo struct {
	RankTier
	// Progress is a percentage in [0, 100]. In the top tier it restarts
	// every 100 points.
	Progress int `json:"progress"`
}

// NextTierInfo describes the tier directly above a rating.
type NextTierInfo struct {
	RankTier
	RequiredRating int `json:"requiredRating"`
	RatingToNext   int `json:"ratingToNext"`
}

type TierChange struct {
	Changed   bool     `json:"changed"`
	Direction string   `json:"direction"`
	OldTier   TierInfo `json:"oldTier"`
	NewTier   TierInfo `json:"newTier"`
}

const (
	Promotion = "promotion"
	Demotion  = "demotion"
)

func tierIndex(rating int) int {
	for i, t := range Ranks {
		if rating >= t.MinRating && rating <= t.MaxRating {
			return i
		}
	}
	return 0
}

// Classify returns the tier containing rating. Ratings outside every tier
// fall back to the lowest one.
func Classify(rating int) TierInfo {
	tier := Ranks[tierIndex(rating)]
	var progress int
	switch {
	case rating < tier.MinRating:
		progress = 0
	case tier.IsTop():
		progress = (rating - tier.MinRating) % 100
	default:
		span := float64(tier.MaxRating - tier.MinRating + 1)
		progress = int(math.Round(float64(rating-tier.MinRating) / span * 100))
	}
	return TierInfo{
		RankTier: tier,
		Progress: progress,
	}
}

// NextTier returns the tier above the one containing rating, false if rating
// is already in the top tier.
func NextTier(rating int) (NextTierInfo, bool) {
	i := tierIndex(rating)
	if i+1 >= len(Ranks) {
		return NextTierInfo{}, false
	}
	next := Ranks[i+1]
	return NextTierInfo{
		RankTier:       next,
		RequiredRating: next.MinRating,
		RatingToNext:   next.MinRating - rating,
	}, true
}

// DetectTierChange compares the tiers of two ratings. Direction follows the
// raw rating comparison.
func DetectTierChange(oldRating, newRating int) TierChange {
	oldTier := Classify(oldRating)
	newTier := Classify(newRating)
	direction := Demotion
	if newRating > oldRating {
		direction = Promotion
	}
	return TierChange{
		Changed:   oldTier.Key != newTier.Key,
		Direction: direction,
		OldTier:   oldTier,
		NewTier:   newTier,
	}
}
