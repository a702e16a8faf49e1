package domain

import "time"

// PlayerProfile is the rating state of a single player identity.
type PlayerProfile struct {
	PlayerID       string               `json:"playerId"`
	CurrentRating  int                  `json:"currentRating"`
	PeakRating     int                  `json:"peakRating"`
	History        []RatingChangeRecord `json:"history"`
	MVPCount       int                  `json:"mvpCount"`
	FlawlessWins   int                  `json:"flawlessWins"`
	FlawlessLosses int                  `json:"flawlessLosses"`
	LastUpdate     *time.Time           `json:"lastUpdate"`

	// Version is bumped by the storage on every successful save.
	Version int64 `json:"version"`
}

// NewProfile returns the profile a player gets before any rating change.
func NewProfile(playerID string, startingRating int) PlayerProfile {
	return PlayerProfile{
		PlayerID:      playerID,
		CurrentRating: startingRating,
		PeakRating:    startingRating,
		History:       []RatingChangeRecord{},
	}
}

// Clone returns a copy that shares no mutable state with p.
func (p PlayerProfile) Clone() PlayerProfile {
	c := p
	c.History = make([]RatingChangeRecord, len(p.History))
	copy(c.History, p.History)
	if p.LastUpdate != nil {
		t := *p.LastUpdate
		c.LastUpdate = &t
	}
	return c
}

// RatingChangeRecord is one entry of the history ledger. Records are never
// modified after they are appended.
type RatingChangeRecord struct {
	MatchID         string       `json:"matchId"`
	Date            time.Time    `json:"date"`
	Delta           int          `json:"delta"`
	ResultingRating int          `json:"resultingRating"`
	Reason          Reason       `json:"reason"`
	MatchOutcome    MatchOutcome `json:"matchOutcome,omitempty"`
	GroupName       string       `json:"groupName,omitempty"`
	OperatorID      string       `json:"operatorId"`
	Note            string       `json:"note,omitempty"`
}
