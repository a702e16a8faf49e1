package elo

import "errors"

var (
	ErrInvalidMatchOutcome   = errors.New("invalid match outcome")
	ErrEmptyPlayerList       = errors.New("empty player list")
	ErrInvalidRatingValue    = errors.New("invalid rating value")
	ErrInvalidRatingDelta    = errors.New("invalid rating delta")
	ErrDuplicateMVP          = errors.New("winner and loser MVP are the same player")
	ErrMissingTeamIdentifier = errors.New("missing team identifier")
	ErrMissingMVP            = errors.New("missing MVP identifier")
	ErrMissingPlayer         = errors.New("missing player identifier")
	ErrSamePlayer            = errors.New("winner and loser are the same player")
	ErrDuplicatePlayer       = errors.New("player is listed more than once")
)
