package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/storage"
)

var (
	ErrNoHistoryToUndo    = errors.New("no history to undo")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrCooldownActive     = errors.New("rating cooldown is active")
)

// ChangeMeta annotates a rating change. Empty fields fall back to the values
// derived from the calculator result.
type ChangeMeta struct {
	MatchID   string
	GroupName string
	Reason    domain.Reason
	Note      string
}

type UpdateOutcome struct {
	Success    bool
	PlayerID   string
	OldRating  int
	NewRating  int
	TierChange elo.TierChange
	Record     domain.RatingChangeRecord
	Err        error
}

type PlayerError struct {
	PlayerID string
	Err      error
}

func (e PlayerError) Error() string {
	return fmt.Sprintf("player %s: %v", e.PlayerID, e.Err)
}

func (e PlayerError) Unwrap() error {
	return e.Err
}

// BatchOutcome is the result of a match or wager. Success only tells that
// the match was accepted; per player failures are listed in Errors.
type BatchOutcome struct {
	Success bool
	MatchID string
	Updates []UpdateOutcome
	Errors  []PlayerError
	Err     error
}

// TierChangeHook is called after a saved change moved a player to another
// tier.
type TierChangeHook func(ctx context.Context, playerID string, change elo.TierChange)

// RatingManager is the only component that mutates player profiles.
type RatingManager struct {
	storage  storage.ProfileStorage
	calc     *elo.Calculator
	bounds   elo.Bounds
	cooldown time.Duration
	hooks    []TierChangeHook
	log      *logrus.Entry

	now   func() time.Time
	newID func() (string, error)
}

func New(l *logrus.Logger, st storage.ProfileStorage, calc *elo.Calculator, cooldown time.Duration) *RatingManager {
	return &RatingManager{
		storage:  st,
		calc:     calc,
		bounds:   calc.Bounds(),
		cooldown: cooldown,
		log: l.WithFields(map[string]interface{}{
			"from": "rating-manager",
		}),
		now: time.Now,
		newID: func() (string, error) {
			return gonanoid.New()
		},
	}
}

// OnTierChange registers h. It is not safe to call concurrently with rating
// operations.
func (m *RatingManager) OnTierChange(h TierChangeHook) {
	m.hooks = append(m.hooks, h)
}

func (m *RatingManager) Bounds() elo.Bounds {
	return m.bounds
}

// Profile returns the stored profile or the default one of a new player.
func (m *RatingManager) Profile(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
	return m.storage.LoadProfile(ctx, playerID)
}

// Leaderboard returns up to limit profiles ordered by current rating.
func (m *RatingManager) Leaderboard(ctx context.Context, limit int) ([]domain.PlayerProfile, error) {
	return m.storage.ListProfiles(ctx, limit)
}

// ApplyRatingChange loads the profile of playerID and applies res to it.
// Failures are returned inside the outcome.
func (m *RatingManager) ApplyRatingChange(ctx context.Context, playerID string, res elo.Result, operatorID string, meta ChangeMeta) (out UpdateOutcome) {
	defer m.recoverOutcome(playerID, &out)

	profile, err := m.load(ctx, playerID)
	if err != nil {
		return failed(playerID, err)
	}
	return m.apply(ctx, &profile, res, operatorID, meta)
}

// ProcessMatchResult applies a team ladder match to every listed player.
// Players are processed one by one and a failing player does not stop the
// others.
func (m *RatingManager) ProcessMatchResult(ctx context.Context, match domain.MatchResult, operatorID string) (out BatchOutcome) {
	out.MatchID = match.MatchID
	defer m.recoverBatch(&out)

	if err := elo.ValidateMatchResult(match); err != nil {
		out.Err = err
		return out
	}
	if len(match.WinnerPlayers) == 0 || len(match.LoserPlayers) == 0 {
		out.Err = elo.ErrEmptyPlayerList
		return out
	}
	if out.MatchID == "" {
		id, err := m.newID()
		if err != nil {
			out.Err = fmt.Errorf("failed to generate match id: %w", err)
			return out
		}
		out.MatchID = id
	}
	log := m.log.WithFields(logrus.Fields{
		"match":   out.MatchID,
		"outcome": match.Outcome,
	})
	log.Info("processing match result")

	m.processSide(ctx, &out, match.WinnerPlayers, match.WinnerMVP, true, match.Outcome, operatorID, match.WinnerTeam)
	m.processSide(ctx, &out, match.LoserPlayers, match.LoserMVP, false, match.Outcome.Mirror(), operatorID, match.LoserTeam)

	out.Success = true
	if len(out.Errors) > 0 {
		log.WithField("errors", len(out.Errors)).Warn("match processed with errors")
	}
	return out
}

func (m *RatingManager) processSide(
	ctx context.Context,
	out *BatchOutcome,
	playerIDs []string,
	mvpID string,
	isWinner bool,
	outcome domain.MatchOutcome,
	operatorID string,
	group string,
) {
	profiles := make(map[string]*domain.PlayerProfile, len(playerIDs))
	ratings := make([]elo.PlayerRating, 0, len(playerIDs))
	for _, id := range playerIDs {
		profile, err := m.loadForMatch(ctx, id)
		if err != nil {
			out.Errors = append(out.Errors, PlayerError{PlayerID: id, Err: err})
			continue
		}
		profiles[id] = &profile
		ratings = append(ratings, elo.PlayerRating{PlayerID: id, Rating: profile.CurrentRating})
	}
	if len(ratings) == 0 {
		return
	}
	results, err := m.calc.CalculateTeam(ratings, mvpID, isWinner, outcome)
	if err != nil {
		for _, r := range ratings {
			out.Errors = append(out.Errors, PlayerError{PlayerID: r.PlayerID, Err: err})
		}
		return
	}
	for _, r := range results {
		update := m.applySafe(ctx, profiles[r.PlayerID], r.Result, operatorID, ChangeMeta{
			MatchID:   out.MatchID,
			GroupName: group,
		})
		if !update.Success {
			out.Errors = append(out.Errors, PlayerError{PlayerID: r.PlayerID, Err: update.Err})
			continue
		}
		out.Updates = append(out.Updates, update)
	}
}

// ProcessWagerResult applies a 1v1 wager to both players.
func (m *RatingManager) ProcessWagerResult(ctx context.Context, wager domain.WagerResult, operatorID string) (out BatchOutcome) {
	out.MatchID = wager.MatchID
	defer m.recoverBatch(&out)

	if err := elo.ValidateWagerResult(wager); err != nil {
		out.Err = err
		return out
	}
	if out.MatchID == "" {
		id, err := m.newID()
		if err != nil {
			out.Err = fmt.Errorf("failed to generate match id: %w", err)
			return out
		}
		out.MatchID = id
	}
	m.log.WithFields(logrus.Fields{
		"match": out.MatchID,
		"wipe":  wager.Wipe,
	}).Info("processing wager result")

	winner, winnerErr := m.loadForMatch(ctx, wager.WinnerID)
	if winnerErr != nil {
		out.Errors = append(out.Errors, PlayerError{PlayerID: wager.WinnerID, Err: winnerErr})
	}
	loser, loserErr := m.loadForMatch(ctx, wager.LoserID)
	if loserErr != nil {
		out.Errors = append(out.Errors, PlayerError{PlayerID: wager.LoserID, Err: loserErr})
	}
	winnerRes, loserRes, err := m.calc.CalculateWager(winner.CurrentRating, loser.CurrentRating, wager.Wipe)
	if err != nil {
		out.Err = err
		return out
	}
	meta := ChangeMeta{MatchID: out.MatchID}
	if winnerErr == nil {
		m.collect(&out, m.applySafe(ctx, &winner, winnerRes, operatorID, meta))
	}
	if loserErr == nil {
		m.collect(&out, m.applySafe(ctx, &loser, loserRes, operatorID, meta))
	}
	out.Success = true
	return out
}

func (m *RatingManager) collect(out *BatchOutcome, update UpdateOutcome) {
	if !update.Success {
		out.Errors = append(out.Errors, PlayerError{PlayerID: update.PlayerID, Err: update.Err})
		return
	}
	out.Updates = append(out.Updates, update)
}

// ApplyManualChange adds delta to the current rating of playerID.
func (m *RatingManager) ApplyManualChange(ctx context.Context, playerID string, delta int, operatorID string, note string) (out UpdateOutcome) {
	defer m.recoverOutcome(playerID, &out)

	profile, err := m.load(ctx, playerID)
	if err != nil {
		return failed(playerID, err)
	}
	if err := m.bounds.ValidateDelta(profile.CurrentRating, delta); err != nil {
		return failed(playerID, err)
	}
	res := m.calc.Manual(profile.CurrentRating, profile.CurrentRating+delta, domain.ReasonManualAdjustment)
	return m.apply(ctx, &profile, res, operatorID, ChangeMeta{Note: note})
}

// SetRating replaces the current rating of playerID with newRating.
func (m *RatingManager) SetRating(ctx context.Context, playerID string, newRating int, operatorID string, note string) UpdateOutcome {
	return m.setRating(ctx, playerID, newRating, operatorID, domain.ReasonManualSet, note)
}

// ResetRating sets the rating of playerID back to the starting rating. The
// rest of the profile is kept.
func (m *RatingManager) ResetRating(ctx context.Context, playerID string, operatorID string, note string) UpdateOutcome {
	return m.setRating(ctx, playerID, m.bounds.StartingRating, operatorID, domain.ReasonReset, note)
}

func (m *RatingManager) setRating(ctx context.Context, playerID string, newRating int, operatorID string, reason domain.Reason, note string) (out UpdateOutcome) {
	defer m.recoverOutcome(playerID, &out)

	if err := m.bounds.ValidateRating(newRating); err != nil {
		return failed(playerID, err)
	}
	profile, err := m.load(ctx, playerID)
	if err != nil {
		return failed(playerID, err)
	}
	res := m.calc.Manual(profile.CurrentRating, newRating, reason)
	return m.apply(ctx, &profile, res, operatorID, ChangeMeta{Note: note})
}

// UndoLastChange reverts the latest history entry by recording its inverse.
func (m *RatingManager) UndoLastChange(ctx context.Context, playerID string, operatorID string) (out UpdateOutcome) {
	defer m.recoverOutcome(playerID, &out)

	profile, err := m.load(ctx, playerID)
	if err != nil {
		return failed(playerID, err)
	}
	if len(profile.History) == 0 {
		return failed(playerID, ErrNoHistoryToUndo)
	}
	last := profile.History[0]
	res := m.calc.Manual(profile.CurrentRating, profile.CurrentRating-last.Delta, domain.ReasonUndo)
	return m.apply(ctx, &profile, res, operatorID, ChangeMeta{
		MatchID:   last.MatchID,
		GroupName: last.GroupName,
		Note:      fmt.Sprintf("undo %s %+d", last.Reason, last.Delta),
	})
}

func (m *RatingManager) apply(ctx context.Context, profile *domain.PlayerProfile, res elo.Result, operatorID string, meta ChangeMeta) UpdateOutcome {
	now := m.now()
	oldRating := profile.CurrentRating
	newRating := m.bounds.Clamp(res.NewRating)

	reason := meta.Reason
	if reason == "" {
		reason = res.Reason
	}
	matchID := meta.MatchID
	if matchID == "" {
		id, err := m.newID()
		if err != nil {
			return failed(profile.PlayerID, fmt.Errorf("failed to generate record id: %w", err))
		}
		matchID = id
	}
	record := domain.RatingChangeRecord{
		MatchID:         matchID,
		Date:            now,
		Delta:           newRating - oldRating,
		ResultingRating: newRating,
		Reason:          reason,
		MatchOutcome:    res.Context.Outcome,
		GroupName:       meta.GroupName,
		OperatorID:      operatorID,
		Note:            meta.Note,
	}

	profile.CurrentRating = newRating
	if newRating > profile.PeakRating {
		profile.PeakRating = newRating
	}
	if res.Context.IsMVP {
		profile.MVPCount++
	}
	if res.Context.IsFlawless {
		if res.Context.IsWinner {
			profile.FlawlessWins++
		} else {
			profile.FlawlessLosses++
		}
	}
	appendRecord(profile, record, m.bounds.MaxHistoryEntries)
	profile.LastUpdate = &now

	log := m.log.WithFields(logrus.Fields{
		"player": profile.PlayerID,
		"reason": reason,
	})
	if err := m.storage.SaveProfile(ctx, profile); err != nil {
		log.WithError(err).Error("failed to save profile")
		return failed(profile.PlayerID, fmt.Errorf("%w: %w", ErrPersistenceFailure, err))
	}
	log.WithFields(logrus.Fields{
		"old": oldRating,
		"new": newRating,
	}).Debug("rating changed")

	change := elo.DetectTierChange(oldRating, newRating)
	if change.Changed {
		for _, h := range m.hooks {
			m.runHook(ctx, h, profile.PlayerID, change)
		}
	}
	return UpdateOutcome{
		Success:    true,
		PlayerID:   profile.PlayerID,
		OldRating:  oldRating,
		NewRating:  newRating,
		TierChange: change,
		Record:     record,
	}
}

func (m *RatingManager) applySafe(ctx context.Context, profile *domain.PlayerProfile, res elo.Result, operatorID string, meta ChangeMeta) (out UpdateOutcome) {
	defer m.recoverOutcome(profile.PlayerID, &out)
	return m.apply(ctx, profile, res, operatorID, meta)
}

func (m *RatingManager) load(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
	profile, err := m.storage.LoadProfile(ctx, playerID)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidPlayerID) {
			return domain.PlayerProfile{}, err
		}
		m.log.WithField("player", playerID).WithError(err).Error("failed to load profile")
		return domain.PlayerProfile{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	return profile, nil
}

// loadForMatch also enforces the cooldown. Operator actions bypass it.
func (m *RatingManager) loadForMatch(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
	profile, err := m.load(ctx, playerID)
	if err != nil {
		return domain.PlayerProfile{}, err
	}
	if m.cooldown > 0 && profile.LastUpdate != nil {
		if wait := m.cooldown - m.now().Sub(*profile.LastUpdate); wait > 0 {
			return domain.PlayerProfile{}, fmt.Errorf("%w: %s left", ErrCooldownActive, wait.Round(time.Minute))
		}
	}
	return profile, nil
}

// runHook isolates a tier change hook: the rating is already saved, so a
// panicking hook must not fail the update.
func (m *RatingManager) runHook(ctx context.Context, h TierChangeHook, playerID string, change elo.TierChange) {
	defer func() {
		if r := recover(); r != nil {
			m.log.WithField("player", playerID).Errorf("tier change hook panicked: %v", r)
		}
	}()
	h(ctx, playerID, change)
}

func (m *RatingManager) recoverOutcome(playerID string, out *UpdateOutcome) {
	if r := recover(); r != nil {
		m.log.WithField("player", playerID).Errorf("rating change panicked: %v", r)
		*out = failed(playerID, fmt.Errorf("%w: %v", ErrPersistenceFailure, r))
	}
}

func (m *RatingManager) recoverBatch(out *BatchOutcome) {
	if r := recover(); r != nil {
		m.log.WithField("match", out.MatchID).Errorf("match processing panicked: %v", r)
		out.Success = false
		out.Err = fmt.Errorf("%w: %v", ErrPersistenceFailure, r)
	}
}

func failed(playerID string, err error) UpdateOutcome {
	return UpdateOutcome{
		PlayerID: playerID,
		Err:      err,
	}
}
