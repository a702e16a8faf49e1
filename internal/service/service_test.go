package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/storage"
	"github.com/goserg/guildrating/internal/storage/mem"
)

// lowestSource always draws the lower end of a range.
type lowestSource struct{}

func (lowestSource) Intn(int) int { return 0 }

var testNow = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

func newTestManager(st storage.ProfileStorage) *RatingManager {
	l := logrus.New()
	l.SetOutput(io.Discard)
	m := New(l, st, elo.NewCalculator(elo.DefaultBounds(), lowestSource{}), 0)
	m.now = func() time.Time { return testNow }
	var n int
	m.newID = func() (string, error) {
		n++
		return fmt.Sprintf("id-%d", n), nil
	}
	return m
}

func ladderMatch(outcome domain.MatchOutcome) domain.MatchResult {
	return domain.MatchResult{
		MatchID:       "m1",
		WinnerTeam:    "owls",
		LoserTeam:     "crows",
		WinnerPlayers: []string{"a", "b", "c"},
		LoserPlayers:  []string{"d", "e"},
		WinnerMVP:     "a",
		LoserMVP:      "d",
		Outcome:       outcome,
	}
}

func TestRatingManager_startingProfile(t *testing.T) {
	m := newTestManager(mem.New(elo.DefaultStartingRating))

	p, err := m.Profile(context.Background(), "newbie")
	require.NoError(t, err)
	assert.Equal(t, elo.DefaultStartingRating, p.CurrentRating)
	assert.Equal(t, elo.DefaultStartingRating, p.PeakRating)
	assert.Empty(t, p.History)
	assert.Zero(t, p.MVPCount)
	assert.Zero(t, p.FlawlessWins)
	assert.Zero(t, p.FlawlessLosses)
}

func TestRatingManager_ProcessMatchResult(t *testing.T) {
	tests := []struct {
		name           string
		outcome        domain.MatchOutcome
		want           map[string]int
		flawlessWins   int
		flawlessLosses int
	}{
		{
			name:    "close win",
			outcome: domain.Outcome21,
			want:    map[string]int{"a": 1028, "b": 1018, "c": 1018, "d": 985, "e": 975},
		},
		{
			name:           "flawless win",
			outcome:        domain.Outcome20,
			want:           map[string]int{"a": 1035, "b": 1025, "c": 1025, "d": 980, "e": 970},
			flawlessWins:   1,
			flawlessLosses: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newTestManager(mem.New(elo.DefaultStartingRating))

			out := m.ProcessMatchResult(ctx, ladderMatch(tt.outcome), "op")
			require.True(t, out.Success)
			require.NoError(t, out.Err)
			assert.Empty(t, out.Errors)
			assert.Len(t, out.Updates, 5)
			assert.Equal(t, "m1", out.MatchID)

			for id, rating := range tt.want {
				p, err := m.Profile(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, rating, p.CurrentRating, id)
				require.Len(t, p.History, 1)
				assert.Equal(t, rating-elo.DefaultStartingRating, p.History[0].Delta)
				assert.Equal(t, "op", p.History[0].OperatorID)
				if id == "b" {
					assert.Equal(t, tt.flawlessWins, p.FlawlessWins)
				}
				if id == "e" {
					assert.Equal(t, tt.flawlessLosses, p.FlawlessLosses)
				}
			}

			a, err := m.Profile(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, 1, a.MVPCount)
			assert.Equal(t, "owls", a.History[0].GroupName)
			assert.Equal(t, tt.outcome, a.History[0].MatchOutcome)
			assert.Equal(t, testNow, *a.LastUpdate)

			d, err := m.Profile(ctx, "d")
			require.NoError(t, err)
			assert.Equal(t, 1, d.MVPCount)
			assert.Equal(t, "crows", d.History[0].GroupName)
			assert.Equal(t, tt.outcome.Mirror(), d.History[0].MatchOutcome)
		})
	}
}

func TestRatingManager_ProcessMatchResult_partialFailure(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))
	match := ladderMatch(domain.Outcome21)
	match.WinnerPlayers = []string{"a", "", "c"}

	out := m.ProcessMatchResult(ctx, match, "op")
	assert.True(t, out.Success)
	assert.Len(t, out.Updates, 4)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "", out.Errors[0].PlayerID)
	assert.ErrorIs(t, out.Errors[0], storage.ErrInvalidPlayerID)

	c, err := m.Profile(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 1018, c.CurrentRating)
}

func TestRatingManager_ProcessMatchResult_invalid(t *testing.T) {
	ctx := context.Background()
	st := mem.New(elo.DefaultStartingRating)
	m := newTestManager(st)
	match := ladderMatch(domain.Outcome21)
	match.WinnerMVP = ""
	match.LoserMVP = ""

	out := m.ProcessMatchResult(ctx, match, "op")
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err, elo.ErrMissingMVP)
	assert.Empty(t, out.Updates)

	match = ladderMatch(domain.Outcome21)
	match.LoserPlayers = nil
	out = m.ProcessMatchResult(ctx, match, "op")
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err, elo.ErrEmptyPlayerList)

	all, err := st.ListProfiles(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRatingManager_ProcessMatchResult_generatesMatchID(t *testing.T) {
	m := newTestManager(mem.New(elo.DefaultStartingRating))
	match := ladderMatch(domain.Outcome21)
	match.MatchID = ""

	out := m.ProcessMatchResult(context.Background(), match, "op")
	require.True(t, out.Success)
	assert.Equal(t, "id-1", out.MatchID)
	for _, u := range out.Updates {
		assert.Equal(t, "id-1", u.Record.MatchID)
	}
}

func TestRatingManager_ProcessWagerResult(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))

	out := m.ProcessWagerResult(ctx, domain.WagerResult{MatchID: "w1", WinnerID: "a", LoserID: "b", Wipe: true}, "op")
	require.True(t, out.Success)
	require.Len(t, out.Updates, 2)
	assert.Empty(t, out.Errors)

	a, err := m.Profile(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1045, a.CurrentRating)
	assert.Equal(t, domain.ReasonWagerWinFlawless, a.History[0].Reason)
	assert.Equal(t, 1, a.FlawlessWins)
	assert.Zero(t, a.MVPCount)

	b, err := m.Profile(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 950, b.CurrentRating)
	assert.Equal(t, domain.ReasonWagerLossFlawless, b.History[0].Reason)
	assert.Equal(t, 1, b.FlawlessLosses)

	out = m.ProcessWagerResult(ctx, domain.WagerResult{WinnerID: "a", LoserID: "a"}, "op")
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err, elo.ErrSamePlayer)
}

func TestRatingManager_clampedDeltaIsRecorded(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))
	require.True(t, m.SetRating(ctx, "a", 3000, "op", "").Success)

	out := m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op")
	require.True(t, out.Success)

	a, err := m.Profile(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3000, a.CurrentRating)
	assert.Equal(t, 3000, a.PeakRating)
	assert.Zero(t, a.History[0].Delta)
	assert.Equal(t, 3000, a.History[0].ResultingRating)
}

func TestRatingManager_peakNeverDecreases(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))

	peak := elo.DefaultStartingRating
	for _, delta := range []int{300, -500, 120, 200, -60, 500, -500, -500} {
		out := m.ApplyManualChange(ctx, "a", delta, "op", "")
		require.True(t, out.Success, "%v", out.Err)
		p, err := m.Profile(ctx, "a")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.PeakRating, p.CurrentRating)
		assert.GreaterOrEqual(t, p.PeakRating, peak)
		peak = p.PeakRating
	}
	assert.Equal(t, 1560, peak)
}

func TestRatingManager_historyIsBounded(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))

	total := elo.DefaultMaxHistoryEntries + 1
	for i := 0; i < total; i++ {
		delta := 1
		if i%2 == 1 {
			delta = -1
		}
		out := m.ApplyManualChange(ctx, "a", delta, "op", fmt.Sprintf("n%d", i))
		require.True(t, out.Success, "%v", out.Err)
	}

	p, err := m.Profile(ctx, "a")
	require.NoError(t, err)
	require.Len(t, p.History, elo.DefaultMaxHistoryEntries)
	assert.Equal(t, fmt.Sprintf("n%d", total-1), p.History[0].Note)
	assert.Equal(t, "n1", p.History[len(p.History)-1].Note)
}

func TestRatingManager_UndoLastChange(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))
	require.True(t, m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op").Success)

	for _, id := range []string{"a", "e"} {
		before, err := m.Profile(ctx, id)
		require.NoError(t, err)
		last := before.History[0]

		out := m.UndoLastChange(ctx, id, "mod")
		require.True(t, out.Success, "%v", out.Err)
		assert.Equal(t, last.ResultingRating-last.Delta, out.NewRating)
		assert.Equal(t, elo.DefaultStartingRating, out.NewRating)

		after, err := m.Profile(ctx, id)
		require.NoError(t, err)
		require.Len(t, after.History, 2)
		assert.Equal(t, domain.ReasonUndo, after.History[0].Reason)
		assert.Equal(t, -last.Delta, after.History[0].Delta)
		assert.Equal(t, "mod", after.History[0].OperatorID)
		assert.Equal(t, last, after.History[1])
	}

	out := m.UndoLastChange(ctx, "nobody", "mod")
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err, ErrNoHistoryToUndo)
}

func TestRatingManager_manualOperations(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))

	out := m.ApplyManualChange(ctx, "a", 0, "op", "")
	assert.ErrorIs(t, out.Err, elo.ErrInvalidRatingDelta)
	out = m.ApplyManualChange(ctx, "a", 501, "op", "")
	assert.ErrorIs(t, out.Err, elo.ErrInvalidRatingDelta)

	out = m.SetRating(ctx, "a", 3001, "op", "")
	assert.ErrorIs(t, out.Err, elo.ErrInvalidRatingValue)

	out = m.SetRating(ctx, "a", 100, "op", "tournament seed")
	require.True(t, out.Success)
	assert.Equal(t, domain.ReasonManualSet, out.Record.Reason)
	assert.Equal(t, -900, out.Record.Delta)
	assert.Equal(t, "tournament seed", out.Record.Note)

	out = m.ApplyManualChange(ctx, "a", -200, "op", "")
	assert.ErrorIs(t, out.Err, elo.ErrInvalidRatingDelta)

	out = m.ResetRating(ctx, "a", "op", "")
	require.True(t, out.Success)
	assert.Equal(t, elo.DefaultStartingRating, out.NewRating)
	assert.Equal(t, domain.ReasonReset, out.Record.Reason)

	p, err := m.Profile(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, p.History, 2)
}

func TestRatingManager_tierChangeHook(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))
	var changes []elo.TierChange
	m.OnTierChange(func(_ context.Context, playerID string, change elo.TierChange) {
		if playerID == "b" {
			changes = append(changes, change)
		}
	})

	require.True(t, m.SetRating(ctx, "b", 990, "op", "").Success)
	out := m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op")
	require.True(t, out.Success)

	require.Len(t, changes, 2)
	assert.Equal(t, elo.Demotion, changes[0].Direction)
	assert.Equal(t, elo.Promotion, changes[1].Direction)
	assert.Equal(t, "rank_b", changes[1].NewTier.Key)
}

func TestRatingManager_panickingHookKeepsSavedChange(t *testing.T) {
	ctx := context.Background()
	st := mem.New(elo.DefaultStartingRating)
	m := newTestManager(st)
	var calls int
	m.OnTierChange(func(context.Context, string, elo.TierChange) {
		panic("notifier down")
	})
	m.OnTierChange(func(context.Context, string, elo.TierChange) {
		calls++
	})

	out := m.SetRating(ctx, "b", 1500, "op", "")
	require.NoError(t, out.Err)
	assert.True(t, out.Success)
	assert.True(t, out.TierChange.Changed)
	assert.Equal(t, 1, calls)

	b, err := st.LoadProfile(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1500, b.CurrentRating)
	assert.Len(t, b.History, 1)

	batch := m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op")
	require.NoError(t, batch.Err)
	assert.True(t, batch.Success)
	assert.Empty(t, batch.Errors)
	assert.Len(t, batch.Updates, 5)
}

func TestRatingManager_ProcessMatchResult_duplicatePlayers(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		winners []string
		losers  []string
	}{
		{name: "repeated within a team", winners: []string{"a", "a", "c"}, losers: []string{"d", "e"}},
		{name: "on both teams", winners: []string{"a", "b", "c"}, losers: []string{"d", "c"}},
		{name: "both", winners: []string{"a", "a", "c"}, losers: []string{"d", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := mem.New(elo.DefaultStartingRating)
			m := newTestManager(st)
			match := ladderMatch(domain.Outcome21)
			match.WinnerPlayers, match.LoserPlayers = tt.winners, tt.losers

			out := m.ProcessMatchResult(ctx, match, "op")
			assert.False(t, out.Success)
			assert.ErrorIs(t, out.Err, elo.ErrDuplicatePlayer)
			assert.Empty(t, out.Updates)

			all, err := st.ListProfiles(ctx, 0)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestRatingManager_cooldown(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(mem.New(elo.DefaultStartingRating))
	m.cooldown = time.Hour

	require.True(t, m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op").Success)
	out := m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op")
	assert.True(t, out.Success)
	assert.Empty(t, out.Updates)
	require.Len(t, out.Errors, 5)
	assert.ErrorIs(t, out.Errors[0], ErrCooldownActive)

	assert.True(t, m.ApplyManualChange(ctx, "a", 10, "op", "").Success)

	m.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	out = m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op")
	assert.Len(t, out.Updates, 5)
}

type mockStorage struct {
	mock.Mock
}

func (s *mockStorage) LoadProfile(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
	args := s.Called(ctx, playerID)
	return args.Get(0).(domain.PlayerProfile), args.Error(1)
}

func (s *mockStorage) SaveProfile(ctx context.Context, profile *domain.PlayerProfile) error {
	args := s.Called(ctx, profile)
	return args.Error(0)
}

func (s *mockStorage) ListProfiles(ctx context.Context, limit int) ([]domain.PlayerProfile, error) {
	args := s.Called(ctx, limit)
	return args.Get(0).([]domain.PlayerProfile), args.Error(1)
}

func TestRatingManager_persistenceFailure(t *testing.T) {
	tests := []struct {
		name    string
		saveErr error
	}{
		{name: "storage down", saveErr: errors.New("disk I/O error")},
		{name: "stale profile", saveErr: storage.ErrConcurrentModification},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &mockStorage{}
			st.On("LoadProfile", mock.Anything, "a").Return(domain.NewProfile("a", 1000), nil)
			st.On("SaveProfile", mock.Anything, mock.Anything).Return(tt.saveErr)
			m := newTestManager(st)

			out := m.ApplyManualChange(context.Background(), "a", 10, "op", "")
			assert.False(t, out.Success)
			assert.ErrorIs(t, out.Err, ErrPersistenceFailure)
			assert.ErrorIs(t, out.Err, tt.saveErr)
			st.AssertExpectations(t)
		})
	}
}

func TestRatingManager_loadFailureInBatch(t *testing.T) {
	st := &mockStorage{}
	st.On("LoadProfile", mock.Anything, "a").Return(domain.PlayerProfile{}, errors.New("timeout"))
	st.On("LoadProfile", mock.Anything, "b").Return(domain.NewProfile("b", 1000), nil)
	st.On("SaveProfile", mock.Anything, mock.Anything).Return(nil)
	m := newTestManager(st)

	out := m.ProcessWagerResult(context.Background(), domain.WagerResult{MatchID: "w", WinnerID: "a", LoserID: "b"}, "op")
	assert.True(t, out.Success)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "a", out.Errors[0].PlayerID)
	assert.ErrorIs(t, out.Errors[0], ErrPersistenceFailure)
	require.Len(t, out.Updates, 1)
	assert.Equal(t, 955, out.Updates[0].NewRating)
	st.AssertNumberOfCalls(t, "SaveProfile", 1)
}

type panickingStorage struct {
	*mem.Storage
}

func (panickingStorage) SaveProfile(context.Context, *domain.PlayerProfile) error {
	panic("driver bug")
}

func TestRatingManager_recoversPanics(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(panickingStorage{Storage: mem.New(elo.DefaultStartingRating)})

	out := m.ApplyManualChange(ctx, "a", 10, "op", "")
	assert.False(t, out.Success)
	assert.ErrorIs(t, out.Err, ErrPersistenceFailure)

	batch := m.ProcessMatchResult(ctx, ladderMatch(domain.Outcome21), "op")
	assert.True(t, batch.Success)
	assert.Len(t, batch.Errors, 5)
}

func TestRatingManager_ExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestManager(mem.New(elo.DefaultStartingRating))
	require.True(t, src.ProcessMatchResult(ctx, ladderMatch(domain.Outcome20), "op").Success)

	data, err := src.Export(ctx)
	require.NoError(t, err)

	dst := newTestManager(mem.New(elo.DefaultStartingRating))
	require.True(t, dst.SetRating(ctx, "a", 1500, "op", "").Success)
	n, err := dst.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	a, err := dst.Profile(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1035, a.CurrentRating)
	assert.Equal(t, 1, a.MVPCount)
	assert.Len(t, a.History, 1)

	_, err = dst.Import(ctx, []byte(`{"version":2,"profiles":[]}`))
	assert.ErrorIs(t, err, ErrInvalidExportVersion)

	_, err = dst.Import(ctx, []byte(`{"version":1,"profiles":[`))
	assert.ErrorIs(t, err, ErrInvalidExport)
	_, err = dst.Import(ctx, []byte(`{"version":"1"}`))
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = dst.Import(ctx, []byte(`{"version":1,"profiles":[{"playerId":"x","currentRating":4000,"peakRating":4000}]}`))
	assert.ErrorIs(t, err, elo.ErrInvalidRatingValue)
}
