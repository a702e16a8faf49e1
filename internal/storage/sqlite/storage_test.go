package sqlite

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
}

func TestStorage(t *testing.T) {
	suite.Run(t, &StorageSuite{})
}

func (s *StorageSuite) SetupTest() {
	l := logrus.New()
	l.SetOutput(io.Discard)
	st, err := New(l, filepath.Join(s.T().TempDir(), "rating.sqlite"), 1000)
	s.Require().NoError(err)
	s.storage = st
}

func (s *StorageSuite) TearDownTest() {
	s.Require().NoError(s.storage.Close())
}

func (s *StorageSuite) TestLoadMissingReturnsDefaults() {
	p, err := s.storage.LoadProfile(context.Background(), "newbie")
	s.Require().NoError(err)
	s.Equal("newbie", p.PlayerID)
	s.Equal(1000, p.CurrentRating)
	s.Equal(1000, p.PeakRating)
	s.Empty(p.History)
	s.Zero(p.MVPCount)
	s.Nil(p.LastUpdate)
	s.Zero(p.Version)
}

func (s *StorageSuite) TestLoadRejectsEmptyID() {
	_, err := s.storage.LoadProfile(context.Background(), " ")
	s.ErrorIs(err, storage.ErrInvalidPlayerID)
}

func (s *StorageSuite) TestSaveAndLoadRoundTrip() {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := domain.NewProfile("alice", 1000)
	p.CurrentRating = 1040
	p.PeakRating = 1040
	p.MVPCount = 1
	p.FlawlessWins = 1
	p.LastUpdate = &now
	p.History = []domain.RatingChangeRecord{
		{
			MatchID:         "m2",
			Date:            now,
			Delta:           20,
			ResultingRating: 1040,
			Reason:          domain.ReasonLadderWinMVPFlawless,
			MatchOutcome:    domain.Outcome20,
			GroupName:       "owls",
			OperatorID:      "op",
		},
		{
			MatchID:         "m1",
			Date:            now.Add(-time.Hour),
			Delta:           20,
			ResultingRating: 1020,
			Reason:          domain.ReasonManualAdjustment,
			OperatorID:      "op",
			Note:            "fix",
		},
	}
	s.Require().NoError(s.storage.SaveProfile(ctx, &p))
	s.Equal(int64(1), p.Version)

	got, err := s.storage.LoadProfile(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1040, got.CurrentRating)
	s.Equal(int64(1), got.Version)
	s.Require().Len(got.History, 2)
	s.Equal("m2", got.History[0].MatchID)
	s.Equal("owls", got.History[0].GroupName)
	s.Equal(domain.Outcome20, got.History[0].MatchOutcome)
	s.Equal("m1", got.History[1].MatchID)
	s.Equal("fix", got.History[1].Note)
	s.Empty(got.History[1].MatchOutcome)
	s.Require().NotNil(got.LastUpdate)
	s.True(now.Equal(*got.LastUpdate))

	got.CurrentRating = 1010
	got.History = got.History[:1]
	s.Require().NoError(s.storage.SaveProfile(ctx, &got))
	again, err := s.storage.LoadProfile(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1010, again.CurrentRating)
	s.Len(again.History, 1)
	s.Equal(int64(2), again.Version)
}

func (s *StorageSuite) TestStaleWriteIsRejected() {
	ctx := context.Background()
	p := domain.NewProfile("bob", 1000)
	s.Require().NoError(s.storage.SaveProfile(ctx, &p))

	first, err := s.storage.LoadProfile(ctx, "bob")
	s.Require().NoError(err)
	second, err := s.storage.LoadProfile(ctx, "bob")
	s.Require().NoError(err)

	first.CurrentRating = 1100
	s.Require().NoError(s.storage.SaveProfile(ctx, &first))
	second.CurrentRating = 900
	s.ErrorIs(s.storage.SaveProfile(ctx, &second), storage.ErrConcurrentModification)

	fresh := domain.NewProfile("bob", 1000)
	s.ErrorIs(s.storage.SaveProfile(ctx, &fresh), storage.ErrConcurrentModification)
}

func (s *StorageSuite) TestListProfiles() {
	ctx := context.Background()
	for id, rating := range map[string]int{"a": 900, "b": 1500, "c": 1200} {
		p := domain.NewProfile(id, 1000)
		p.CurrentRating = rating
		p.History = []domain.RatingChangeRecord{{MatchID: "x", Date: time.Now(), Reason: domain.ReasonManualSet, OperatorID: "op"}}
		s.Require().NoError(s.storage.SaveProfile(ctx, &p))
	}
	top, err := s.storage.ListProfiles(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal("b", top[0].PlayerID)
	s.Equal("c", top[1].PlayerID)
	s.Len(top[0].History, 1)

	all, err := s.storage.ListProfiles(ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}
