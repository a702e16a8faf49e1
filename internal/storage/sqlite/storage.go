package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/sirupsen/logrus"

	"github.com/goserg/guildrating/gen/model"
	"github.com/goserg/guildrating/gen/table"
	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/migrate"
	"github.com/goserg/guildrating/internal/storage"
)

type Storage struct {
	db             *sql.DB
	startingRating int
	log            *logrus.Entry
}

var _ storage.ProfileStorage = (*Storage)(nil)

func New(l *logrus.Logger, file string, startingRating int) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "rating-storage",
	})
	db, err := storage.Open(file)
	if err != nil {
		return nil, err
	}
	err = migrate.UpServerDB(db)
	if err != nil {
		return nil, err
	}
	log.Info("rating storage connected")
	return &Storage{
		db:             db,
		startingRating: startingRating,
		log:            log,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) LoadProfile(ctx context.Context, playerID string) (domain.PlayerProfile, error) {
	if err := storage.ValidatePlayerID(playerID); err != nil {
		return domain.PlayerProfile{}, err
	}
	var dbProfile model.Profiles
	err := table.Profiles.
		SELECT(table.Profiles.AllColumns).
		FROM(table.Profiles).
		WHERE(table.Profiles.PlayerID.EQ(sqlite.String(playerID))).
		QueryContext(ctx, s.db, &dbProfile)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.NewProfile(playerID, s.startingRating), nil
		}
		return domain.PlayerProfile{}, err
	}
	var dbHistory []model.RatingHistory
	err = table.RatingHistory.
		SELECT(table.RatingHistory.AllColumns).
		FROM(table.RatingHistory).
		WHERE(table.RatingHistory.PlayerID.EQ(sqlite.String(playerID))).
		ORDER_BY(table.RatingHistory.Position.ASC()).
		QueryContext(ctx, s.db, &dbHistory)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return domain.PlayerProfile{}, err
	}
	return convertProfileToDomain(dbProfile, dbHistory), nil
}

func (s *Storage) SaveProfile(ctx context.Context, profile *domain.PlayerProfile) error {
	if err := storage.ValidatePlayerID(profile.PlayerID); err != nil {
		return err
	}
	row := convertProfileFromDomain(*profile)
	row.Version = int32(profile.Version + 1)
	err := inTxSimple(ctx, s.db, func(tx *sql.Tx) error {
		if profile.Version == 0 {
			_, err := table.Profiles.
				INSERT(table.Profiles.AllColumns).
				MODEL(row).
				ExecContext(ctx, tx)
			if err != nil {
				if strings.HasPrefix(err.Error(), "UNIQUE constraint failed") {
					return storage.ErrConcurrentModification
				}
				return err
			}
		} else {
			res, err := table.Profiles.
				UPDATE(table.Profiles.MutableColumns).
				MODEL(row).
				WHERE(
					table.Profiles.PlayerID.EQ(sqlite.String(profile.PlayerID)).
						AND(table.Profiles.Version.EQ(sqlite.Int(profile.Version))),
				).
				ExecContext(ctx, tx)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return storage.ErrConcurrentModification
			}
		}

		_, err := table.RatingHistory.
			DELETE().
			WHERE(table.RatingHistory.PlayerID.EQ(sqlite.String(profile.PlayerID))).
			ExecContext(ctx, tx)
		if err != nil {
			return err
		}
		if len(profile.History) == 0 {
			return nil
		}
		_, err = table.RatingHistory.
			INSERT(table.RatingHistory.AllColumns).
			MODELS(convertHistoryFromDomain(profile.PlayerID, profile.History)).
			ExecContext(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}
	profile.Version++
	return nil
}

func (s *Storage) ListProfiles(ctx context.Context, limit int) ([]domain.PlayerProfile, error) {
	stmt := table.Profiles.
		SELECT(table.Profiles.AllColumns).
		FROM(table.Profiles).
		ORDER_BY(table.Profiles.CurrentRating.DESC(), table.Profiles.PlayerID.ASC())
	if limit > 0 {
		stmt = stmt.LIMIT(int64(limit))
	}
	var dbProfiles []model.Profiles
	err := stmt.QueryContext(ctx, s.db, &dbProfiles)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	if len(dbProfiles) == 0 {
		return []domain.PlayerProfile{}, nil
	}

	ids := make([]sqlite.Expression, 0, len(dbProfiles))
	for _, p := range dbProfiles {
		ids = append(ids, sqlite.String(p.PlayerID))
	}
	var dbHistory []model.RatingHistory
	err = table.RatingHistory.
		SELECT(table.RatingHistory.AllColumns).
		FROM(table.RatingHistory).
		WHERE(table.RatingHistory.PlayerID.IN(ids...)).
		ORDER_BY(table.RatingHistory.PlayerID.ASC(), table.RatingHistory.Position.ASC()).
		QueryContext(ctx, s.db, &dbHistory)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	byPlayer := make(map[string][]model.RatingHistory)
	for _, h := range dbHistory {
		byPlayer[h.PlayerID] = append(byPlayer[h.PlayerID], h)
	}

	profiles := make([]domain.PlayerProfile, 0, len(dbProfiles))
	for _, p := range dbProfiles {
		profiles = append(profiles, convertProfileToDomain(p, byPlayer[p.PlayerID]))
	}
	return profiles, nil
}

func inTx[T any](ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) (T, error)) (T, error) {
	var zero T
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zero, err
	}
	value, err := fn(tx)
	if err != nil {
		return zero, errors.Join(err, tx.Rollback())
	}
	return value, tx.Commit()
}

func inTxSimple(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	_, err := inTx(ctx, db, func(tx *sql.Tx) (struct{}, error) { return struct{}{}, fn(tx) })
	return err
}
