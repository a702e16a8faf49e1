package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-jet/jet/v2/qrm"
	"github.com/go-jet/jet/v2/sqlite"
	"github.com/sirupsen/logrus"

	"github.com/goserg/guildrating/bot/botstorage"
	dbmodel "github.com/goserg/guildrating/bot/gen/model"
	"github.com/goserg/guildrating/bot/gen/table"
	"github.com/goserg/guildrating/bot/model"
	"github.com/goserg/guildrating/internal/migrate"
	"github.com/goserg/guildrating/internal/storage"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ botstorage.BotStorage = (*Storage)(nil)

func New(l *logrus.Logger, file string) (*Storage, error) {
	log := l.WithFields(map[string]interface{}{
		"from": "bot-storage",
	})
	db, err := storage.Open(file)
	if err != nil {
		return nil, err
	}
	err = migrate.UpBotDB(db)
	if err != nil {
		return nil, err
	}
	log.Info("bot storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) NewUser(user model.User) (model.User, error) {
	if user.Role == 0 {
		user.Role = model.RoleUser
	}
	var dbuser dbmodel.Users
	err := table.Users.
		INSERT(table.Users.AllColumns).
		MODEL(convertUserFromDomain(user)).
		RETURNING(table.Users.AllColumns).
		Query(s.db, &dbuser)
	if err != nil {
		return model.User{}, err
	}
	return convertUserToDomain(dbuser, nil), nil
}

func (s *Storage) GetUser(id int) (model.User, error) {
	var dbuser dbmodel.Users
	err := table.Users.
		SELECT(table.Users.AllColumns).
		FROM(table.Users).
		WHERE(table.Users.ID.EQ(sqlite.Int(int64(id)))).
		Query(s.db, &dbuser)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return model.User{}, botstorage.ErrNotFound
		}
		return model.User{}, err
	}
	var events []dbmodel.UserEvents
	err = table.UserEvents.
		SELECT(table.UserEvents.AllColumns).
		FROM(table.UserEvents).
		WHERE(table.UserEvents.UserID.EQ(sqlite.Int(int64(id)))).
		Query(s.db, &events)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return model.User{}, err
	}
	return convertUserToDomain(dbuser, events), nil
}

func (s *Storage) ListUsers() ([]model.User, error) {
	var dbusers []dbmodel.Users
	err := table.Users.
		SELECT(table.Users.AllColumns).
		FROM(table.Users).
		ORDER_BY(table.Users.ID.ASC()).
		Query(s.db, &dbusers)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	var events []dbmodel.UserEvents
	err = table.UserEvents.
		SELECT(table.UserEvents.AllColumns).
		FROM(table.UserEvents).
		Query(s.db, &events)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	byUser := make(map[int64][]dbmodel.UserEvents)
	for _, e := range events {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}
	converted := make([]model.User, 0, len(dbusers))
	for _, u := range dbusers {
		converted = append(converted, convertUserToDomain(u, byUser[u.ID]))
	}
	return converted, nil
}

func (s *Storage) UpdateUserRole(user model.User) error {
	_, err := table.Users.
		UPDATE(table.Users.Role, table.Users.UpdatedAt).
		MODEL(dbmodel.Users{
			Role:      int32(user.Role),
			UpdatedAt: time.Now().UTC(),
		}).
		WHERE(table.Users.ID.EQ(sqlite.Int(int64(user.ID)))).
		Exec(s.db)
	if err != nil {
		return err
	}
	return nil
}

func (s *Storage) Subscribe(user model.User, event model.EventType) error {
	_, err := table.UserEvents.
		INSERT(table.UserEvents.AllColumns).
		MODEL(dbmodel.UserEvents{
			UserID: int64(user.ID),
			Event:  string(event),
		}).
		Exec(s.db)
	if err != nil {
		if strings.HasPrefix(err.Error(), "UNIQUE constraint failed") {
			return nil
		}
		return err
	}
	return nil
}

func (s *Storage) Unsubscribe(user model.User, event model.EventType) error {
	_, err := table.UserEvents.
		DELETE().
		WHERE(
			table.UserEvents.UserID.EQ(sqlite.Int(int64(user.ID))).
				AND(table.UserEvents.Event.EQ(sqlite.String(string(event)))),
		).Exec(s.db)
	if err != nil {
		return err
	}
	return nil
}

func (s *Storage) GetMyPlayer(user model.User) (string, error) {
	var up dbmodel.UserPlayers
	err := table.UserPlayers.
		SELECT(table.UserPlayers.AllColumns).
		FROM(table.UserPlayers).
		WHERE(table.UserPlayers.UserID.EQ(sqlite.Int(int64(user.ID)))).
		Query(s.db, &up)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return "", botstorage.ErrNotFound
		}
		return "", err
	}
	return up.PlayerID, nil
}

func (s *Storage) LinkPlayer(user model.User, playerID string) error {
	_, err := table.UserPlayers.
		INSERT(table.UserPlayers.AllColumns).
		MODEL(dbmodel.UserPlayers{
			UserID:   int64(user.ID),
			PlayerID: playerID,
		}).
		ON_CONFLICT(table.UserPlayers.UserID).
		DO_UPDATE(sqlite.SET(table.UserPlayers.PlayerID.SET(sqlite.String(playerID)))).
		Exec(s.db)
	if err != nil {
		return err
	}
	return nil
}

func (s *Storage) Log(user model.User, msg string) error {
	_, err := table.Log.
		INSERT(table.Log.UserID, table.Log.Message, table.Log.CreatedAt).
		MODEL(dbmodel.Log{
			UserID:    int64(user.ID),
			Message:   msg,
			CreatedAt: time.Now().UTC(),
		}).
		Exec(s.db)
	if err != nil {
		return err
	}
	return nil
}

func convertUserFromDomain(user model.User) dbmodel.Users {
	return dbmodel.Users{
		ID:        int64(user.ID),
		FirstName: user.FirstName,
		Username:  user.Username,
		Role:      int32(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func convertUserToDomain(user dbmodel.Users, events []dbmodel.UserEvents) model.User {
	converted := model.User{
		ID:        int(user.ID),
		FirstName: user.FirstName,
		Username:  user.Username,
		Role:      model.UserRole(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	for _, e := range events {
		converted.Subscriptions = append(converted.Subscriptions, model.EventType(e.Event))
	}
	return converted
}
