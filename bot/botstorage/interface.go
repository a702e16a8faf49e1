package botstorage

import (
	"errors"

	"github.com/goserg/guildrating/bot/model"
)

var ErrNotFound = errors.New("not found")

type BotStorage interface {
	NewUser(user model.User) (model.User, error)
	GetUser(id int) (model.User, error)
	ListUsers() ([]model.User, error)
	UpdateUserRole(user model.User) error

	Subscribe(user model.User, event model.EventType) error
	Unsubscribe(user model.User, event model.EventType) error

	GetMyPlayer(user model.User) (string, error)
	LinkPlayer(user model.User, playerID string) error

	Log(user model.User, msg string) error
	Close() error
}
