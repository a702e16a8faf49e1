package tgbot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/botstorage"
	"github.com/goserg/guildrating/bot/model"
)

var ErrRoleAlreadySet = errors.New("эта роль уже задана")

type RoleCommand struct {
	adminPassword string
	botStorage    botstorage.BotStorage
}

func (c *RoleCommand) Reset(model.User) {}

func (c *RoleCommand) Run(_ context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	text, err := c.handleRole(user, args)
	if err != nil {
		return false, err
	}
	resp.Text = text
	return false, nil
}

func (c *RoleCommand) Help() string {
	return `Изменение роли. Использование: /role user, /role admin <pass> или /role grant <user_id> <role>`
}

func (c *RoleCommand) handleRole(user model.User, args string) (string, error) {
	a := strings.Fields(args)
	if len(a) == 0 {
		return "", ErrBadRequest
	}
	switch a[0] {
	case "admin":
		if user.Role == model.RoleAdmin {
			return "", ErrRoleAlreadySet
		}
		if len(a) != 2 {
			return "", ErrBadRequest
		}
		if c.adminPassword == "" || a[1] != c.adminPassword { // wrong admin password
			return "", ErrBadRequest
		}
		user.Role = model.RoleAdmin
	case "user":
		if user.Role == model.RoleUser {
			return "", ErrRoleAlreadySet
		}
		user.Role = model.RoleUser
	case "grant":
		return c.grant(user, a[1:])
	default:
		return "", ErrBadRequest
	}
	err := c.botStorage.UpdateUserRole(user)
	if err != nil {
		return "", err
	}
	return "роль обновлена: " + user.Role.String(), nil
}

// grant lets an admin assign any role to another user.
func (c *RoleCommand) grant(admin model.User, args []string) (string, error) {
	if admin.Role != model.RoleAdmin || len(args) != 2 {
		return "", ErrBadRequest
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return "", ErrBadRequest
	}
	role, ok := model.ParseRole(args[1])
	if !ok {
		return "", ErrBadRequest
	}
	target, err := c.botStorage.GetUser(id)
	if err != nil {
		if errors.Is(err, botstorage.ErrNotFound) {
			return "", errors.New("пользователь не найден")
		}
		return "", err
	}
	if target.Role == role {
		return "", ErrRoleAlreadySet
	}
	target.Role = role
	if err := c.botStorage.UpdateUserRole(target); err != nil {
		return "", err
	}
	return "роль пользователя " + args[0] + " обновлена: " + role.String(), nil
}

func (c *RoleCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *RoleCommand) Visibility() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.RoleAdmin, model.RoleModerator)
}
