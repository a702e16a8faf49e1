package tgbot

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/botstorage"
	"github.com/goserg/guildrating/bot/model"
	"github.com/goserg/guildrating/internal/normalize"
	"github.com/goserg/guildrating/internal/service"
	"github.com/goserg/guildrating/internal/storage"
)

var ErrNoLinkedPlayer = errors.New("игрок не задан, используйте /me <игрок>")

type MeCommand struct {
	manager    *service.RatingManager
	botStorage botstorage.BotStorage
}

func (c *MeCommand) Reset(model.User) {}

func (c *MeCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if args == "" {
		text, err := c.processMe(ctx, user)
		if err != nil {
			return false, err
		}
		resp.Text = text
		return false, nil
	}
	text, err := c.connectMe(user, args)
	if err != nil {
		return false, err
	}
	resp.Text = text
	return false, nil
}

func (c *MeCommand) Help() string {
	return `Информация об избранном игроке. Использование: /me или /me <игрок>`
}

func (c *MeCommand) processMe(ctx context.Context, user model.User) (string, error) {
	playerID, err := linkedPlayer(c.botStorage, user)
	if err != nil {
		return "", err
	}
	profile, err := c.manager.Profile(ctx, playerID)
	if err != nil {
		return "", err
	}
	return printProfile(profile), nil
}

func (c *MeCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *MeCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *MeCommand) connectMe(user model.User, playerName string) (string, error) {
	playerID := normalize.Name(playerName)
	if err := storage.ValidatePlayerID(playerID); err != nil {
		return "", err
	}
	err := c.botStorage.LinkPlayer(user, playerID)
	if err != nil {
		return "", err
	}
	return "игрок " + playerID + " задан, теперь можно вызвать /me", nil
}

func linkedPlayer(bs botstorage.BotStorage, user model.User) (string, error) {
	playerID, err := bs.GetMyPlayer(user)
	if errors.Is(err, botstorage.ErrNotFound) {
		return "", ErrNoLinkedPlayer
	}
	return playerID, err
}
