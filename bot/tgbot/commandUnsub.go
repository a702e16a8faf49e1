package tgbot

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/botstorage"
	"github.com/goserg/guildrating/bot/model"
)

type UnsubCommand struct {
	botStorage botstorage.BotStorage
	unsub      func(model.EventType, int)
}

func (c *UnsubCommand) Reset(model.User) {}

func (c *UnsubCommand) Run(_ context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	events, err := parseEvents(args)
	if err != nil {
		return false, err
	}
	for _, event := range events {
		err := c.botStorage.Unsubscribe(user, event)
		if err != nil {
			return false, err
		}
		c.unsub(event, user.ID)
	}
	resp.Text = "Подписка отменена, чтобы подписаться на уведомления: /sub"
	return false, nil
}

func (c *UnsubCommand) Help() string {
	return `Отписаться от уведомлений. Использование: /unsub, /unsub tier или /unsub top`
}

func (c *UnsubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *UnsubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
