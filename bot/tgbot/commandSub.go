package tgbot

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/botstorage"
	"github.com/goserg/guildrating/bot/model"
)

var allEvents = []model.EventType{model.TierChange, model.DailyTop}

// parseEvents returns every event type for empty args.
func parseEvents(args string) ([]model.EventType, error) {
	if args == "" {
		return allEvents, nil
	}
	event, ok := model.ParseEventType(args)
	if !ok {
		return nil, ErrBadRequest
	}
	return []model.EventType{event}, nil
}

type SubCommand struct {
	botStorage botstorage.BotStorage
	sub        func(model.EventType, int)
}

func (c *SubCommand) Reset(model.User) {}

func (c *SubCommand) Run(_ context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	events, err := parseEvents(args)
	if err != nil {
		return false, err
	}
	for _, event := range events {
		err := c.botStorage.Subscribe(user, event)
		if err != nil {
			return false, err
		}
		c.sub(event, user.ID)
	}
	resp.Text = "Подписка оформленна, чтобы отписаться от уведомлений: /unsub"
	return false, nil
}

func (c *SubCommand) Help() string {
	return `Подписаться на уведомления. Использование: /sub, /sub tier (смена ранга) или /sub top (ежедневный топ)`
}

func (c *SubCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *SubCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
