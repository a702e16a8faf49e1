package tgbot

import (
	"context"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/model"
	"github.com/goserg/guildrating/internal/service"
)

const (
	defaultTopSize = 10
	maxTopSize     = 50
)

type TopCommand struct {
	manager *service.RatingManager
}

func (c *TopCommand) Reset(model.User) {}

func (c *TopCommand) Run(ctx context.Context, _ model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	limit := defaultTopSize
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return false, ErrBadRequest
		}
		limit = min(n, maxTopSize)
	}
	profiles, err := c.manager.Leaderboard(ctx, limit)
	if err != nil {
		return false, err
	}
	resp.Text = printLeaderboard(profiles)
	return false, nil
}

func (c *TopCommand) Help() string {
	return `Список лучших в рейтинге. Использование: /top или /top <количество>`
}

func (c *TopCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *TopCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
