package tgbot

import (
	"context"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/botstorage"
	"github.com/goserg/guildrating/bot/model"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/normalize"
	"github.com/goserg/guildrating/internal/service"
)

type EloCommand struct {
	manager    *service.RatingManager
	botStorage botstorage.BotStorage
}

func (c *EloCommand) Reset(model.User) {}

func (c *EloCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	playerID, err := playerOrLinked(c.botStorage, user, args)
	if err != nil {
		return false, err
	}
	profile, err := c.manager.Profile(ctx, playerID)
	if err != nil {
		return false, err
	}
	resp.Text = printProfile(profile)
	return false, nil
}

func (c *EloCommand) Help() string {
	return `Рейтинг и ранг игрока. Использование: /elo <игрок>, без имени показывает игрока из /me`
}

func (c *EloCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *EloCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}

func playerOrLinked(bs botstorage.BotStorage, user model.User, name string) (string, error) {
	if name == "" {
		return linkedPlayer(bs, user)
	}
	return normalize.Name(name), nil
}

const (
	defaultHistorySize = 5
	maxHistorySize     = 20
)

type HistoryCommand struct {
	manager    *service.RatingManager
	botStorage botstorage.BotStorage
}

func (c *HistoryCommand) Reset(model.User) {}

func (c *HistoryCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	limit := defaultHistorySize
	fields := strings.Fields(args)
	if len(fields) > 0 {
		if n, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			if n <= 0 {
				return false, ErrBadRequest
			}
			limit = min(n, maxHistorySize)
			fields = fields[:len(fields)-1]
		}
	}
	playerID, err := playerOrLinked(c.botStorage, user, strings.Join(fields, " "))
	if err != nil {
		return false, err
	}
	profile, err := c.manager.Profile(ctx, playerID)
	if err != nil {
		return false, err
	}
	if len(profile.History) == 0 {
		resp.Text = "у игрока " + profile.PlayerID + " пока нет изменений рейтинга"
		return false, nil
	}
	var b strings.Builder
	b.WriteString(profile.PlayerID)
	b.WriteString(":\n")
	for i, record := range profile.History {
		if i == limit {
			break
		}
		b.WriteString(printRecord(record))
		b.WriteString("\n")
	}
	resp.Text = strings.TrimSuffix(b.String(), "\n")
	return false, nil
}

func (c *HistoryCommand) Help() string {
	return `Последние изменения рейтинга. Использование: /history [игрок] [количество]`
}

func (c *HistoryCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *HistoryCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}

type RanksCommand struct{}

func (c *RanksCommand) Reset(model.User) {}

func (c *RanksCommand) Run(_ context.Context, _ model.User, _ string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	var b strings.Builder
	for _, tier := range elo.Ranks {
		b.WriteString(tier.DisplayName)
		b.WriteString(": ")
		b.WriteString(strconv.Itoa(tier.MinRating))
		if tier.IsTop() {
			b.WriteString("+")
		} else {
			b.WriteString("-")
			b.WriteString(strconv.Itoa(tier.MaxRating))
		}
		b.WriteString("\n")
	}
	resp.Text = strings.TrimSuffix(b.String(), "\n")
	return false, nil
}

func (c *RanksCommand) Help() string {
	return `Таблица рангов`
}

func (c *RanksCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *RanksCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
