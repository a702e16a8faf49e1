package tgbot

import (
	"context"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/model"
	"github.com/goserg/guildrating/internal/normalize"
	"github.com/goserg/guildrating/internal/service"
)

// splitManual parses "<player> <number> [note]".
func splitManual(args string) (string, int, string, error) {
	a := strings.SplitN(args, " ", 3)
	if len(a) < 2 {
		return "", 0, "", ErrBadRequest
	}
	n, err := strconv.Atoi(a[1])
	if err != nil {
		return "", 0, "", ErrBadRequest
	}
	var note string
	if len(a) == 3 {
		note = strings.TrimSpace(a[2])
	}
	return normalize.Name(a[0]), n, note, nil
}

func sendUpdate(out service.UpdateOutcome, resp *tgbotapi.MessageConfig) error {
	if !out.Success {
		return out.Err
	}
	resp.Text = printUpdate(out)
	return nil
}

type AdjustCommand struct {
	manager *service.RatingManager
	allowed mapset.Set[model.UserRole]
}

func (c *AdjustCommand) Reset(model.User) {}

func (c *AdjustCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	playerID, delta, note, err := splitManual(args)
	if err != nil {
		return false, err
	}
	return false, sendUpdate(c.manager.ApplyManualChange(ctx, playerID, delta, operatorID(user), note), resp)
}

func (c *AdjustCommand) Help() string {
	return `Изменить рейтинг игрока на величину. Использование: /elo_add <игрок> <+-очки> [комментарий]`
}

func (c *AdjustCommand) Permission() mapset.Set[model.UserRole] {
	return c.allowed
}

func (c *AdjustCommand) Visibility() mapset.Set[model.UserRole] {
	return c.allowed
}

type SetCommand struct {
	manager *service.RatingManager
	allowed mapset.Set[model.UserRole]
}

func (c *SetCommand) Reset(model.User) {}

func (c *SetCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	playerID, rating, note, err := splitManual(args)
	if err != nil {
		return false, err
	}
	return false, sendUpdate(c.manager.SetRating(ctx, playerID, rating, operatorID(user), note), resp)
}

func (c *SetCommand) Help() string {
	return `Задать рейтинг игрока. Использование: /elo_set <игрок> <рейтинг> [комментарий]`
}

func (c *SetCommand) Permission() mapset.Set[model.UserRole] {
	return c.allowed
}

func (c *SetCommand) Visibility() mapset.Set[model.UserRole] {
	return c.allowed
}

type ResetCommand struct {
	manager *service.RatingManager
	allowed mapset.Set[model.UserRole]
}

func (c *ResetCommand) Reset(model.User) {}

func (c *ResetCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if args == "" {
		return false, ErrBadRequest
	}
	player, note, _ := strings.Cut(args, " ")
	return false, sendUpdate(c.manager.ResetRating(ctx, normalize.Name(player), operatorID(user), strings.TrimSpace(note)), resp)
}

func (c *ResetCommand) Help() string {
	return `Сбросить рейтинг игрока до начального. Использование: /elo_reset <игрок> [комментарий]`
}

func (c *ResetCommand) Permission() mapset.Set[model.UserRole] {
	return c.allowed
}

func (c *ResetCommand) Visibility() mapset.Set[model.UserRole] {
	return c.allowed
}

type UndoCommand struct {
	manager *service.RatingManager
	allowed mapset.Set[model.UserRole]
}

func (c *UndoCommand) Reset(model.User) {}

func (c *UndoCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if args == "" {
		return false, ErrBadRequest
	}
	return false, sendUpdate(c.manager.UndoLastChange(ctx, normalize.Name(args), operatorID(user)), resp)
}

func (c *UndoCommand) Help() string {
	return `Отменить последнее изменение рейтинга игрока. Использование: /elo_undo <игрок>`
}

func (c *UndoCommand) Permission() mapset.Set[model.UserRole] {
	return c.allowed
}

func (c *UndoCommand) Visibility() mapset.Set[model.UserRole] {
	return c.allowed
}
