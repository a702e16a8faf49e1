package tgbot

import (
	"context"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/model"
)

type HelpCommand struct {
	commands map[string]Command
}

func (c *HelpCommand) Reset(model.User) {}

func (c *HelpCommand) Run(_ context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if command, ok := c.commands[strings.TrimPrefix(args, "/")]; ok && command.Visibility().Contains(user.Role) {
		resp.Text = command.Help()
		return false, nil
	}
	names := make([]string, 0, len(c.commands))
	for commandName, command := range c.commands {
		if !command.Visibility().Contains(user.Role) {
			continue
		}
		names = append(names, commandName)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("Доступные команды:\n")
	for _, commandName := range names {
		b.WriteString("/")
		b.WriteString(commandName)
		b.WriteString("\n")
	}
	b.WriteString("Подробная помощь по команде /help и имя команды")
	resp.Text = b.String()
	return false, nil
}

func (c *HelpCommand) Help() string {
	return "Выводит список доступных комманд"
}

func (c *HelpCommand) Permission() mapset.Set[model.UserRole] {
	return everyone()
}

func (c *HelpCommand) Visibility() mapset.Set[model.UserRole] {
	return everyone()
}
