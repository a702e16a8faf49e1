package tgbot

import (
	"context"
	"errors"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/goserg/guildrating/bot/model"
	"github.com/goserg/guildrating/internal/domain"
	"github.com/goserg/guildrating/internal/normalize"
	"github.com/goserg/guildrating/internal/roster"
	"github.com/goserg/guildrating/internal/service"
)

var (
	ErrNotInTeam   = errors.New("игрок не из этой команды")
	ErrBadOutcome  = errors.New("счет матча должен быть 2-0 или 2-1")
	ErrMatchFormat = errors.New("формат: /match <победители> <проигравшие> <2-0|2-1> <mvp победителей> <mvp проигравших>")
)

type matchStep int

const (
	stepWinnerTeam matchStep = iota
	stepLoserTeam
	stepOutcome
	stepWinnerMVP
	stepLoserMVP
)

type matchDraft struct {
	step  matchStep
	match domain.MatchResult
}

// MatchCommand records a ladder match either from one line or step by step.
type MatchCommand struct {
	manager *service.RatingManager
	roster  *roster.Resolver
	allowed mapset.Set[model.UserRole]

	drafts map[int]*matchDraft
}

func (c *MatchCommand) Reset(user model.User) {
	delete(c.drafts, user.ID)
}

func (c *MatchCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	draft, ok := c.drafts[user.ID]
	if !ok {
		if args != "" {
			resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
			match, err := c.parseMatch(args)
			if err != nil {
				return false, err
			}
			return false, c.process(ctx, user, match, resp)
		}
		c.drafts[user.ID] = &matchDraft{step: stepWinnerTeam}
		resp.Text = "Команда победителей (группа или имя:игрок1,игрок2)"
		resp.ReplyMarkup = keyboard(c.roster.Groups())
		return true, nil
	}

	switch draft.step {
	case stepWinnerTeam:
		name, players, err := c.parseTeam(args)
		if err != nil {
			return true, err
		}
		draft.match.WinnerTeam, draft.match.WinnerPlayers = name, players
		draft.step = stepLoserTeam
		resp.Text = "Команда проигравших"
		resp.ReplyMarkup = keyboard(c.roster.Groups())
	case stepLoserTeam:
		name, players, err := c.parseTeam(args)
		if err != nil {
			return true, err
		}
		draft.match.LoserTeam, draft.match.LoserPlayers = name, players
		draft.step = stepOutcome
		resp.Text = "Счет матча"
		resp.ReplyMarkup = keyboard([]string{string(domain.Outcome20), string(domain.Outcome21)})
	case stepOutcome:
		outcome, err := parseOutcome(args)
		if err != nil {
			return true, err
		}
		draft.match.Outcome = outcome
		draft.step = stepWinnerMVP
		resp.Text = "MVP победителей"
		resp.ReplyMarkup = keyboard(draft.match.WinnerPlayers)
	case stepWinnerMVP:
		mvp := normalize.Name(args)
		if !slices.Contains(draft.match.WinnerPlayers, mvp) {
			return true, ErrNotInTeam
		}
		draft.match.WinnerMVP = mvp
		draft.step = stepLoserMVP
		resp.Text = "MVP проигравших"
		resp.ReplyMarkup = keyboard(draft.match.LoserPlayers)
	case stepLoserMVP:
		mvp := normalize.Name(args)
		if !slices.Contains(draft.match.LoserPlayers, mvp) {
			return true, ErrNotInTeam
		}
		draft.match.LoserMVP = mvp
		delete(c.drafts, user.ID)
		resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		return false, c.process(ctx, user, draft.match, resp)
	}
	return true, nil
}

func (c *MatchCommand) process(ctx context.Context, user model.User, match domain.MatchResult, resp *tgbotapi.MessageConfig) error {
	out := c.manager.ProcessMatchResult(ctx, match, operatorID(user))
	if out.Err != nil {
		return out.Err
	}
	resp.Text = printBatch(out)
	return nil
}

func (c *MatchCommand) parseMatch(args string) (domain.MatchResult, error) {
	fields := strings.Fields(args)
	if len(fields) != 5 {
		return domain.MatchResult{}, ErrMatchFormat
	}
	var (
		match domain.MatchResult
		err   error
	)
	match.WinnerTeam, match.WinnerPlayers, err = c.parseTeam(fields[0])
	if err != nil {
		return domain.MatchResult{}, err
	}
	match.LoserTeam, match.LoserPlayers, err = c.parseTeam(fields[1])
	if err != nil {
		return domain.MatchResult{}, err
	}
	match.Outcome, err = parseOutcome(fields[2])
	if err != nil {
		return domain.MatchResult{}, err
	}
	match.WinnerMVP = normalize.Name(fields[3])
	match.LoserMVP = normalize.Name(fields[4])
	return match, nil
}

// parseTeam accepts a roster group name or an explicit "name:p1,p2" list.
func (c *MatchCommand) parseTeam(s string) (string, []string, error) {
	name, list, ok := strings.Cut(s, ":")
	if !ok {
		return c.roster.Expand(s, nil)
	}
	return c.roster.Expand(name, strings.Split(list, ","))
}

func parseOutcome(s string) (domain.MatchOutcome, error) {
	outcome := domain.MatchOutcome(strings.TrimSpace(s))
	if outcome != domain.Outcome20 && outcome != domain.Outcome21 {
		return "", ErrBadOutcome
	}
	return outcome, nil
}

func keyboard(values []string) interface{} {
	if len(values) == 0 {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	var rows [][]tgbotapi.KeyboardButton
	for _, v := range values {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(v)))
	}
	return tgbotapi.NewOneTimeReplyKeyboard(rows...)
}

func (c *MatchCommand) Help() string {
	return `Записать результат матча. Использование: /match без аргументов для пошагового ввода или ` +
		`/match <победители> <проигравшие> <2-0|2-1> <mvp победителей> <mvp проигравших>. ` +
		`Команда задается именем группы или списком имя:игрок1,игрок2`
}

func (c *MatchCommand) Permission() mapset.Set[model.UserRole] {
	return c.allowed
}

func (c *MatchCommand) Visibility() mapset.Set[model.UserRole] {
	return c.allowed
}

type WagerCommand struct {
	manager *service.RatingManager
	allowed mapset.Set[model.UserRole]
}

func (c *WagerCommand) Reset(model.User) {}

func (c *WagerCommand) Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error) {
	resp.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	fields := strings.Fields(args)
	if len(fields) < 2 || len(fields) > 3 || (len(fields) == 3 && fields[2] != "wipe") {
		return false, ErrBadRequest
	}
	out := c.manager.ProcessWagerResult(ctx, domain.WagerResult{
		WinnerID: normalize.Name(fields[0]),
		LoserID:  normalize.Name(fields[1]),
		Wipe:     len(fields) == 3,
	}, operatorID(user))
	if out.Err != nil {
		return false, out.Err
	}
	resp.Text = printBatch(out)
	return false, nil
}

func (c *WagerCommand) Help() string {
	return `Записать результат дуэли на ставку. Использование: /wager <победитель> <проигравший> [wipe]`
}

func (c *WagerCommand) Permission() mapset.Set[model.UserRole] {
	return c.allowed
}

func (c *WagerCommand) Visibility() mapset.Set[model.UserRole] {
	return c.allowed
}
