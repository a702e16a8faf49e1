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
	"github.com/goserg/guildrating/internal/roster"
	"github.com/goserg/guildrating/internal/service"
)

// Command handles one chat command. Run returns true when the command waits
// for the next plain message of the same user.
type Command interface {
	Run(ctx context.Context, user model.User, args string, resp *tgbotapi.MessageConfig) (bool, error)
	Reset(user model.User)
	Help() string
	Permission() mapset.Set[model.UserRole]
	Visibility() mapset.Set[model.UserRole]
}

type Commands struct {
	list map[string]Command
	// pending holds the command each user is in the middle of.
	pending map[int]string
}

type commandDeps struct {
	manager    *service.RatingManager
	botStorage botstorage.BotStorage
	roster     *roster.Resolver
	perms      elo.Permissions
	adminPass  string
	subFn      func(event model.EventType, id int)
	unsubFn    func(event model.EventType, id int)
}

func newCommands(deps commandDeps) *Commands {
	raters := ratingRoles(deps.perms)
	hc := &HelpCommand{}
	uc := Commands{
		list: map[string]Command{
			"help":  hc,
			"start": hc,
			"elo": &EloCommand{
				manager:    deps.manager,
				botStorage: deps.botStorage,
			},
			"history": &HistoryCommand{
				manager:    deps.manager,
				botStorage: deps.botStorage,
			},
			"top": &TopCommand{
				manager: deps.manager,
			},
			"me": &MeCommand{
				manager:    deps.manager,
				botStorage: deps.botStorage,
			},
			"ranks": &RanksCommand{},
			"role": &RoleCommand{
				adminPassword: deps.adminPass,
				botStorage:    deps.botStorage,
			},
			"match": &MatchCommand{
				manager: deps.manager,
				roster:  deps.roster,
				allowed: raters,
				drafts:  make(map[int]*matchDraft),
			},
			"wager": &WagerCommand{
				manager: deps.manager,
				allowed: raters,
			},
			"elo_add": &AdjustCommand{
				manager: deps.manager,
				allowed: raters,
			},
			"elo_set": &SetCommand{
				manager: deps.manager,
				allowed: raters,
			},
			"elo_reset": &ResetCommand{
				manager: deps.manager,
				allowed: raters,
			},
			"elo_undo": &UndoCommand{
				manager: deps.manager,
				allowed: raters,
			},
			"sub": &SubCommand{
				botStorage: deps.botStorage,
				sub:        deps.subFn,
			},
			"unsub": &UnsubCommand{
				botStorage: deps.botStorage,
				unsub:      deps.unsubFn,
			},
		},
		pending: make(map[int]string),
	}
	hc.commands = uc.list
	return &uc
}

// RunCommand dispatches a chat message. Plain text is routed to the command
// the user has pending, a new command cancels it.
func (uc *Commands) RunCommand(ctx context.Context, user model.User, msg *tgbotapi.Message, resp *tgbotapi.MessageConfig) error {
	name, args := msg.Command(), msg.CommandArguments()
	if !msg.IsCommand() {
		pending, ok := uc.pending[user.ID]
		if !ok {
			return ErrBadRequest
		}
		name, args = pending, msg.Text
	} else if pending, ok := uc.pending[user.ID]; ok {
		uc.list[pending].Reset(user)
		delete(uc.pending, user.ID)
	}

	command, ok := uc.list[name]
	if !ok || !command.Permission().Contains(user.Role) {
		return ErrBadRequest
	}
	next, err := command.Run(ctx, user, strings.TrimSpace(args), resp)
	if next {
		uc.pending[user.ID] = name
	} else {
		delete(uc.pending, user.ID)
	}
	return err
}

func everyone() mapset.Set[model.UserRole] {
	return mapset.NewSet[model.UserRole](model.AllRoles...)
}

// ratingRoles returns the bot roles that the permission config allows to
// change ratings.
func ratingRoles(perms elo.Permissions) mapset.Set[model.UserRole] {
	roles := mapset.NewSet[model.UserRole]()
	for _, role := range model.AllRoles {
		if elo.HasRatingPermission(elo.Actor{Roles: []string{role.String()}}, perms) {
			roles.Add(role)
		}
	}
	return roles
}

func operatorID(user model.User) string {
	return "tg:" + strconv.Itoa(user.ID)
}
