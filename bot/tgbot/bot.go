package tgbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/goserg/guildrating/bot/botstorage"
	botmodel "github.com/goserg/guildrating/bot/model"
	"github.com/goserg/guildrating/internal/config"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/roster"
	"github.com/goserg/guildrating/internal/service"
)

const defaultDigestSize = 5

var ErrBadRequest = errors.New("неизвестная команда")

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	bot    *tgbotapi.BotAPI
	sender sender

	manager    *service.RatingManager
	botStorage botstorage.BotStorage
	log        *logrus.Entry

	// cancel func to stop the bot
	cancel func()

	subs       *subscriptions
	commands   *Commands
	digestSize int
}

func New(
	l *logrus.Logger,
	manager *service.RatingManager,
	bs botstorage.BotStorage,
	resolver *roster.Resolver,
	perms elo.Permissions,
	cfg config.TgBot,
	debug bool,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramApiToken)
	if err != nil {
		return nil, fmt.Errorf("env TELEGRAM_APITOKEN: %w", err)
	}
	bot.Debug = debug
	_, err = bot.GetMe()
	if err != nil {
		return nil, err
	}
	b, err := newBot(l, bot, manager, bs, resolver, perms, cfg)
	if err != nil {
		return nil, err
	}
	b.bot = bot
	return b, nil
}

func newBot(
	l *logrus.Logger,
	s sender,
	manager *service.RatingManager,
	bs botstorage.BotStorage,
	resolver *roster.Resolver,
	perms elo.Permissions,
	cfg config.TgBot,
) (*Bot, error) {
	subs := newSubs()
	users, err := bs.ListUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		for _, subType := range users[i].Subscriptions {
			subs.Add(subType, users[i].ID)
		}
	}
	digestSize := cfg.DigestSize
	if digestSize <= 0 {
		digestSize = defaultDigestSize
	}

	b := &Bot{
		sender:     s,
		manager:    manager,
		botStorage: bs,
		log: l.WithFields(map[string]interface{}{
			"from": "tg-bot",
		}),
		subs:       subs,
		digestSize: digestSize,
	}
	b.commands = newCommands(commandDeps{
		manager:    manager,
		botStorage: bs,
		roster:     resolver,
		perms:      perms,
		adminPass:  cfg.AdminPass,
		subFn:      subs.Add,
		unsubFn:    subs.Remove,
	})
	return b, nil
}

func (b *Bot) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("bot started")

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleMessage(ctx, update)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil { // ignore any non-Message updates
		return
	}
	tgUser := update.SentFrom()
	if tgUser == nil {
		return
	}
	log := b.log.WithFields(map[string]interface{}{
		"user_id": tgUser.ID,
		"text":    update.Message.Text,
	})
	user, err := b.botStorage.GetUser(int(tgUser.ID))
	if errors.Is(err, botstorage.ErrNotFound) {
		user, err = b.botStorage.NewUser(botmodel.User{
			ID:        int(tgUser.ID),
			FirstName: tgUser.FirstName,
			Username:  tgUser.UserName,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}
	if err != nil {
		log.WithError(err).Error("unable to get user from db")
		return
	}

	err = b.botStorage.Log(user, update.Message.Text)
	if err != nil {
		log.WithError(err).Error("can't log to db")
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")

	err = b.commands.RunCommand(ctx, user, update.Message, &msg)
	if err != nil {
		log.WithError(err).Debug("command failed")
		msg.Text = err.Error()
	}
	if _, err := b.sender.Send(msg); err != nil {
		log.WithError(err).Error("send error")
		return
	}
}

func (b *Bot) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

// NotifyTierChange is registered as a rating manager hook.
func (b *Bot) NotifyTierChange(_ context.Context, playerID string, change elo.TierChange) {
	b.sendNotification(botmodel.TierChange, printTierChange(playerID, change))
}

// SendDigest posts the current leaderboard head to the daily top subscribers.
func (b *Bot) SendDigest(ctx context.Context) error {
	profiles, err := b.manager.Leaderboard(ctx, b.digestSize)
	if err != nil {
		return err
	}
	b.sendNotification(botmodel.DailyTop, "Топ дня:\n"+printLeaderboard(profiles))
	return nil
}

func (b *Bot) sendNotification(event botmodel.EventType, text string) {
	for _, userID := range b.subs.GetUserIDs(event) {
		msg := tgbotapi.NewMessage(int64(userID), text)
		if _, err := b.sender.Send(msg); err != nil {
			b.log.WithError(err).WithField("user_id", userID).Error("notification send error")
		}
	}
}
