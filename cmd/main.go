package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	botsqlite "github.com/goserg/guildrating/bot/botstorage/sqlite"
	"github.com/goserg/guildrating/bot/tgbot"
	authservice "github.com/goserg/guildrating/internal/auth/service"
	"github.com/goserg/guildrating/internal/backup"
	memcache "github.com/goserg/guildrating/internal/cache/mem"
	rediscache "github.com/goserg/guildrating/internal/cache/redis"
	"github.com/goserg/guildrating/internal/config"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/jobs"
	"github.com/goserg/guildrating/internal/logger"
	"github.com/goserg/guildrating/internal/roster"
	"github.com/goserg/guildrating/internal/service"
	"github.com/goserg/guildrating/internal/storage"
	"github.com/goserg/guildrating/internal/storage/cached"
	"github.com/goserg/guildrating/internal/storage/sqlite"
	"github.com/goserg/guildrating/internal/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(".env: %w", err)
	}
	cfg, err := config.New()
	if err != nil {
		return err
	}
	l := logger.New(cfg.Server.LogLevel)
	if cfg.Server.Debug {
		l.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bounds := cfg.Server.Rating.Bounds()
	db, err := sqlite.New(l, cfg.Server.DBFile, bounds.StartingRating)
	if err != nil {
		return err
	}
	defer db.Close()

	var profiles storage.ProfileStorage = db
	switch cfg.Server.Cache.Backend {
	case config.CacheMemory:
		profiles = cached.New(db, memcache.New(cfg.Server.Cache.TTL))
	case config.CacheRedis:
		client := rediscache.NewClient(cfg.Server.Cache.Redis)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		profiles = cached.New(db, rediscache.New(client, cfg.Server.Cache.TTL, l))
	}

	manager := service.New(l, profiles, elo.NewCalculator(bounds, elo.NewRandomSource()), cfg.Server.Rating.Cooldown())
	resolver, err := roster.New(cfg.Server.Rosters)
	if err != nil {
		return err
	}

	var snapshots *backup.Backup
	if cfg.Server.Backup.Enabled {
		client, err := backup.NewClient(ctx, cfg.Server.Backup)
		if err != nil {
			return err
		}
		snapshots = backup.New(l, client, manager, cfg.Server.Backup)
	}

	var bot *tgbot.Bot
	if cfg.Server.TgBotEnabled {
		bs, err := botsqlite.New(l, cfg.TgBot.DBFile)
		if err != nil {
			return err
		}
		defer bs.Close()
		bot, err = tgbot.New(l, manager, bs, resolver, cfg.Server.Permissions, cfg.TgBot, cfg.Server.Debug)
		if err != nil {
			return err
		}
		manager.OnTierChange(bot.NotifyTierChange)
		go bot.Run(ctx)
		defer bot.Stop()
	}

	if cfg.Server.Jobs.Enabled {
		scheduler, err := jobs.New(l, cfg.Server.Jobs)
		if err != nil {
			return err
		}
		if snapshots != nil {
			err := scheduler.AddDaily("backup", cfg.Server.Jobs.BackupHour, func(ctx context.Context) error {
				_, err := snapshots.Run(ctx)
				return err
			})
			if err != nil {
				return err
			}
		}
		if bot != nil {
			if err := scheduler.AddDaily("digest", cfg.Server.Jobs.DigestHour, bot.SendDigest); err != nil {
				return err
			}
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				l.WithError(err).Error("scheduler shutdown")
			}
		}()
	}

	if cfg.Server.Web.Enabled {
		auth, err := authservice.New(cfg.Server.Auth)
		if err != nil {
			return err
		}
		// a nil *backup.Backup must not reach the server as a non-nil interface
		var runner interface {
			Run(ctx context.Context) (string, error)
		}
		if snapshots != nil {
			runner = snapshots
		}
		server := web.New(l, cfg.Server.Web, manager, auth, resolver, cfg.Server.Permissions, runner)
		go func() {
			if err := server.Serve(); err != nil {
				l.WithError(err).Error("web server stopped")
				stop()
			}
		}()
		defer func() {
			if err := server.Shutdown(); err != nil {
				l.WithError(err).Error("web server shutdown")
			}
		}()
	}

	l.Info("guildrating started")
	<-ctx.Done()
	l.Info("shutting down")
	return nil
}
