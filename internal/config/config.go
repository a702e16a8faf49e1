package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/goserg/guildrating/internal/auth/service"
	"github.com/goserg/guildrating/internal/backup"
	"github.com/goserg/guildrating/internal/cache/redis"
	"github.com/goserg/guildrating/internal/elo"
	"github.com/goserg/guildrating/internal/jobs"
	"github.com/goserg/guildrating/internal/roster"
	"github.com/goserg/guildrating/internal/web"
)

const (
	defaultServerConfigPath = "configs/server.toml"
	defaultBotConfigPath    = "configs/bot.toml"
)

const (
	CacheNone   = ""
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type TgBot struct {
	TelegramApiToken string `toml:"telegram_apitoken"`
	AdminPass        string `toml:"admin_pass"`
	DBFile           string `toml:"db_file"`
	DigestSize       int    `toml:"digest_size"`
}

type Rating struct {
	StartingRating    int `toml:"starting_rating"`
	MinRating         int `toml:"min_rating"`
	MaxRating         int `toml:"max_rating"`
	MaxHistoryEntries int `toml:"max_history_entries"`
	CooldownHours     int `toml:"cooldown_hours"`
}

func (r Rating) Bounds() elo.Bounds {
	return elo.Bounds{
		StartingRating:    r.StartingRating,
		MinRating:         r.MinRating,
		MaxRating:         r.MaxRating,
		MaxHistoryEntries: r.MaxHistoryEntries,
	}
}

func (r Rating) Cooldown() time.Duration {
	return time.Duration(r.CooldownHours) * time.Hour
}

type Cache struct {
	Backend string        `toml:"backend"`
	TTL     time.Duration `toml:"ttl"`
	Redis   redis.Config  `toml:"redis"`
}

type Server struct {
	TgBotEnabled bool   `toml:"tg_bot_enabled"`
	Debug        bool   `toml:"debug_mode"`
	LogLevel     string `toml:"log_level"`
	DBFile       string `toml:"db_file"`

	Rating      Rating          `toml:"rating"`
	Permissions elo.Permissions `toml:"permissions"`
	Rosters     roster.Config   `toml:"rosters"`

	Web    web.Config     `toml:"web"`
	Auth   service.Config `toml:"auth"`
	Cache  Cache          `toml:"cache"`
	Backup backup.Config  `toml:"backup"`
	Jobs   jobs.Config    `toml:"jobs"`
}

type Config struct {
	TgBot  TgBot
	Server Server
}

func defaultServer() Server {
	bounds := elo.DefaultBounds()
	return Server{
		LogLevel: "info",
		DBFile:   "rating.sqlite",
		Rating: Rating{
			StartingRating:    bounds.StartingRating,
			MinRating:         bounds.MinRating,
			MaxRating:         bounds.MaxRating,
			MaxHistoryEntries: bounds.MaxHistoryEntries,
		},
		Web: web.Config{
			Host: "localhost",
			Port: 3000,
		},
		Auth: service.Config{
			Expiration: "720h",
			Issuer:     "guildrating",
		},
		Cache: Cache{
			TTL: time.Minute,
		},
		Jobs: jobs.Config{
			BackupHour: 3,
			DigestHour: 18,
		},
	}
}

func defaultTgBot() TgBot {
	return TgBot{
		DBFile:     "bot.sqlite",
		DigestSize: 5,
	}
}

// New reads both config files, paths come from -server-config and
// -bot-config. Secrets may be overridden from the environment.
func New() (Config, error) {
	var serverConfigPath, botConfigPath string
	flag.StringVar(&serverConfigPath, "server-config", defaultServerConfigPath, "path to server configs")
	flag.StringVar(&botConfigPath, "bot-config", defaultBotConfigPath, "path to bot configs")
	flag.Parse()
	return Load(serverConfigPath, botConfigPath)
}

func Load(serverConfigPath, botConfigPath string) (Config, error) {
	serverCfg := defaultServer()
	_, err := toml.DecodeFile(serverConfigPath, &serverCfg)
	if err != nil {
		return Config{}, fmt.Errorf("server config: %w", err)
	}

	tgBotCfg := defaultTgBot()
	if serverCfg.TgBotEnabled {
		_, err = toml.DecodeFile(botConfigPath, &tgBotCfg)
		if err != nil {
			return Config{}, fmt.Errorf("bot config: %w", err)
		}
	}

	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		tgBotCfg.TelegramApiToken = token
	}
	if secret := os.Getenv("GUILDRATING_JWT_SECRET"); secret != "" {
		serverCfg.Auth.Token = secret
	}
	if secret := os.Getenv("GUILDRATING_S3_SECRET"); secret != "" {
		serverCfg.Backup.AccessSecret = secret
	}

	cfg := Config{
		TgBot:  tgBotCfg,
		Server: serverCfg,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every inconsistent setting.
func (c Config) Validate() error {
	var errs []error
	r := c.Server.Rating
	if r.MinRating < 0 || r.MinRating >= r.MaxRating {
		errs = append(errs, fmt.Errorf("rating: invalid range [%d, %d]", r.MinRating, r.MaxRating))
	}
	if r.StartingRating < r.MinRating || r.StartingRating > r.MaxRating {
		errs = append(errs, fmt.Errorf("rating: starting rating %d is outside [%d, %d]", r.StartingRating, r.MinRating, r.MaxRating))
	}
	if r.MaxHistoryEntries <= 0 {
		errs = append(errs, errors.New("rating: max_history_entries must be positive"))
	}
	if r.CooldownHours < 0 {
		errs = append(errs, errors.New("rating: cooldown_hours must not be negative"))
	}
	switch c.Server.Cache.Backend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Server.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache: redis addr is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache: unknown backend %q", c.Server.Cache.Backend))
	}
	if c.Server.Web.Enabled && c.Server.Auth.Token == "" {
		errs = append(errs, errors.New("auth: token secret is required for the web api, set GUILDRATING_JWT_SECRET"))
	}
	if c.Server.Backup.Enabled && c.Server.Backup.Bucket == "" {
		errs = append(errs, errors.New("backup: bucket is empty"))
	}
	if c.Server.Jobs.BackupHour > 23 || c.Server.Jobs.DigestHour > 23 {
		errs = append(errs, errors.New("jobs: hours must be in [0, 23]"))
	}
	if c.Server.TgBotEnabled && c.TgBot.TelegramApiToken == "" {
		errs = append(errs, errors.New("bot: telegram token is empty, set TELEGRAM_APITOKEN"))
	}
	return errors.Join(errs...)
}
