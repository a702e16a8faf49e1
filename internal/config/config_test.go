package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/guildrating/internal/elo"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const serverToml = `
tg_bot_enabled = true
log_level = "debug"
db_file = "test.sqlite"

[rating]
starting_rating = 1200
min_rating = 0
max_rating = 3000
max_history_entries = 20
cooldown_hours = 2

[permissions]
score_operator_roles = ["score_operator", "admin"]
moderator_roles = ["moderator"]

[rosters]
"Night Owls" = ["alice", "bob"]
crows = ["carol"]

[web]
enabled = true
port = 8080

[auth]
token = "from-file"

[cache]
backend = "redis"
ttl = "30s"

[cache.redis]
addr = "localhost:6379"

[jobs]
enabled = true
timeout = "2m"
`

const botToml = `
telegram_apitoken = "from-file"
admin_pass = "pass"
`

func TestLoad(t *testing.T) {
	t.Setenv("TELEGRAM_APITOKEN", "")
	t.Setenv("GUILDRATING_JWT_SECRET", "")
	t.Setenv("GUILDRATING_S3_SECRET", "")

	cfg, err := Load(writeFile(t, "server.toml", serverToml), writeFile(t, "bot.toml", botToml))
	require.NoError(t, err)

	s := cfg.Server
	assert.True(t, s.TgBotEnabled)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "test.sqlite", s.DBFile)
	assert.Equal(t, elo.Bounds{StartingRating: 1200, MinRating: 0, MaxRating: 3000, MaxHistoryEntries: 20}, s.Rating.Bounds())
	assert.Equal(t, 2*time.Hour, s.Rating.Cooldown())
	assert.Equal(t, []string{"score_operator", "admin"}, s.Permissions.ScoreOperatorRoles)
	assert.Equal(t, []string{"alice", "bob"}, s.Rosters["Night Owls"])
	assert.Equal(t, 8080, s.Web.Port)
	assert.Equal(t, "localhost", s.Web.Host)
	assert.Equal(t, "from-file", s.Auth.Token)
	assert.Equal(t, "720h", s.Auth.Expiration)
	assert.Equal(t, CacheRedis, s.Cache.Backend)
	assert.Equal(t, 30*time.Second, s.Cache.TTL)
	assert.Equal(t, "localhost:6379", s.Cache.Redis.Addr)
	assert.Equal(t, 2*time.Minute, s.Jobs.Timeout)
	assert.Equal(t, uint(18), s.Jobs.DigestHour)

	assert.Equal(t, "from-file", cfg.TgBot.TelegramApiToken)
	assert.Equal(t, "pass", cfg.TgBot.AdminPass)
	assert.Equal(t, "bot.sqlite", cfg.TgBot.DBFile)
	assert.Equal(t, 5, cfg.TgBot.DigestSize)
}

func TestLoad_envOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_APITOKEN", "from-env")
	t.Setenv("GUILDRATING_JWT_SECRET", "jwt-env")
	t.Setenv("GUILDRATING_S3_SECRET", "s3-env")

	cfg, err := Load(writeFile(t, "server.toml", serverToml), writeFile(t, "bot.toml", botToml))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.TgBot.TelegramApiToken)
	assert.Equal(t, "jwt-env", cfg.Server.Auth.Token)
	assert.Equal(t, "s3-env", cfg.Server.Backup.AccessSecret)
}

func TestLoad_botConfigSkippedWhenDisabled(t *testing.T) {
	t.Setenv("TELEGRAM_APITOKEN", "")

	cfg, err := Load(writeFile(t, "server.toml", "db_file = \"x.sqlite\"\n"), filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.False(t, cfg.Server.TgBotEnabled)
	assert.Equal(t, elo.DefaultBounds(), cfg.Server.Rating.Bounds())
	assert.Equal(t, CacheNone, cfg.Server.Cache.Backend)
}

func TestLoad_errors(t *testing.T) {
	t.Setenv("TELEGRAM_APITOKEN", "")
	t.Setenv("GUILDRATING_JWT_SECRET", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	assert.Error(t, err)

	_, err = Load(writeFile(t, "server.toml", "db_file = "), "")
	assert.Error(t, err)

	// hours are unsigned, a negative value is rejected while decoding
	for _, hours := range []string{"backup_hour = -1", "digest_hour = -5"} {
		_, err = Load(writeFile(t, "server.toml", "[jobs]\n"+hours+"\n"), "")
		assert.Error(t, err, hours)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{Server: defaultServer(), TgBot: defaultTgBot()}
	}
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:    "inverted range",
			modify:  func(c *Config) { c.Server.Rating.MinRating = 3000; c.Server.Rating.MaxRating = 0 },
			wantErr: true,
		},
		{
			name:    "starting rating outside range",
			modify:  func(c *Config) { c.Server.Rating.StartingRating = 5000 },
			wantErr: true,
		},
		{
			name:    "empty history",
			modify:  func(c *Config) { c.Server.Rating.MaxHistoryEntries = 0 },
			wantErr: true,
		},
		{
			name:    "negative cooldown",
			modify:  func(c *Config) { c.Server.Rating.CooldownHours = -1 },
			wantErr: true,
		},
		{
			name:    "redis without addr",
			modify:  func(c *Config) { c.Server.Cache.Backend = CacheRedis },
			wantErr: true,
		},
		{
			name:    "unknown cache",
			modify:  func(c *Config) { c.Server.Cache.Backend = "memcached" },
			wantErr: true,
		},
		{
			name:    "web without secret",
			modify:  func(c *Config) { c.Server.Web.Enabled = true },
			wantErr: true,
		},
		{
			name:    "backup without bucket",
			modify:  func(c *Config) { c.Server.Backup.Enabled = true },
			wantErr: true,
		},
		{
			name:    "bad hour",
			modify:  func(c *Config) { c.Server.Jobs.DigestHour = 24 },
			wantErr: true,
		},
		{
			name:    "bad backup hour",
			modify:  func(c *Config) { c.Server.Jobs.BackupHour = 24 },
			wantErr: true,
		},
		{
			name:   "last hour of the day",
			modify: func(c *Config) { c.Server.Jobs.BackupHour = 23; c.Server.Jobs.DigestHour = 23 },
		},
		{
			name:    "bot without token",
			modify:  func(c *Config) { c.Server.TgBotEnabled = true },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
