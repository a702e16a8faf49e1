package migrate

import (
	"database/sql"
	"errors"
	"io/fs"

	embedded "github.com/goserg/guildrating"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// UpServerDB applies the rating profile migrations.
func UpServerDB(db *sql.DB) error {
	return up(db, embedded.ServerMigrations, "migrations", "rating")
}

// UpBotDB applies the bot user migrations.
func UpBotDB(db *sql.DB) error {
	return up(db, embedded.BotMigrations, "bot/migrations", "bot")
}

func up(db *sql.DB, fsys fs.FS, dir string, name string) error {
	sourceDriver, err := iofs.New(fsys, dir)
	if err != nil {
		return err
	}
	databaseDriver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs",
		sourceDriver,
		name, databaseDriver)
	if err != nil {
		return err
	}
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
