package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// Open connects to the sqlite file.
func Open(file string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+file+"?cache=shared")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	return db, nil
}
