//go:build cgo_sqlite

package main

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// initDB opens the corpus database with the cgo SQLite driver.
func initDB(dataSource string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dataSource)
	if err != nil {
		return nil, err
	}
	// The store runs a handful of statements per command; a single
	// connection sidesteps SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)
	return db, nil
}
