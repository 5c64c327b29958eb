//go:build !cgo_sqlite

package main

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// initDB opens the corpus database with the pure-Go SQLite driver. Build
// with the cgo_sqlite tag to use the cgo driver instead.
func initDB(dataSource string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, err
	}
	// The store runs a handful of statements per command; a single
	// connection sidesteps SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)
	return db, nil
}
