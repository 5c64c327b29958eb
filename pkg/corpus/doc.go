/*
Package corpus provides a small SQLite-backed library of named source
texts. It stores raw text only; transition tables are always rebuilt from
the stored text, never persisted.

A Store wraps an open *sql.DB and prepared statements for the handful of
queries it runs. Call SetupSchema once on a new database, then NewStore:

	db, _ := sql.Open("sqlite", "corpora.db")
	if err := corpus.SetupSchema(db); err != nil { ... }
	store, err := corpus.NewStore(db)
	if err != nil { ... }
	defer store.Close()

The package works with both the cgo and the pure-Go SQLite drivers; it
never imports a driver itself.
*/
package corpus
