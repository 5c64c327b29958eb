package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/CTAG07/Mimus/pkg/markov"
)

// SetupSchema initializes the corpus table in the provided database. It
// should be called once before any other operation; it is idempotent and
// safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaCorpora = `
CREATE TABLE IF NOT EXISTS corpora (
    corpus_id INTEGER PRIMARY KEY,
    corpus_name TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    token_count INTEGER NOT NULL,
    added_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
`

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing. If it fails, this will clean up.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaCorpora); err != nil {
		return fmt.Errorf("could not create schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Info describes a stored corpus.
type Info struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	TokenCount int       `json:"token_count"`
	AddedAt    time.Time `json:"added_at"`
}

// Store manages named source texts in a SQLite database. It holds the
// database connection and prepared SQL statements for the queries it runs.
type Store struct {
	db         *sql.DB
	stmtSave   *sql.Stmt
	stmtGet    *sql.Stmt
	stmtList   *sql.Stmt
	stmtRemove *sql.Stmt
	stmtStats  *sql.Stmt
	logger     *slog.Logger
}

// NewStore creates a Store over db, pre-compiling all of its SQL
// statements. SetupSchema must have run first.
func NewStore(db *sql.DB) (*Store, error) {
	stmtSave, err := db.Prepare(`INSERT INTO corpora (corpus_name, content, token_count) VALUES (?, ?, ?) ON CONFLICT(corpus_name) DO UPDATE SET content = excluded.content, token_count = excluded.token_count RETURNING corpus_id, added_at;`)
	if err != nil {
		return nil, err
	}

	stmtGet, err := db.Prepare(`SELECT content FROM corpora WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtList, err := db.Prepare(`SELECT corpus_id, corpus_name, token_count, added_at FROM corpora ORDER BY corpus_name;`)
	if err != nil {
		return nil, err
	}

	stmtRemove, err := db.Prepare(`DELETE FROM corpora WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtStats, err := db.Prepare(`SELECT COUNT(*), coalesce(SUM(token_count), 0) FROM corpora;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:         db,
		stmtSave:   stmtSave,
		stmtGet:    stmtGet,
		stmtList:   stmtList,
		stmtRemove: stmtRemove,
		stmtStats:  stmtStats,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store. It should
// be called when the Store is no longer needed.
func (s *Store) Close() {
	_ = s.stmtSave.Close()
	_ = s.stmtGet.Close()
	_ = s.stmtList.Close()
	_ = s.stmtRemove.Close()
	_ = s.stmtStats.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are
// discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Save stores content under name, replacing any previous corpus with that
// name, and returns the stored record. The name must be non-empty and the
// content must contain at least one token.
func (s *Store) Save(ctx context.Context, name, content string) (Info, error) {
	if name == "" {
		return Info{}, errors.New("corpus name must not be empty")
	}
	tokens := len(markov.Tokenize(content))
	if tokens == 0 {
		return Info{}, fmt.Errorf("corpus %q: %w", name, markov.ErrEmptyInput)
	}

	var (
		id    int64
		added int64
	)
	if err := s.stmtSave.QueryRowContext(ctx, name, content, tokens).Scan(&id, &added); err != nil {
		return Info{}, fmt.Errorf("could not save corpus %q: %w", name, err)
	}

	s.logger.InfoContext(ctx, "corpus saved",
		slog.String("name", name),
		slog.Int("tokens", tokens))
	return Info{ID: id, Name: name, TokenCount: tokens, AddedAt: time.Unix(added, 0).UTC()}, nil
}

// Get returns the stored text of the named corpus. The error wraps
// sql.ErrNoRows when no corpus has that name.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var content string
	if err := s.stmtGet.QueryRowContext(ctx, name).Scan(&content); err != nil {
		return "", fmt.Errorf("could not load corpus %q: %w", name, err)
	}
	return content, nil
}

// List returns all stored corpora ordered by name.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list corpora: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Info
	for rows.Next() {
		var (
			info  Info
			added int64
		)
		if err := rows.Scan(&info.ID, &info.Name, &info.TokenCount, &added); err != nil {
			return nil, fmt.Errorf("could not scan corpus row: %w", err)
		}
		info.AddedAt = time.Unix(added, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Remove deletes the named corpus. The error wraps sql.ErrNoRows when no
// corpus has that name.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.stmtRemove.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove corpus %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not remove corpus %q: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("corpus %q: %w", name, sql.ErrNoRows)
	}

	s.logger.InfoContext(ctx, "corpus removed", slog.String("name", name))
	return nil
}

// Stats reports the number of stored corpora and their combined token
// count.
func (s *Store) Stats(ctx context.Context) (corpora, tokens int, err error) {
	if err := s.stmtStats.QueryRowContext(ctx).Scan(&corpora, &tokens); err != nil {
		return 0, 0, fmt.Errorf("could not read corpus stats: %w", err)
	}
	return corpora, tokens, nil
}
