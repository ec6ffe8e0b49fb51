// Package journal keeps a local log of executed commands. The dispatcher
// does not depend on it for correctness.
package journal

import (
	"context"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"

	"riyu/internal/dispatch"
)

const DefaultLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS command_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	text        TEXT    NOT NULL,
	intent      TEXT    NOT NULL,
	phrase      TEXT    NOT NULL,
	ok          INTEGER NOT NULL,
	error       TEXT    NOT NULL DEFAULT '',
	spoken      INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS command_log_created ON command_log (created_at);
`

type Entry struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Intent    string    `json:"intent"`
	Phrase    string    `json:"phrase"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	Spoken    bool      `json:"spoken"`
	CreatedAt time.Time `json:"created_at"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

type row struct {
	ID        int64  `db:"id"`
	Text      string `db:"text"`
	Intent    string `db:"intent"`
	Phrase    string `db:"phrase"`
	OK        bool   `db:"ok"`
	Error     string `db:"error"`
	Spoken    bool   `db:"spoken"`
	CreatedAt int64  `db:"created_at"`
	ElapsedMS int64  `db:"elapsed_ms"`
}

func (r row) entry() Entry {
	return Entry{
		ID:        r.ID,
		Text:      r.Text,
		Intent:    r.Intent,
		Phrase:    r.Phrase,
		OK:        r.OK,
		Error:     r.Error,
		Spoken:    r.Spoken,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
		ElapsedMS: r.ElapsedMS,
	}
}

type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the sqlite journal at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record implements dispatch.Sink.
func (s *Store) Record(ctx context.Context, o dispatch.Outcome) error {
	r := row{
		Text:      o.Text,
		Intent:    o.Intent.String(),
		Phrase:    o.Phrase,
		OK:        o.Result.OK(),
		Spoken:    o.SpeakErr == nil,
		CreatedAt: o.At.UnixMilli(),
		ElapsedMS: o.Elapsed.Milliseconds(),
	}
	if o.Result.Err != nil {
		r.Error = o.Result.Err.Error()
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO command_log (text, intent, phrase, ok, error, spoken, created_at, elapsed_ms)
		VALUES (:text, :intent, :phrase, :ok, :error, :spoken, :created_at, :elapsed_ms);`, r)
	if err != nil {
		return fmt.Errorf("insert command log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var rows []row
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM command_log ORDER BY created_at DESC, id DESC LIMIT $1;", limit)
	if err != nil {
		return nil, fmt.Errorf("select command log: %w", err)
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}

var _ dispatch.Sink = (*Store)(nil)
