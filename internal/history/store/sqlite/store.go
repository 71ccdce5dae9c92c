// Package sqlite is the embedded event store used for local development and
// the historyctl tool. Person membership is kept in a join table because
// SQLite has no array type.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"trs/internal/history/events"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
	"trs/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	sequence      INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id      TEXT    NOT NULL UNIQUE,
	kind          TEXT    NOT NULL,
	person_id     TEXT    NOT NULL,
	aggregate_key TEXT,
	created_at    INTEGER NOT NULL,
	document      TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS event_persons (
	person_id TEXT    NOT NULL,
	sequence  INTEGER NOT NULL REFERENCES events (sequence),
	PRIMARY KEY (person_id, sequence)
);
CREATE INDEX IF NOT EXISTS "aggregate_key_index" ON "events" ("aggregate_key" ASC);
`

const pragmas = `
PRAGMA journal_mode=WAL;
PRAGMA synchronous=FULL;
PRAGMA foreign_keys=1;
PRAGMA busy_timeout=5000;
`

type Store struct {
	db       *sql.DB
	runner   *tx.SQLRunner
	registry *events.Registry
}

type Option func(*Store)

func WithRegistry(r *events.Registry) Option {
	return func(s *Store) {
		s.registry = r
	}
}

// Open connects to the database at path (":memory:" is allowed) and creates
// the tables if needed. The returned DB should be used for any transaction
// runner wrapped around Append.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc's driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, pragmas); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	s := &Store{db: db, runner: tx.NewSQLRunner(db), registry: events.DefaultRegistry}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append writes the event row and one membership row per person in a single
// transaction, joining the caller's if ctx carries one.
func (s *Store) Append(ctx context.Context, env events.Envelope) error {
	doc, err := events.Marshal(env)
	if err != nil {
		return err
	}
	var aggregateKey any
	if env.AggregateKey != nil {
		aggregateKey = env.AggregateKey.String()
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		exec := tx.Execer(ctx, s.db)
		res, err := exec.ExecContext(ctx, `
			INSERT INTO events (event_id, kind, person_id, aggregate_key, created_at, document)
			VALUES (?, ?, ?, ?, ?, ?)`,
			env.EventID.String(),
			string(env.Kind()),
			env.PersonID.String(),
			aggregateKey,
			env.CreatedAt.UnixNano(),
			string(doc),
		)
		if err != nil {
			return err
		}
		sequence, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, p := range env.Persons() {
			if _, err := exec.ExecContext(ctx,
				`INSERT INTO event_persons (person_id, sequence) VALUES (?, ?)`,
				p.String(), sequence,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("append event %s: %w", env.EventID, sentinel.ErrConflict)
		}
		return fmt.Errorf("append event %s: %w", env.EventID, err)
	}
	return nil
}

func (s *Store) LoadAllForPerson(ctx context.Context, personID id.PersonID) ([]events.Envelope, error) {
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT e.sequence, e.document
		FROM events e
		JOIN event_persons ep ON ep.sequence = e.sequence
		WHERE ep.person_id = ?
		ORDER BY e.created_at, e.sequence`,
		personID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("load events for person %s: %w", personID, err)
	}
	defer rows.Close()

	var out []events.Envelope
	for rows.Next() {
		var (
			sequence int64
			doc      string
		)
		if err := rows.Scan(&sequence, &doc); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		env, err := s.registry.Unmarshal([]byte(doc))
		if err != nil {
			return nil, fmt.Errorf("decode event %d: %w", sequence, err)
		}
		env.Sequence = sequence
		out = append(out, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return out, nil
}

// Document returns the stored JSON for eventID.
func (s *Store) Document(ctx context.Context, eventID id.EventID) ([]byte, error) {
	var doc string
	err := tx.Execer(ctx, s.db).QueryRowContext(ctx,
		`SELECT document FROM events WHERE event_id = ?`, eventID.String(),
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read event %s: %w", eventID, err)
	}
	return []byte(doc), nil
}

// PersonIDs lists every person with at least one event, in first-seen order.
func (s *Store) PersonIDs(ctx context.Context) ([]id.PersonID, error) {
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx,
		`SELECT person_id FROM event_persons GROUP BY person_id ORDER BY MIN(sequence)`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var out []id.PersonID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan person id: %w", err)
		}
		p, err := id.ParsePersonID(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
