// Package postgres is the PostgreSQL event store. Rows carry the columns needed
// to find a person's events; the event itself lives in document exactly as
// written.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"trs/internal/history/events"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
	"trs/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Store struct {
	db       *sql.DB
	registry *events.Registry
}

type Option func(*Store)

func WithRegistry(r *events.Registry) Option {
	return func(s *Store) {
		s.registry = r
	}
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, registry: events.DefaultRegistry}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates the events table and its indexes if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate events schema: %w", err)
	}
	return nil
}

// Append inserts env on the transaction carried by ctx, or autocommits when
// there is none.
func (s *Store) Append(ctx context.Context, env events.Envelope) error {
	doc, err := events.Marshal(env)
	if err != nil {
		return err
	}

	related := make([]string, 0, len(env.RelatedPersonIDs))
	for _, p := range env.RelatedPersonIDs {
		related = append(related, p.String())
	}
	var aggregateKey any
	if env.AggregateKey != nil {
		aggregateKey = env.AggregateKey.String()
	}

	query := `
		INSERT INTO events (event_id, kind, person_id, related_person_ids, aggregate_key, created_at, document)
		VALUES ($1, $2, $3, $4::uuid[], $5, $6, $7)
	`
	_, err = tx.Execer(ctx, s.db).ExecContext(ctx, query,
		env.EventID.String(),
		string(env.Kind()),
		env.PersonID.String(),
		pq.Array(related),
		aggregateKey,
		env.CreatedAt,
		doc,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("append event %s: %w", env.EventID, sentinel.ErrConflict)
		}
		return fmt.Errorf("append event %s: %w", env.EventID, err)
	}
	return nil
}

func (s *Store) LoadAllForPerson(ctx context.Context, personID id.PersonID) ([]events.Envelope, error) {
	query := `
		SELECT sequence, document
		FROM events
		WHERE person_id = $1 OR $1 = ANY(related_person_ids)
		ORDER BY created_at, sequence
	`
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, query, personID.String())
	if err != nil {
		return nil, fmt.Errorf("load events for person %s: %w", personID, err)
	}
	defer rows.Close()

	var out []events.Envelope
	for rows.Next() {
		var (
			sequence int64
			doc      []byte
		)
		if err := rows.Scan(&sequence, &doc); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		env, err := s.registry.Unmarshal(doc)
		if err != nil {
			return nil, fmt.Errorf("decode event %d: %w", sequence, err)
		}
		env.Sequence = sequence
		out = append(out, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	// created_at is truncated to microseconds in the column; the document keeps
	// full precision.
	events.SortChronological(out)
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
