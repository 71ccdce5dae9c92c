package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"

	id "trs/pkg/domain"
	"trs/pkg/platform/audit"
	"trs/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate record_access: %w", err)
	}
	return nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var userID *uuid.UUID
	if !event.UserID.IsNil() {
		u := uuid.UUID(event.UserID)
		userID = &u
	}
	_, err := tx.Execer(ctx, s.db).ExecContext(ctx, `
		INSERT INTO record_access
			(id, category, action, person_id, user_id, user_name, request_id, client_ip, items_shown, items_hidden, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING`,
		event.ID,
		string(event.Category()),
		string(event.Action),
		uuid.UUID(event.PersonID),
		userID,
		event.UserName,
		event.RequestID,
		event.ClientIP,
		event.ItemsShown,
		event.ItemsHidden,
		event.Reason,
		event.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert record access %s: %w", event.ID, err)
	}
	return nil
}

func (s *Store) ListByPerson(ctx context.Context, personID id.PersonID, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := tx.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT id, action, user_id, user_name, request_id, client_ip, items_shown, items_hidden, reason, occurred_at
		FROM record_access
		WHERE person_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`,
		uuid.UUID(personID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list record access for %s: %w", personID, err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var (
			e      audit.Event
			action string
			userID uuid.NullUUID
		)
		if err := rows.Scan(&e.ID, &action, &userID, &e.UserName, &e.RequestID, &e.ClientIP,
			&e.ItemsShown, &e.ItemsHidden, &e.Reason, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan record access: %w", err)
		}
		e.Action = audit.Action(action)
		e.PersonID = personID
		if userID.Valid {
			e.UserID = id.UserID(userID.UUID)
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
