package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"trs/internal/person/models"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
	"trs/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// PostgresStore persists people in PostgreSQL. Save joins the transaction on
// ctx so a person write and its event commit together.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the persons table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate persons schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, p *models.Person) error {
	if p == nil {
		return fmt.Errorf("person is required")
	}
	status := p.Status
	if status == "" {
		status = models.StatusActive
	}
	query := `
		INSERT INTO persons (person_id, trn, first_name, middle_name, last_name, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (person_id) DO UPDATE SET
			trn = EXCLUDED.trn,
			first_name = EXCLUDED.first_name,
			middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name,
			status = EXCLUDED.status
	`
	_, err := tx.Execer(ctx, s.db).ExecContext(ctx, query,
		p.ID.String(), p.TRN.String(), p.FirstName, p.MiddleName, p.LastName, string(status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("trn %s already assigned: %w", p.TRN, sentinel.ErrConflict)
		}
		return fmt.Errorf("save person: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	query := `
		SELECT trn, first_name, middle_name, last_name, status
		FROM persons
		WHERE person_id = $1
	`
	var (
		p      = models.Person{ID: personID}
		trn    string
		status string
	)
	err := tx.Execer(ctx, s.db).QueryRowContext(ctx, query, personID.String()).
		Scan(&trn, &p.FirstName, &p.MiddleName, &p.LastName, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	p.TRN = id.TRN(trn)
	p.Status = models.Status(status)
	return &p, nil
}
