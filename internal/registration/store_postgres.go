package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sportsreg/pkg/platform/sentinel"
)

// PostgresArchive persists completed registrations as JSONB documents. The
// wizard's working state never touches the database; only the final
// composite record lands here.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(pool *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{pool: pool}
}

// Schema creates the archive table. Called once at startup; IF NOT EXISTS
// keeps it safe across restarts.
func (a *PostgresArchive) Schema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS registrations (
			id         TEXT PRIMARY KEY,
			user_type  TEXT NOT NULL,
			email      TEXT NOT NULL,
			record     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`
	if _, err := a.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create registrations table: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Save(ctx context.Context, rec *Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("postgres: marshal registration %s: %w", rec.ID, err)
	}

	const query = `
		INSERT INTO registrations (id, user_type, email, record, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`
	_, err = a.pool.Exec(ctx, query,
		rec.ID, string(rec.UserType), rec.Email, doc, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: save registration %s: %w", rec.ID, err)
	}
	return nil
}

// Find loads a previously archived registration.
func (a *PostgresArchive) Find(ctx context.Context, id string) (*Record, error) {
	const query = `SELECT record FROM registrations WHERE id = $1`

	var doc []byte
	if err := a.pool.QueryRow(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: find registration %s: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal registration %s: %w", id, err)
	}
	return &rec, nil
}

// ListByEmail returns archived registrations for one email, newest first.
func (a *PostgresArchive) ListByEmail(ctx context.Context, email string) ([]*Record, error) {
	const query = `SELECT record FROM registrations WHERE email = $1 ORDER BY created_at DESC`

	rows, err := a.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("postgres: list registrations for %s: %w", email, err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("postgres: scan registration: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal registration: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list registrations rows: %w", err)
	}
	return records, nil
}
