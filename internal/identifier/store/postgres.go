package store

import (
	"context"
	"database/sql"
	"fmt"

	"donorhub/internal/identifier/models"
	txcontext "donorhub/pkg/platform/tx"
)

// PostgresStore persists issued values in issued_identifiers, keyed by (kind, value).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Reserve relies on the primary key: a conflicting insert affects no rows.
func (s *PostgresStore) Reserve(ctx context.Context, ident models.Identifier) (bool, error) {
	query := `
		INSERT INTO issued_identifiers (kind, value)
		VALUES ($1, $2)
		ON CONFLICT (kind, value) DO NOTHING
	`
	result, err := s.execer(ctx).ExecContext(ctx, query, string(ident.Kind), ident.Value)
	if err != nil {
		return false, fmt.Errorf("reserve identifier: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve identifier rows affected: %w", err)
	}
	return rows == 1, nil
}

func (s *PostgresStore) Count(ctx context.Context, kind models.Kind) (int, error) {
	var count int
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM issued_identifiers WHERE kind = $1`, string(kind)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count identifiers: %w", err)
	}
	return count, nil
}
