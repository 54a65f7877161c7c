package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"donorhub/internal/incentive/models"
)

// PostgresStore persists ledger entries. Appends for one donor are serialized
// with a transaction-scoped advisory lock keyed by the donor identifier.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry *models.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger append: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, entry.DonorID); err != nil {
		return fmt.Errorf("lock donor ledger: %w", err)
	}
	query := `
		INSERT INTO ledger_entries (donor_id, action, base_points, multiplier, points, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING sequence
	`
	err = tx.QueryRowContext(ctx, query,
		entry.DonorID,
		string(entry.Action),
		entry.BasePoints,
		entry.Multiplier,
		entry.Points,
		entry.Timestamp,
	).Scan(&entry.Sequence)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger append: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByDonor(ctx context.Context, donorID string) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence, donor_id, action, base_points, multiplier, points, recorded_at
		FROM ledger_entries
		WHERE donor_id = $1
		ORDER BY sequence ASC
	`, donorID)
	if err != nil {
		return nil, fmt.Errorf("query donor ledger: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sequence, donor_id, action, base_points, multiplier, points, recorded_at
		FROM ledger_entries
		ORDER BY sequence ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		var (
			e      models.Entry
			action string
		)
		if err := rows.Scan(&e.Sequence, &e.DonorID, &action, &e.BasePoints, &e.Multiplier, &e.Points, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Action = models.ActionKind(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}
	return entries, nil
}
