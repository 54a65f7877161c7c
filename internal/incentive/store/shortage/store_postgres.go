package shortage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"donorhub/internal/incentive/models"
	id "donorhub/pkg/domain"
	"donorhub/pkg/platform/sentinel"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Flag(ctx context.Context, flag models.ShortageFlag) error {
	query := `
		INSERT INTO shortage_flags (blood_type, flagged_by, flagged_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (blood_type) DO UPDATE
		SET flagged_by = EXCLUDED.flagged_by, flagged_at = EXCLUDED.flagged_at
	`
	if _, err := s.db.ExecContext(ctx, query, string(flag.BloodType), uuid.UUID(flag.FlaggedBy), flag.FlaggedAt); err != nil {
		return fmt.Errorf("flag shortage: %w", err)
	}
	return nil
}

func (s *PostgresStore) Unflag(ctx context.Context, bloodType id.BloodType) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shortage_flags WHERE blood_type = $1`, string(bloodType))
	if err != nil {
		return fmt.Errorf("unflag shortage: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unflag shortage rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) IsFlagged(ctx context.Context, bloodType id.BloodType) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM shortage_flags WHERE blood_type = $1)`, string(bloodType)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check shortage: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.ShortageFlag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT blood_type, flagged_by, flagged_at FROM shortage_flags ORDER BY blood_type`)
	if err != nil {
		return nil, fmt.Errorf("list shortages: %w", err)
	}
	defer rows.Close()

	var flags []models.ShortageFlag
	for rows.Next() {
		var (
			f         models.ShortageFlag
			bloodType string
			actor     uuid.NullUUID
		)
		if err := rows.Scan(&bloodType, &actor, &f.FlaggedAt); err != nil {
			return nil, fmt.Errorf("scan shortage: %w", err)
		}
		f.BloodType = id.BloodType(bloodType)
		if actor.Valid {
			f.FlaggedBy = id.ActorID(actor.UUID)
		}
		flags = append(flags, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shortages: %w", err)
	}
	return flags, nil
}
