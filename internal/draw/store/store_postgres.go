package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"donorhub/internal/draw/models"
	id "donorhub/pkg/domain"
	"donorhub/pkg/platform/sentinel"
)

// PostgresStore keeps the window in a single-row table so that replicas
// racing on the same elapsed window record at most one draw.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadWindow(ctx context.Context) (models.Window, error) {
	var (
		startedAt  time.Time
		durationMS int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT started_at, duration_ms FROM draw_windows WHERE id = 1`).
		Scan(&startedAt, &durationMS)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Window{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Window{}, fmt.Errorf("load draw window: %w", err)
	}
	return models.Window{StartedAt: startedAt, Duration: time.Duration(durationMS) * time.Millisecond}, nil
}

func (s *PostgresStore) InitWindow(ctx context.Context, w models.Window) (models.Window, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO draw_windows (id, started_at, duration_ms)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO NOTHING
	`, w.StartedAt, w.Duration.Milliseconds())
	if err != nil {
		return models.Window{}, fmt.Errorf("init draw window: %w", err)
	}
	return s.LoadWindow(ctx)
}

func (s *PostgresStore) CompleteDraw(ctx context.Context, current, next models.Window, record models.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin draw: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE draw_windows SET started_at = $1, duration_ms = $2
		WHERE id = 1 AND started_at = $3
	`, next.StartedAt, next.Duration.Milliseconds(), current.StartedAt)
	if err != nil {
		return fmt.Errorf("advance draw window: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance draw window: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}

	donorIDs := make([]string, len(record.Entrants))
	lotteryIDs := make([]string, len(record.Entrants))
	for i, e := range record.Entrants {
		donorIDs[i] = e.DonorID
		lotteryIDs[i] = e.LotteryIdentifier
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO draw_records (id, window_started_at, drawn_at, min_points, entrant_ids, lottery_identifiers)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.UUID(record.ID), record.WindowStartedAt, record.DrawnAt, record.MinPoints,
		pq.Array(donorIDs), pq.Array(lotteryIDs))
	if err != nil {
		return fmt.Errorf("insert draw record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit draw: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, limit int) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, window_started_at, drawn_at, min_points, entrant_ids, lottery_identifiers
		FROM draw_records
		ORDER BY drawn_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list draw records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var (
			rec        models.Record
			drawID     uuid.UUID
			donorIDs   []string
			lotteryIDs []string
		)
		if err := rows.Scan(&drawID, &rec.WindowStartedAt, &rec.DrawnAt, &rec.MinPoints,
			pq.Array(&donorIDs), pq.Array(&lotteryIDs)); err != nil {
			return nil, fmt.Errorf("scan draw record: %w", err)
		}
		rec.ID = id.DrawID(drawID)
		rec.Entrants = make([]models.Entrant, len(donorIDs))
		for i, donorID := range donorIDs {
			rec.Entrants[i] = models.Entrant{DonorID: donorID}
			if i < len(lotteryIDs) {
				rec.Entrants[i].LotteryIdentifier = lotteryIDs[i]
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draw records: %w", err)
	}
	return out, nil
}
