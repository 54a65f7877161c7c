package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"donorhub/internal/application/models"
	id "donorhub/pkg/domain"
	"donorhub/pkg/platform/sentinel"
	txcontext "donorhub/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists applications. The kind-specific profile is a JSONB
// column; fields used for filtering are duplicated into their own columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const selectColumns = `
	id, kind, status, identifier, lottery_identifier, email, password_hash,
	blood_type, region, profile, decided_by, decided_at, decision_reason,
	created_at, updated_at
`

func (s *PostgresStore) Create(ctx context.Context, app *models.Application) error {
	profile, err := marshalProfile(app)
	if err != nil {
		return err
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO applications (
			id, kind, status, identifier, lottery_identifier, email, password_hash,
			blood_type, region, profile, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		uuid.UUID(app.ID),
		string(app.Kind),
		string(app.Status),
		app.Identifier,
		nullString(app.LotteryIdentifier),
		app.Email,
		app.PasswordHash,
		nullString(string(app.BloodType)),
		nullString(app.Region),
		string(profile),
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	return s.findOne(ctx, s.execer(ctx), `SELECT `+selectColumns+` FROM applications WHERE id = $1`, uuid.UUID(appID))
}

func (s *PostgresStore) FindByIdentifier(ctx context.Context, identifier string) (*models.Application, error) {
	return s.findOne(ctx, s.execer(ctx), `SELECT `+selectColumns+` FROM applications WHERE identifier = $1`, identifier)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Application, error) {
	return s.findOne(ctx, s.execer(ctx), `SELECT `+selectColumns+` FROM applications WHERE email = $1`, models.NormalizeEmail(email))
}

func (s *PostgresStore) findOne(ctx context.Context, q dbExecutor, query string, arg any) (*models.Application, error) {
	app, err := scanApplication(q.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

// Execute locks the row with SELECT ... FOR UPDATE for the duration of
// validate and mutate, joining a transaction already in ctx when present.
func (s *PostgresStore) Execute(ctx context.Context, appID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	tx, owned, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if owned {
		defer func() {
			_ = tx.Rollback()
		}()
	}

	app, err := s.findOne(ctx, tx, `SELECT `+selectColumns+` FROM applications WHERE id = $1 FOR UPDATE`, uuid.UUID(appID))
	if err != nil {
		return nil, err
	}
	if err := validate(app); err != nil {
		return nil, err
	}
	mutate(app)

	profile, err := marshalProfile(app)
	if err != nil {
		return nil, err
	}
	var decidedBy any
	if !app.DecidedBy.IsNil() {
		decidedBy = uuid.UUID(app.DecidedBy)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE applications SET
			status = $2, blood_type = $3, region = $4, profile = $5,
			decided_by = $6, decided_at = $7, decision_reason = $8, updated_at = $9
		WHERE id = $1
	`,
		uuid.UUID(app.ID),
		string(app.Status),
		nullString(string(app.BloodType)),
		nullString(app.Region),
		string(profile),
		decidedBy,
		app.DecidedAt,
		nullString(app.DecisionReason),
		app.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	if owned {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit application update: %w", err)
		}
	}
	return app, nil
}

func (s *PostgresStore) begin(ctx context.Context) (*sql.Tx, bool, error) {
	if tx, ok := txcontext.From(ctx); ok {
		return tx, false, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin application tx: %w", err)
	}
	return tx, true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, appID id.ApplicationID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, uuid.UUID(appID))
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete application rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Application, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.Kind != "" {
		add("kind = $%d", string(filter.Kind))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.BloodType != "" {
		add("blood_type = $%d", string(filter.BloodType))
	}
	if filter.Region != "" {
		add("lower(region) = lower($%d)", filter.Region)
	}
	query := `SELECT ` + selectColumns + ` FROM applications`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at ASC, identifier ASC`

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app            models.Application
		appID          uuid.UUID
		kind, status   string
		lottery        sql.NullString
		bloodType      sql.NullString
		region         sql.NullString
		profile        []byte
		decidedBy      uuid.NullUUID
		decidedAt      sql.NullTime
		decisionReason sql.NullString
	)
	err := row.Scan(&appID, &kind, &status, &app.Identifier, &lottery, &app.Email, &app.PasswordHash,
		&bloodType, &region, &profile, &decidedBy, &decidedAt, &decisionReason,
		&app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	app.ID = id.ApplicationID(appID)
	app.Kind = models.Kind(kind)
	app.Status = models.Status(status)
	app.LotteryIdentifier = lottery.String
	app.BloodType = id.BloodType(bloodType.String)
	app.Region = region.String
	app.DecisionReason = decisionReason.String
	if decidedBy.Valid {
		app.DecidedBy = id.ActorID(decidedBy.UUID)
	}
	if decidedAt.Valid {
		at := decidedAt.Time.In(time.UTC)
		app.DecidedAt = &at
	}
	if err := unmarshalProfile(&app, profile); err != nil {
		return nil, err
	}
	return &app, nil
}

func marshalProfile(app *models.Application) ([]byte, error) {
	var v any
	switch app.Kind {
	case models.KindDonor:
		v = app.Donor
	case models.KindHospital:
		v = app.Hospital
	default:
		return nil, fmt.Errorf("marshal profile: unknown kind %q", app.Kind)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal profile: %w", err)
	}
	return raw, nil
}

func unmarshalProfile(app *models.Application, raw []byte) error {
	switch app.Kind {
	case models.KindDonor:
		app.Donor = &models.DonorProfile{}
		if err := json.Unmarshal(raw, app.Donor); err != nil {
			return fmt.Errorf("decode donor profile: %w", err)
		}
	case models.KindHospital:
		app.Hospital = &models.HospitalProfile{}
		if err := json.Unmarshal(raw, app.Hospital); err != nil {
			return fmt.Errorf("decode hospital profile: %w", err)
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
