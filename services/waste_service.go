package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/validate"
	"recyclifyAPI/internal/waste"
)

// WasteService is the ledger writer: it records waste log entries and
// applies their point award to the owning account.
type WasteService struct {
	db    *pgxpool.Pool
	users *UserService
	award waste.AwardRule
}

func NewWasteService(db *pgxpool.Pool, users *UserService) *WasteService {
	return &WasteService{
		db:    db,
		users: users,
		award: waste.DefaultAward,
	}
}

// RecordEntry durably applies one submission's point effect exactly once:
// ensure the account row, validate, insert the log, increment the total.
// The insert and the increment run in one transaction so the ledger and
// the account total cannot diverge; the increment itself is a storage-level
// `points = points + n`, never a read-modify-write, so concurrent
// submissions accumulate without lost updates.
func (s *WasteService) RecordEntry(ctx context.Context, clerkID string, req *waste.LogWasteRequest) (*waste.LogWasteResult, error) {
	if clerkID == "" {
		return nil, apperror.ErrUnauthenticated
	}

	if err := s.users.EnsureAccount(ctx, clerkID); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, apperror.NewValidation("date", "invalid date format, use YYYY-MM-DD")
	}

	points := s.award.Points(req)

	entry := &waste.Log{
		ID:            uuid.New(),
		UserID:        clerkID,
		Date:          date,
		WasteType:     req.WasteType,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		Description:   optional(req.Description),
		RecycledAt:    optional(req.RecycledAt),
		PointsAwarded: points,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, apperror.Storage("begin waste log transaction", err)
	}
	defer tx.Rollback(ctx)

	insert := `
	INSERT INTO waste_logs (id, user_id, date, waste_type, quantity, unit, description, recycled_at, points_awarded)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at
	`

	err = tx.QueryRow(
		ctx,
		insert,
		entry.ID,
		entry.UserID,
		entry.Date,
		entry.WasteType,
		entry.Quantity,
		entry.Unit,
		entry.Description,
		entry.RecycledAt,
		entry.PointsAwarded,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, apperror.Storage("insert waste log", err)
	}

	if points > 0 {
		_, err = tx.Exec(ctx, `UPDATE users SET points = points + $2, updated_at = NOW() WHERE id = $1`, clerkID, points)
		if err != nil {
			return nil, apperror.Storage("increment user points", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.Storage("commit waste log transaction", err)
	}

	return &waste.LogWasteResult{
		Log:           entry,
		PointsAwarded: points,
		Message:       fmt.Sprintf("Waste logged successfully! You earned %d points.", points),
	}, nil
}

// GetLogsForUser returns the user's ledger entries, most recent event first.
func (s *WasteService) GetLogsForUser(ctx context.Context, clerkID string) ([]*waste.Log, error) {
	if clerkID == "" {
		return nil, apperror.ErrUnauthenticated
	}

	query := `
	SELECT id, user_id, date, waste_type, quantity, unit, description, recycled_at, points_awarded, created_at
	FROM waste_logs
	WHERE user_id = $1
	ORDER BY date DESC, created_at DESC
	`

	rows, err := s.db.Query(ctx, query, clerkID)
	if err != nil {
		return nil, apperror.Storage("list waste logs", err)
	}
	defer rows.Close()

	logs := []*waste.Log{}
	for rows.Next() {
		l := &waste.Log{}
		err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Date,
			&l.WasteType,
			&l.Quantity,
			&l.Unit,
			&l.Description,
			&l.RecycledAt,
			&l.PointsAwarded,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, apperror.Storage("scan waste log", err)
		}
		logs = append(logs, l)
	}

	return logs, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
