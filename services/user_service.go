package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	clerkuser "github.com/clerk/clerk-sdk-go/v2/user"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

// EnsureAccount lazily creates the account row the first time a user
// performs a points-affecting action. Repeat calls are no-ops: the insert
// carries an empty conflict clause so existing display fields and points
// are never overwritten.
func (s *UserService) EnsureAccount(ctx context.Context, clerkID string) error {
	if clerkID == "" {
		return apperror.ErrUnauthenticated
	}

	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, clerkID).Scan(&exists)
	if err != nil {
		return apperror.Storage("check account exists", err)
	}
	if exists {
		return nil
	}

	req := &user.SyncUserRequest{ID: clerkID}
	if cu, err := clerkuser.Get(ctx, clerkID); err != nil {
		// Profile fetch is best-effort; the webhook sync fills the fields in
		// later if this fails.
		log.Printf("EnsureAccount: could not fetch Clerk profile for %s: %v", clerkID, err)
	} else {
		req.Username = cu.Username
		req.FirstName = cu.FirstName
		req.LastName = cu.LastName
		req.ImageURL = cu.ImageURL
		if len(cu.EmailAddresses) > 0 {
			req.Email = cu.EmailAddresses[0].EmailAddress
		}
	}

	query := `
	INSERT INTO users (id, email, username, first_name, last_name, image_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO NOTHING
	`

	_, err = s.db.Exec(ctx, query, req.ID, req.Email, req.Username, req.FirstName, req.LastName, req.ImageURL)
	if err != nil {
		return apperror.Storage("create account", err)
	}

	return nil
}

// SyncUser applies a user.created or user.updated webhook event. Display
// fields are upserted; the points total is never touched by a sync.
func (s *UserService) SyncUser(ctx context.Context, req *user.SyncUserRequest) (*user.User, error) {
	query := `
	INSERT INTO users (id, email, username, first_name, last_name, image_url)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		email = EXCLUDED.email,
		username = EXCLUDED.username,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		image_url = EXCLUDED.image_url,
		updated_at = NOW()
	RETURNING id, email, username, first_name, last_name, image_url, points, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		req.ID,
		req.Email,
		req.Username,
		req.FirstName,
		req.LastName,
		req.ImageURL,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.Points,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, apperror.Storage("sync user", err)
	}

	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, email, username, first_name, last_name, image_url, points, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.Points,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Storage("get user", err)
	}

	return u, nil
}

// DeleteUser handles the identity provider's deprovisioning event. Waste
// logs, pickups and notifications go with the account via FK cascade.
func (s *UserService) DeleteUser(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, clerkID)
	if err != nil {
		return apperror.Storage("delete user", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

// GetOverviewStats backs the overview page: running point total plus log
// and pickup counts.
func (s *UserService) GetOverviewStats(ctx context.Context, clerkID string) (*user.OverviewStats, error) {
	if clerkID == "" {
		return nil, apperror.ErrUnauthenticated
	}

	query := `
	SELECT
		COALESCE((SELECT points FROM users WHERE id = $1), 0),
		(SELECT COUNT(*) FROM waste_logs WHERE user_id = $1),
		(SELECT COUNT(*) FROM waste_logs WHERE user_id = $1 AND date >= DATE_TRUNC('month', CURRENT_DATE)),
		(SELECT COUNT(*) FROM pickup_requests WHERE user_id = $1 AND status = 'PENDING')
	`

	stats := &user.OverviewStats{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&stats.TotalPoints,
		&stats.TotalLogs,
		&stats.LogsThisMonth,
		&stats.PendingPickups,
	)
	if err != nil {
		return nil, apperror.Storage("get overview stats", err)
	}

	return stats, nil
}

// sumAwardedPoints recomputes the ledger total for one user. Only used by
// the reconciliation check below.
func (s *UserService) sumAwardedPoints(ctx context.Context, clerkID string) (int, error) {
	var total int
	err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(points_awarded), 0) FROM waste_logs WHERE user_id = $1`, clerkID).Scan(&total)
	if err != nil {
		return 0, apperror.Storage("sum awarded points", err)
	}
	return total, nil
}

// CheckReconciliation verifies that the denormalized total equals the sum
// of awarded points across the user's ledger entries.
func (s *UserService) CheckReconciliation(ctx context.Context, clerkID string) error {
	u, err := s.GetUserByID(ctx, clerkID)
	if err != nil {
		return err
	}

	ledgerTotal, err := s.sumAwardedPoints(ctx, clerkID)
	if err != nil {
		return err
	}

	if u.Points != ledgerTotal {
		return fmt.Errorf("points mismatch for user %s: account has %d, ledger sums to %d", clerkID, u.Points, ledgerTotal)
	}

	return nil
}
