package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/notification"
	"recyclifyAPI/internal/pickup"
	"recyclifyAPI/internal/validate"
)

type PickupService struct {
	db            *pgxpool.Pool
	users         *UserService
	notifications *NotificationService
}

func NewPickupService(db *pgxpool.Pool, users *UserService, notifications *NotificationService) *PickupService {
	return &PickupService{
		db:            db,
		users:         users,
		notifications: notifications,
	}
}

// CreateRequest follows the same ensure-account-then-act path as the waste
// log writer, minus the point award.
func (s *PickupService) CreateRequest(ctx context.Context, clerkID string, req *pickup.CreateRequest) (*pickup.Request, error) {
	if clerkID == "" {
		return nil, apperror.ErrUnauthenticated
	}

	if err := s.users.EnsureAccount(ctx, clerkID); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	preferredDate, err := parseDate(req.PreferredDate)
	if err != nil {
		return nil, apperror.NewValidation("preferredDate", "invalid date format, use YYYY-MM-DD")
	}

	p := &pickup.Request{
		ID:            uuid.New(),
		UserID:        clerkID,
		Address:       req.Address,
		City:          req.City,
		PostalCode:    req.PostalCode,
		ContactNumber: req.ContactNumber,
		WasteTypes:    req.WasteTypes,
		PreferredDate: preferredDate,
		UserNotes:     optional(req.UserNotes),
		Status:        pickup.StatusPending,
	}

	query := `
	INSERT INTO pickup_requests (id, user_id, address, city, postal_code, contact_number, waste_types, preferred_date, user_notes, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at, updated_at
	`

	err = s.db.QueryRow(
		ctx,
		query,
		p.ID,
		p.UserID,
		p.Address,
		p.City,
		p.PostalCode,
		p.ContactNumber,
		p.WasteTypes,
		p.PreferredDate,
		p.UserNotes,
		p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, apperror.Storage("insert pickup request", err)
	}

	return p, nil
}

func (s *PickupService) GetRequestsForUser(ctx context.Context, clerkID string) ([]*pickup.Request, error) {
	if clerkID == "" {
		return nil, apperror.ErrUnauthenticated
	}

	query := `
	SELECT id, user_id, address, city, postal_code, contact_number, waste_types, preferred_date, user_notes, status, created_at, updated_at
	FROM pickup_requests
	WHERE user_id = $1
	ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, clerkID)
	if err != nil {
		return nil, apperror.Storage("list pickup requests", err)
	}
	defer rows.Close()

	requests := []*pickup.Request{}
	for rows.Next() {
		p := &pickup.Request{}
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Address,
			&p.City,
			&p.PostalCode,
			&p.ContactNumber,
			&p.WasteTypes,
			&p.PreferredDate,
			&p.UserNotes,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, apperror.Storage("scan pickup request", err)
		}
		requests = append(requests, p)
	}

	return requests, nil
}

// CancelRequest lets a user cancel their own request while it is still
// pending.
func (s *PickupService) CancelRequest(ctx context.Context, clerkID string, requestID uuid.UUID) error {
	if clerkID == "" {
		return apperror.ErrUnauthenticated
	}

	query := `
	UPDATE pickup_requests
	SET status = $3, updated_at = NOW()
	WHERE id = $1 AND user_id = $2 AND status = $4
	`

	result, err := s.db.Exec(ctx, query, requestID, clerkID, pickup.StatusCancelled, pickup.StatusPending)
	if err != nil {
		return apperror.Storage("cancel pickup request", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

// UpdateStatus is the operations-side transition. Terminal states are
// final. A successful transition notifies the owner.
func (s *PickupService) UpdateStatus(ctx context.Context, requestID uuid.UUID, req *pickup.UpdateStatusRequest) (*pickup.Request, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var ownerID, currentStatus string
	err := s.db.QueryRow(ctx, `SELECT user_id, status FROM pickup_requests WHERE id = $1`, requestID).Scan(&ownerID, &currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Storage("get pickup request", err)
	}

	if pickup.IsTerminal(currentStatus) {
		return nil, apperror.NewValidation("status", "request is already "+currentStatus+" and cannot change")
	}

	query := `
	UPDATE pickup_requests
	SET status = $2, updated_at = NOW()
	WHERE id = $1
	RETURNING id, user_id, address, city, postal_code, contact_number, waste_types, preferred_date, user_notes, status, created_at, updated_at
	`

	p := &pickup.Request{}
	err = s.db.QueryRow(ctx, query, requestID, req.Status).Scan(
		&p.ID,
		&p.UserID,
		&p.Address,
		&p.City,
		&p.PostalCode,
		&p.ContactNumber,
		&p.WasteTypes,
		&p.PreferredDate,
		&p.UserNotes,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, apperror.Storage("update pickup status", err)
	}

	// Best-effort: a failed notification never fails the transition.
	if s.notifications != nil {
		_, err := s.notifications.Create(ctx, ownerID, notification.TypePickupStatus,
			"Pickup request update",
			"Your pickup request is now "+p.Status+".",
			map[string]string{"pickupId": p.ID.String(), "status": p.Status},
		)
		if err != nil {
			log.Printf("UpdateStatus: failed to notify user %s: %v", ownerID, err)
		}
	}

	return p, nil
}
