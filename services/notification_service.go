package services

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/notification"
	"recyclifyAPI/internal/validate"
)

type NotificationService struct {
	db   *pgxpool.Pool
	push notification.PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

// SetPushProvider injects the FCM client once it is available. Without a
// provider, notifications are stored but not pushed.
func (s *NotificationService) SetPushProvider(p notification.PushProvider) {
	s.push = p
}

// Create stores a notification row and pushes it to the user's devices.
func (s *NotificationService) Create(ctx context.Context, userID, notifType, title, body string, data map[string]string) (*notification.Notification, error) {
	n := &notification.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}

	query := `
	INSERT INTO notifications (id, user_id, type, title, body)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at
	`

	err := s.db.QueryRow(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Body).Scan(&n.CreatedAt)
	if err != nil {
		return nil, apperror.Storage("insert notification", err)
	}

	if s.push != nil {
		tokens, err := s.deviceTokens(ctx, userID)
		if err != nil {
			log.Printf("Create notification: could not load device tokens for %s: %v", userID, err)
		} else if err := s.push.SendPush(ctx, tokens, title, body, data); err != nil {
			log.Printf("Create notification: push to %s failed: %v", userID, err)
		}
	}

	return n, nil
}

func (s *NotificationService) List(ctx context.Context, clerkID string) (*notification.ListResponse, error) {
	if clerkID == "" {
		return nil, apperror.ErrUnauthenticated
	}

	query := `
	SELECT id, user_id, type, title, body, read, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT 50
	`

	rows, err := s.db.Query(ctx, query, clerkID)
	if err != nil {
		return nil, apperror.Storage("list notifications", err)
	}
	defer rows.Close()

	notifications := []*notification.Notification{}
	for rows.Next() {
		n := &notification.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, apperror.Storage("scan notification", err)
		}
		notifications = append(notifications, n)
	}

	unread, err := s.UnreadCount(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	return &notification.ListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, clerkID string) (int, error) {
	if clerkID == "" {
		return 0, apperror.ErrUnauthenticated
	}

	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, clerkID).Scan(&count)
	if err != nil {
		return 0, apperror.Storage("count unread notifications", err)
	}
	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, clerkID string, notificationID uuid.UUID) error {
	if clerkID == "" {
		return apperror.ErrUnauthenticated
	}

	result, err := s.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, notificationID, clerkID)
	if err != nil {
		return apperror.Storage("mark notification read", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, clerkID string) error {
	if clerkID == "" {
		return apperror.ErrUnauthenticated
	}

	_, err := s.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, clerkID)
	if err != nil {
		return apperror.Storage("mark all notifications read", err)
	}
	return nil
}

// RegisterDevice upserts a push token for the user. A token that moves to
// another account is reassigned.
func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	if clerkID == "" {
		return apperror.ErrUnauthenticated
	}

	if err := validate.Struct(req); err != nil {
		return err
	}

	query := `
	INSERT INTO device_tokens (user_id, token, platform)
	VALUES ($1, $2, $3)
	ON CONFLICT (token) DO UPDATE SET
		user_id = EXCLUDED.user_id,
		platform = EXCLUDED.platform
	`

	_, err := s.db.Exec(ctx, query, clerkID, req.Token, req.Platform)
	if err != nil {
		return apperror.Storage("register device token", err)
	}
	return nil
}

func (s *NotificationService) deviceTokens(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id, token, platform, created_at FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.UserID, &t.Token, &t.Platform, &t.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}
