package integration

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recyclifyAPI/handlers"
	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/pickup"
	"recyclifyAPI/services"
	"recyclifyAPI/tests/helpers"
)

func setupPickupTest(t *testing.T) (string, *services.PickupService, *services.NotificationService, func()) {
	pool := helpers.SetupTestDB(t)

	userService := services.NewUserService(pool)
	notificationService := services.NewNotificationService(pool)
	pickupService := services.NewPickupService(pool, userService, notificationService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")

	clerkID := "user_test_" + time.Now().Format("20060102150405.000")
	payload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, rr.Code)

	cleanup := func() {
		os.Unsetenv("CLERK_WEBHOOK_SECRET")
		helpers.CleanupTestDB(t, pool)
	}
	return clerkID, pickupService, notificationService, cleanup
}

func validPickupRequest() *pickup.CreateRequest {
	return &pickup.CreateRequest{
		Address:       "12 Green Street",
		City:          "Springfield",
		PostalCode:    "10001",
		ContactNumber: "+15550101",
		WasteTypes:    []string{"plastic", "glass"},
		PreferredDate: "2026-09-01",
		UserNotes:     "Leave at the gate",
	}
}

func TestPickupLifecycle(t *testing.T) {
	clerkID, pickupService, _, cleanup := setupPickupTest(t)
	defer cleanup()

	ctx := context.Background()

	// Create
	created, err := pickupService.CreateRequest(ctx, clerkID, validPickupRequest())
	require.NoError(t, err)
	assert.Equal(t, pickup.StatusPending, created.Status)
	assert.Equal(t, clerkID, created.UserID)

	// List
	requests, err := pickupService.GetRequestsForUser(ctx, clerkID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, created.ID, requests[0].ID)

	// Cancel while pending
	require.NoError(t, pickupService.CancelRequest(ctx, clerkID, created.ID))

	requests, err = pickupService.GetRequestsForUser(ctx, clerkID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, pickup.StatusCancelled, requests[0].Status)

	// Cancelling again fails: the request is no longer pending
	err = pickupService.CancelRequest(ctx, clerkID, created.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestPickupCreateValidation(t *testing.T) {
	clerkID, pickupService, _, cleanup := setupPickupTest(t)
	defer cleanup()

	ctx := context.Background()

	req := validPickupRequest()
	req.WasteTypes = []string{"plutonium"}

	_, err := pickupService.CreateRequest(ctx, clerkID, req)
	require.Error(t, err)

	var verr *apperror.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestPickupStatusTransitions(t *testing.T) {
	clerkID, pickupService, notificationService, cleanup := setupPickupTest(t)
	defer cleanup()

	ctx := context.Background()

	created, err := pickupService.CreateRequest(ctx, clerkID, validPickupRequest())
	require.NoError(t, err)

	// PENDING -> SCHEDULED notifies the owner
	updated, err := pickupService.UpdateStatus(ctx, created.ID, &pickup.UpdateStatusRequest{Status: pickup.StatusScheduled})
	require.NoError(t, err)
	assert.Equal(t, pickup.StatusScheduled, updated.Status)

	list, err := notificationService.List(ctx, clerkID)
	require.NoError(t, err)
	require.NotEmpty(t, list.Notifications)
	assert.Contains(t, list.Notifications[0].Body, pickup.StatusScheduled)
	assert.Equal(t, 1, list.UnreadCount)

	// SCHEDULED -> COMPLETED
	updated, err = pickupService.UpdateStatus(ctx, created.ID, &pickup.UpdateStatusRequest{Status: pickup.StatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, pickup.StatusCompleted, updated.Status)

	// COMPLETED is terminal
	_, err = pickupService.UpdateStatus(ctx, created.ID, &pickup.UpdateStatusRequest{Status: pickup.StatusPending})
	require.Error(t, err)

	var verr *apperror.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestPickupCancelOtherUsersRequest(t *testing.T) {
	clerkID, pickupService, _, cleanup := setupPickupTest(t)
	defer cleanup()

	ctx := context.Background()

	created, err := pickupService.CreateRequest(ctx, clerkID, validPickupRequest())
	require.NoError(t, err)

	// A different user cannot cancel someone else's request
	err = pickupService.CancelRequest(ctx, "user_test_someone_else", created.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
