package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recyclifyAPI/handlers"
	"recyclifyAPI/internal/waste"
	"recyclifyAPI/middleware"
	"recyclifyAPI/services"
	"recyclifyAPI/tests/helpers"
)

// TestFullLoggingFlow walks the core loop: account sync, logging waste,
// earning points, showing up on the leaderboard.
func TestFullLoggingFlow(t *testing.T) {
	// Setup
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	wasteService := services.NewWasteService(pool, userService)
	leaderboardService := services.NewLeaderboardService(pool)

	userHandler := handlers.NewUserHandler(userService)
	wasteHandler := handlers.NewWasteHandler(wasteService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_" + time.Now().Format("20060102150405")

	// Step 1: account arrives via Clerk webhook
	t.Log("Step 1: User signs up, webhook syncs the account")

	createPayload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	req1 := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(createPayload))
	rr1 := httptest.NewRecorder()

	webhookHandler.HandleClerkWebhook(rr1, req1)
	require.Equal(t, http.StatusOK, rr1.Code, "Webhook should succeed")

	// Step 2: user logs a waste entry
	t.Log("Step 2: User logs recycled plastic")

	logData := `{"date": "2026-08-20", "wasteType": "Plastic", "quantity": 2.5, "unit": "kg", "description": "bottles from the week"}`
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/waste-logs", strings.NewReader(logData))
	req2.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req2.Context(), middleware.ClerkIDKey, clerkID)
	req2 = req2.WithContext(ctx)
	rr2 := httptest.NewRecorder()

	wasteHandler.LogWaste(rr2, req2)
	require.Equal(t, http.StatusCreated, rr2.Code, "body: %s", rr2.Body.String())

	var logResponse struct {
		Success       bool   `json:"success"`
		Message       string `json:"message"`
		PointsAwarded int    `json:"pointsAwarded"`
	}
	err := json.Unmarshal(rr2.Body.Bytes(), &logResponse)
	require.NoError(t, err)
	assert.True(t, logResponse.Success)
	assert.Equal(t, waste.DefaultPointsPerLog, logResponse.PointsAwarded)
	assert.Contains(t, logResponse.Message, "earned 10 points")

	// Step 3: the account total reflects the award
	t.Log("Step 3: Points show up on the profile")

	u, err := userService.GetUserByID(context.Background(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, waste.DefaultPointsPerLog, u.Points)

	// Step 4: a second log accumulates
	t.Log("Step 4: Second log accumulates points")

	logData2 := `{"date": "2026-08-21", "wasteType": "Glass", "quantity": 4, "unit": "items"}`
	req3 := httptest.NewRequest(http.MethodPost, "/api/v1/waste-logs", strings.NewReader(logData2))
	ctx = context.WithValue(req3.Context(), middleware.ClerkIDKey, clerkID)
	req3 = req3.WithContext(ctx)
	rr3 := httptest.NewRecorder()

	wasteHandler.LogWaste(rr3, req3)
	require.Equal(t, http.StatusCreated, rr3.Code)

	u, err = userService.GetUserByID(context.Background(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, 2*waste.DefaultPointsPerLog, u.Points)

	// Step 5: denormalized total matches the ledger
	t.Log("Step 5: Reconciliation holds")

	err = userService.CheckReconciliation(context.Background(), clerkID)
	assert.NoError(t, err)

	// Step 6: user appears on the leaderboard
	t.Log("Step 6: User is ranked")

	page, err := leaderboardService.GetPage(context.Background(), 1, 100)
	require.NoError(t, err)

	found := false
	for _, entry := range page.Entries {
		if entry.UserID == clerkID {
			found = true
			assert.Equal(t, 2*waste.DefaultPointsPerLog, entry.Points)
		}
	}
	assert.True(t, found, "User with points should appear on the leaderboard")

	// Step 7: overview stats line up
	t.Log("Step 7: Overview stats")

	req4 := httptest.NewRequest(http.MethodGet, "/api/v1/user/overview", nil)
	ctx = context.WithValue(req4.Context(), middleware.ClerkIDKey, clerkID)
	req4 = req4.WithContext(ctx)
	rr4 := httptest.NewRecorder()

	userHandler.GetOverview(rr4, req4)
	require.Equal(t, http.StatusOK, rr4.Code)

	var stats struct {
		TotalPoints int `json:"totalPoints"`
		TotalLogs   int `json:"totalLogs"`
	}
	err = json.Unmarshal(rr4.Body.Bytes(), &stats)
	require.NoError(t, err)
	assert.Equal(t, 2*waste.DefaultPointsPerLog, stats.TotalPoints)
	assert.Equal(t, 2, stats.TotalLogs)
}

func TestLogWaste_RejectsInvalidQuantity(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	wasteService := services.NewWasteService(pool, userService)
	wasteHandler := handlers.NewWasteHandler(wasteService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_" + time.Now().Format("20060102150405")
	createPayload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	rr0 := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr0, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(createPayload)))
	require.Equal(t, http.StatusOK, rr0.Code)

	cases := []struct {
		name string
		body string
	}{
		{"zero quantity", `{"date": "2026-08-20", "wasteType": "Plastic", "quantity": 0, "unit": "kg"}`},
		{"negative quantity", `{"date": "2026-08-20", "wasteType": "Plastic", "quantity": -1, "unit": "kg"}`},
		{"unknown waste type", `{"date": "2026-08-20", "wasteType": "Uranium", "quantity": 1, "unit": "kg"}`},
		{"missing date", `{"wasteType": "Plastic", "quantity": 1, "unit": "kg"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/waste-logs", strings.NewReader(tc.body))
			ctx := context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID)
			req = req.WithContext(ctx)
			rr := httptest.NewRecorder()

			wasteHandler.LogWaste(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var response struct {
				Success     bool              `json:"success"`
				FieldErrors map[string]string `json:"fieldErrors"`
			}
			err := json.Unmarshal(rr.Body.Bytes(), &response)
			require.NoError(t, err)
			assert.False(t, response.Success)
			assert.NotEmpty(t, response.FieldErrors)

			// Rejected submissions must not touch the points total
			u, err := userService.GetUserByID(context.Background(), clerkID)
			require.NoError(t, err)
			assert.Equal(t, 0, u.Points)
		})
	}
}

func TestLogWaste_Unauthenticated(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	wasteService := services.NewWasteService(pool, userService)
	wasteHandler := handlers.NewWasteHandler(wasteService)

	logData := `{"date": "2026-08-20", "wasteType": "Plastic", "quantity": 1, "unit": "kg"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waste-logs", strings.NewReader(logData))
	rr := httptest.NewRecorder()

	wasteHandler.LogWaste(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// TestConcurrentLogging hammers RecordEntry from several goroutines and
// checks that no award is lost: the atomic increment must not degrade into
// a read-modify-write under contention.
func TestConcurrentLogging(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	wasteService := services.NewWasteService(pool, userService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_" + time.Now().Format("20060102150405")
	createPayload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	rr0 := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr0, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(createPayload)))
	require.Equal(t, http.StatusOK, rr0.Code)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := &waste.LogWasteRequest{
				Date:      "2026-08-20",
				WasteType: "Plastic",
				Quantity:  1,
				Unit:      "kg",
			}
			if _, err := wasteService.RecordEntry(context.Background(), clerkID, req); err != nil {
				errs <- fmt.Errorf("worker %d: %w", n, err)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	u, err := userService.GetUserByID(context.Background(), clerkID)
	require.NoError(t, err)
	assert.Equal(t, workers*waste.DefaultPointsPerLog, u.Points, "No award may be lost under contention")

	require.NoError(t, userService.CheckReconciliation(context.Background(), clerkID))
}

// TestLeaderboardRanking verifies ordering, the zero-point filter and the
// positional rank numbers across pages.
func TestLeaderboardRanking(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	leaderboardService := services.NewLeaderboardService(pool)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	stamp := time.Now().Format("20060102150405")
	points := map[string]int{
		"user_test_" + stamp + "_a": 50,
		"user_test_" + stamp + "_b": 30,
		"user_test_" + stamp + "_c": 0, // must never rank
	}

	ctx := context.Background()
	for clerkID, pts := range points {
		payload := helpers.MockClerkWebhookPayload("user.created", clerkID)
		rr := httptest.NewRecorder()
		webhookHandler.HandleClerkWebhook(rr, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload)))
		require.Equal(t, http.StatusOK, rr.Code)

		if pts > 0 {
			_, err := pool.Exec(ctx, `UPDATE users SET points = points + $2 WHERE id = $1`, clerkID, pts)
			require.NoError(t, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?page=1&limit=100", nil)
	rr := httptest.NewRecorder()
	leaderboardHandler.GetLeaderboard(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var page struct {
		Entries []struct {
			UserID string `json:"userId"`
			Points int    `json:"points"`
			Rank   int    `json:"rank"`
		} `json:"entries"`
		TotalUsers  int `json:"totalUsers"`
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))

	assert.Equal(t, 1, page.CurrentPage)

	prevPoints := -1
	for i, entry := range page.Entries {
		assert.Equal(t, i+1, entry.Rank, "Ranks are positional and contiguous")
		assert.Greater(t, entry.Points, 0, "Zero-point accounts must not rank")
		if prevPoints >= 0 {
			assert.GreaterOrEqual(t, prevPoints, entry.Points, "Entries are ordered by points descending")
		}
		prevPoints = entry.Points
		assert.NotEqual(t, "user_test_"+stamp+"_c", entry.UserID)
	}
}

func TestEnsureAccountIdempotent(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)

	os.Setenv("CLERK_WEBHOOK_SECRET", "")
	defer os.Unsetenv("CLERK_WEBHOOK_SECRET")

	clerkID := "user_test_" + time.Now().Format("20060102150405")
	payload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, rr.Code)

	ctx := context.Background()
	_, err := pool.Exec(ctx, `UPDATE users SET points = 40 WHERE id = $1`, clerkID)
	require.NoError(t, err)

	// Repeat calls are no-ops against an existing row
	for i := 0; i < 3; i++ {
		require.NoError(t, userService.EnsureAccount(ctx, clerkID))
	}

	u, err := userService.GetUserByID(ctx, clerkID)
	require.NoError(t, err)
	assert.Equal(t, 40, u.Points, "EnsureAccount must never overwrite an existing row")
	assert.Equal(t, "test.user@example.com", u.Email)
}
