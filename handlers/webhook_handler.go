package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/clerkevent"
	"recyclifyAPI/internal/user"
	"recyclifyAPI/middleware"
	"recyclifyAPI/services"
)

// WebhookHandler consumes Clerk's account lifecycle events so local display
// fields stay in sync with the identity provider.
type WebhookHandler struct {
	userService *services.UserService
}

func NewWebhookHandler(userService *services.UserService) *WebhookHandler {
	return &WebhookHandler{
		userService: userService,
	}
}

func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Error reading body")
		return
	}

	// Signature must verify before the payload is trusted at all.
	secret := os.Getenv("CLERK_WEBHOOK_SECRET")
	if secret == "" {
		log.Println("CLERK_WEBHOOK_SECRET not set, skipping signature verification")
	} else if !verifySvixSignature(
		secret,
		r.Header.Get("svix-id"),
		r.Header.Get("svix-timestamp"),
		r.Header.Get("svix-signature"),
		body,
	) {
		log.Println("Invalid webhook signature")
		middleware.ObserveWebhookEvent("unknown", "rejected")
		respondWithError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	var event clerkevent.Event
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook")
		return
	}

	log.Printf("Received webhook event: %s", event.Type)

	ctx := r.Context()
	switch event.Type {
	case "user.created", "user.updated":
		if err := h.handleUserUpserted(ctx, event.Data); err != nil {
			log.Printf("Error handling %s: %v", event.Type, err)
			middleware.ObserveWebhookEvent(event.Type, "error")
			respondWithError(w, http.StatusInternalServerError, "Error processing webhook")
			return
		}
		middleware.ObserveWebhookEvent(event.Type, "processed")

	case "user.deleted":
		if err := h.handleUserDeleted(ctx, event.Data); err != nil {
			log.Printf("Error handling user.deleted: %v", err)
			middleware.ObserveWebhookEvent(event.Type, "error")
			respondWithError(w, http.StatusInternalServerError, "Error processing webhook")
			return
		}
		middleware.ObserveWebhookEvent(event.Type, "processed")

	default:
		// Unknown event types are acknowledged, never retried.
		log.Printf("Unhandled webhook event type: %s", event.Type)
		middleware.ObserveWebhookEvent(event.Type, "ignored")
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *WebhookHandler) handleUserUpserted(ctx context.Context, data json.RawMessage) error {
	var userData clerkevent.UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return fmt.Errorf("failed to unmarshal user data: %w", err)
	}

	req := &user.SyncUserRequest{
		ID:        userData.ID,
		Email:     userData.PrimaryEmail(),
		Username:  optionalField(userData.Username),
		FirstName: optionalField(userData.FirstName),
		LastName:  optionalField(userData.LastName),
		ImageURL:  optionalField(userData.Image()),
	}

	synced, err := h.userService.SyncUser(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to sync user: %w", err)
	}

	log.Printf("Successfully synced user %s (%s)", synced.ID, synced.Email)
	return nil
}

func (h *WebhookHandler) handleUserDeleted(ctx context.Context, data json.RawMessage) error {
	var deleted clerkevent.DeletedData
	if err := json.Unmarshal(data, &deleted); err != nil {
		return fmt.Errorf("failed to unmarshal deleted data: %w", err)
	}

	if err := h.userService.DeleteUser(ctx, deleted.ID); err != nil {
		// Deleting an account we never saw is fine; Clerk should not retry.
		if errors.Is(err, apperror.ErrNotFound) {
			log.Printf("User %s already absent, acknowledging delete", deleted.ID)
			return nil
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Printf("Successfully deleted user: %s", deleted.ID)
	return nil
}

// verifySvixSignature checks the svix v1 HMAC-SHA256 over
// "<id>.<timestamp>.<body>". The signature header may carry several
// space-separated candidates; any matching v1 entry passes.
func verifySvixSignature(secret, svixID, svixTimestamp, svixSignature string, body []byte) bool {
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		log.Println("Missing webhook signature headers")
		return false
	}

	signedContent := fmt.Sprintf("%s.%s.%s", svixID, svixTimestamp, string(body))

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedContent))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, candidate := range strings.Fields(svixSignature) {
		provided, ok := strings.CutPrefix(candidate, "v1,")
		if !ok {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(provided)) {
			return true
		}
	}

	return false
}

func optionalField(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
