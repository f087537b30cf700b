package pickup

import (
	"time"

	"github.com/google/uuid"
)

// Status lifecycle: PENDING -> SCHEDULED -> COMPLETED, with CANCELLED
// reachable from the two non-terminal states.
const (
	StatusPending   = "PENDING"
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

type Request struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"userId"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	PostalCode    string    `json:"postalCode"`
	ContactNumber string    `json:"contactNumber"`
	WasteTypes    []string  `json:"wasteTypes"`
	PreferredDate time.Time `json:"preferredDate"`
	UserNotes     *string   `json:"userNotes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	Address       string   `json:"address" validate:"required,min=5"`
	City          string   `json:"city" validate:"required,min=2"`
	PostalCode    string   `json:"postalCode" validate:"required,min=3"`
	ContactNumber string   `json:"contactNumber" validate:"required,min=7"`
	WasteTypes    []string `json:"wasteTypes" validate:"required,min=1,dive,oneof=paper plastic glass metal ewaste organic"`
	PreferredDate string   `json:"preferredDate" validate:"required"`
	UserNotes     string   `json:"userNotes,omitempty" validate:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING SCHEDULED COMPLETED CANCELLED"`
}

// IsTerminal reports whether no further transitions are allowed.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
