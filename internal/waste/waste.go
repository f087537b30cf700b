package waste

import (
	"time"

	"github.com/google/uuid"
)

// Fixed enumerations for the log form. These match the dropdown options the
// web client renders.
var (
	TypeOptions = []string{"Plastic", "Paper", "Glass", "Organic", "E-waste", "Metal", "Textiles", "Other"}
	UnitOptions = []string{"kg", "items", "liters", "bags"}
)

// Log is one append-only ledger entry. PointsAwarded is fixed at creation
// and reflects the award rule in effect at that time; it is never
// recomputed, so rule changes do not rewrite history.
type Log struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"userId"`
	Date          time.Time `json:"date"`
	WasteType     string    `json:"wasteType"`
	Quantity      float64   `json:"quantity"`
	Unit          string    `json:"unit"`
	Description   *string   `json:"description,omitempty"`
	RecycledAt    *string   `json:"recycledAt,omitempty"`
	PointsAwarded int       `json:"pointsAwarded"`
	CreatedAt     time.Time `json:"createdAt"`
}

type LogWasteRequest struct {
	Date        string  `json:"date" validate:"required"`
	WasteType   string  `json:"wasteType" validate:"required,oneof=Plastic Paper Glass Organic E-waste Metal Textiles Other"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	Unit        string  `json:"unit" validate:"required,oneof=kg items liters bags"`
	Description string  `json:"description,omitempty" validate:"max=500"`
	RecycledAt  string  `json:"recycledAt,omitempty" validate:"max=200"`
}

// LogWasteResult is the success payload of a recorded entry.
type LogWasteResult struct {
	Log           *Log   `json:"log"`
	PointsAwarded int    `json:"pointsAwarded"`
	Message       string `json:"message"`
}
