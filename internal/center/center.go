package center

import "github.com/google/uuid"

// Center is a physical recycling drop-off location. Latitude/longitude are
// optional; the map view filters to centers that have both.
type Center struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	PostalCode        string    `json:"postalCode"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	ContactNumber     *string   `json:"contactNumber,omitempty"`
	Website           *string   `json:"website,omitempty"`
	AcceptedMaterials []string  `json:"acceptedMaterials"`
	OperatingHours    *string   `json:"operatingHours,omitempty"`
}
