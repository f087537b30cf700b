package user

import "time"

// User mirrors the Clerk principal plus the denormalized running point
// total. ID is the Clerk subject id, not a local surrogate key.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username,omitempty"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
