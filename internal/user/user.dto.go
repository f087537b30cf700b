package user

// SyncUserRequest carries the display fields delivered by the identity
// provider, either from a webhook event or from a lazy profile fetch.
// Points are never part of a sync.
type SyncUserRequest struct {
	ID        string  `json:"id" validate:"required"`
	Email     string  `json:"email"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

// OverviewStats is the per-user summary shown on the overview page.
type OverviewStats struct {
	TotalPoints    int `json:"totalPoints"`
	TotalLogs      int `json:"totalLogs"`
	LogsThisMonth  int `json:"logsThisMonth"`
	PendingPickups int `json:"pendingPickups"`
}
