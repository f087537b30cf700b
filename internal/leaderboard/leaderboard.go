package leaderboard

// Entry is one row of the ranked view. Rank is positional within the full
// descending ordering and is assigned by the caller from the page offset;
// it is never stored.
type Entry struct {
	UserID    string  `json:"userId"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	Points    int     `json:"points"`
	Rank      int     `json:"rank"`
}

// Page is one slice of the leaderboard plus the pagination metadata needed
// to render page controls.
type Page struct {
	Entries     []*Entry `json:"entries"`
	TotalUsers  int      `json:"totalUsers"`
	CurrentPage int      `json:"currentPage"`
	PageSize    int      `json:"pageSize"`
	TotalPages  int      `json:"totalPages"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampPage normalizes a requested page number: anything below 1 becomes 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampLimit normalizes a requested page size to [1, MaxPageSize], falling
// back to the default when unset or nonsensical.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
