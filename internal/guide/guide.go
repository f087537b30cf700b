package guide

import (
	"time"

	"github.com/google/uuid"
)

// Guide is an informational recycling article. Content is markdown;
// rendering is the client's concern.
type Guide struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Content     string     `json:"content"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListResponse is a page of published guides.
type ListResponse struct {
	Guides      []*Guide `json:"guides"`
	TotalGuides int      `json:"totalGuides"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
}
