package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/guide"
)

const (
	defaultGuidePageSize = 10
	maxGuidePageSize     = 50
)

type GuideService struct {
	db *pgxpool.Pool
}

func NewGuideService(db *pgxpool.Pool) *GuideService {
	return &GuideService{db: db}
}

// ListPublished returns a page of published guides, newest first, with an
// optional category filter.
func (s *GuideService) ListPublished(ctx context.Context, category string, page, limit int) (*guide.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultGuidePageSize
	}
	if limit > maxGuidePageSize {
		limit = maxGuidePageSize
	}
	offset := (page - 1) * limit

	query := `
	SELECT id, slug, title, category, content, image_url, published, published_at, created_at, updated_at
	FROM recycling_guides
	WHERE published = TRUE AND ($1 = '' OR category = $1)
	ORDER BY published_at DESC
	OFFSET $2 LIMIT $3
	`

	rows, err := s.db.Query(ctx, query, category, offset, limit)
	if err != nil {
		return nil, apperror.Storage("list guides", err)
	}
	defer rows.Close()

	guides := []*guide.Guide{}
	for rows.Next() {
		g := &guide.Guide{}
		err := rows.Scan(
			&g.ID,
			&g.Slug,
			&g.Title,
			&g.Category,
			&g.Content,
			&g.ImageURL,
			&g.Published,
			&g.PublishedAt,
			&g.CreatedAt,
			&g.UpdatedAt,
		)
		if err != nil {
			return nil, apperror.Storage("scan guide", err)
		}
		guides = append(guides, g)
	}

	var total int
	err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM recycling_guides WHERE published = TRUE AND ($1 = '' OR category = $1)`, category).Scan(&total)
	if err != nil {
		return nil, apperror.Storage("count guides", err)
	}

	return &guide.ListResponse{
		Guides:      guides,
		TotalGuides: total,
		CurrentPage: page,
		TotalPages:  (total + limit - 1) / limit,
	}, nil
}

// GetBySlug returns one published guide.
func (s *GuideService) GetBySlug(ctx context.Context, slug string) (*guide.Guide, error) {
	if slug == "" {
		return nil, apperror.ErrNotFound
	}

	query := `
	SELECT id, slug, title, category, content, image_url, published, published_at, created_at, updated_at
	FROM recycling_guides
	WHERE slug = $1 AND published = TRUE
	`

	g := &guide.Guide{}
	err := s.db.QueryRow(ctx, query, slug).Scan(
		&g.ID,
		&g.Slug,
		&g.Title,
		&g.Category,
		&g.Content,
		&g.ImageURL,
		&g.Published,
		&g.PublishedAt,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.Storage("get guide", err)
	}

	return g, nil
}

// Categories lists the distinct categories across published guides.
func (s *GuideService) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT category FROM recycling_guides WHERE published = TRUE ORDER BY category ASC`)
	if err != nil {
		return nil, apperror.Storage("list guide categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, apperror.Storage("scan guide category", err)
		}
		categories = append(categories, c)
	}

	return categories, nil
}
