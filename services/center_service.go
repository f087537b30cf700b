package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/center"
)

type CenterService struct {
	db *pgxpool.Pool
}

func NewCenterService(db *pgxpool.Pool) *CenterService {
	return &CenterService{db: db}
}

// List returns recycling centers ordered by name. When hasCoordinates is
// set, only centers the map can place are returned. limit <= 0 means no
// limit.
func (s *CenterService) List(ctx context.Context, hasCoordinates bool, limit int) ([]*center.Center, error) {
	query := `
	SELECT id, name, address, city, postal_code, latitude, longitude, contact_number, website, accepted_materials, operating_hours
	FROM recycling_centers
	WHERE NOT $1 OR (latitude IS NOT NULL AND longitude IS NOT NULL)
	ORDER BY name ASC
	`

	args := []any{hasCoordinates}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.Storage("list recycling centers", err)
	}
	defer rows.Close()

	centers := []*center.Center{}
	for rows.Next() {
		c := &center.Center{}
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Address,
			&c.City,
			&c.PostalCode,
			&c.Latitude,
			&c.Longitude,
			&c.ContactNumber,
			&c.Website,
			&c.AcceptedMaterials,
			&c.OperatingHours,
		)
		if err != nil {
			return nil, apperror.Storage("scan recycling center", err)
		}
		centers = append(centers, c)
	}

	return centers, nil
}
