package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"recyclifyAPI/internal/apperror"
	"recyclifyAPI/internal/leaderboard"
)

// LeaderboardService is the ranked, paginated reader over account totals.
type LeaderboardService struct {
	db *pgxpool.Pool
}

func NewLeaderboardService(db *pgxpool.Pool) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// GetPage returns one page of accounts with points > 0, ordered by points
// descending with account age as the tie-break (earlier account wins).
// Zero-point accounts are excluded from ranking entirely. A page past the
// end returns an empty slice, not an error. Entries come back in result-set
// order without ranks; the caller assigns positional ranks from the page
// offset.
func (s *LeaderboardService) GetPage(ctx context.Context, page, limit int) (*leaderboard.Page, error) {
	page = leaderboard.ClampPage(page)
	limit = leaderboard.ClampLimit(limit)
	offset := (page - 1) * limit

	query := `
	SELECT id, username, first_name, last_name, image_url, points
	FROM users
	WHERE points > 0
	ORDER BY points DESC, created_at ASC
	OFFSET $1 LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, apperror.Storage("query leaderboard", err)
	}
	defer rows.Close()

	entries := []*leaderboard.Entry{}
	for rows.Next() {
		entry := &leaderboard.Entry{}
		err := rows.Scan(
			&entry.UserID,
			&entry.Username,
			&entry.FirstName,
			&entry.LastName,
			&entry.ImageURL,
			&entry.Points,
		)
		if err != nil {
			return nil, apperror.Storage("scan leaderboard row", err)
		}
		entries = append(entries, entry)
	}

	var total int
	err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE points > 0`).Scan(&total)
	if err != nil {
		return nil, apperror.Storage("count leaderboard users", err)
	}

	return &leaderboard.Page{
		Entries:     entries,
		TotalUsers:  total,
		CurrentPage: page,
		PageSize:    limit,
		TotalPages:  leaderboard.TotalPages(total, limit),
	}, nil
}
