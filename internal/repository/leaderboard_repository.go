package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduboard-api/internal/models"
)

// Stat columns are nullable; missing values rank as zero.
const leaderboardSelect = `SELECT l.id, l.user_id, p.full_name,
        COALESCE(l.total_points, 0) AS total_points,
        COALESCE(l.total_courses_completed, 0) AS total_courses_completed,
        COALESCE(l.total_quizzes_completed, 0) AS total_quizzes_completed,
        COALESCE(l.streak_days, 0) AS streak_days,
        l.last_activity_date
        FROM leaderboard l
        LEFT JOIN profiles p ON p.id = l.user_id`

// LeaderboardRepository reads the precomputed leaderboard table.
type LeaderboardRepository struct {
	db *sqlx.DB
}

// NewLeaderboardRepository creates a new repository instance.
func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Top returns the highest scoring rows.
func (r *LeaderboardRepository) Top(ctx context.Context, limit int) ([]models.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf("%s ORDER BY COALESCE(l.total_points, 0) DESC, COALESCE(l.total_quizzes_completed, 0) DESC LIMIT %d", leaderboardSelect, limit)
	var rows []models.LeaderboardRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	return rows, nil
}

// FindByUser returns the leaderboard row of a user. sql.ErrNoRows is returned unwrapped.
func (r *LeaderboardRepository) FindByUser(ctx context.Context, userID string) (*models.LeaderboardRow, error) {
	query := leaderboardSelect + " WHERE l.user_id = $1 LIMIT 1"
	var row models.LeaderboardRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return nil, err
	}
	return &row, nil
}
