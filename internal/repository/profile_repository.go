package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduboard-api/internal/models"
)

const profileWithStatsSelect = `SELECT p.id, p.full_name, p.role, p.avatar_url, COALESCE(p.language, '') AS language, p.created_at, p.updated_at,
        COALESCE(l.total_points, 0) AS total_points,
        COALESCE(l.total_courses_completed, 0) AS total_courses_completed,
        COALESCE(l.total_quizzes_completed, 0) AS total_quizzes_completed,
        COALESCE(l.streak_days, 0) AS streak_days
        FROM profiles p
        LEFT JOIN leaderboard l ON l.user_id = p.id`

// ProfileRepository reads application profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new repository instance.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID returns a profile by id. sql.ErrNoRows is returned unwrapped.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	const query = `SELECT id, full_name, role, avatar_url, COALESCE(language, '') AS language, created_at, updated_at FROM profiles WHERE id = $1`
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListWithStats returns profiles joined with leaderboard stats, newest first.
// A nil role lists every profile; a non-positive limit is unbounded.
func (r *ProfileRepository) ListWithStats(ctx context.Context, role *models.UserRole, limit int) ([]models.ProfileWithStats, error) {
	query := profileWithStatsSelect
	var args []interface{}
	if role != nil {
		args = append(args, string(*role))
		query += fmt.Sprintf(" WHERE p.role = $%d", len(args))
	}
	query += " ORDER BY p.created_at DESC NULLS LAST"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var profiles []models.ProfileWithStats
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles with stats: %w", err)
	}
	return profiles, nil
}

// CountByRole returns the number of profiles per role.
func (r *ProfileRepository) CountByRole(ctx context.Context) (models.ProfileCounts, error) {
	const query = `SELECT
        COUNT(*) FILTER (WHERE role = 'student') AS students,
        COUNT(*) FILTER (WHERE role = 'teacher') AS teachers,
        COUNT(*) FILTER (WHERE role = 'admin') AS admins
        FROM profiles`
	var counts models.ProfileCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return models.ProfileCounts{}, fmt.Errorf("count profiles: %w", err)
	}
	return counts, nil
}
