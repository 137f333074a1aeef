package models

import "time"

// UserRole represents the application role stored on a profile.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one the dashboards understand.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// Profile mirrors a row of the profiles table. Language is read through
// COALESCE; the timestamps stay nullable.
type Profile struct {
	ID        string     `db:"id" json:"id"`
	FullName  string     `db:"full_name" json:"full_name"`
	Role      UserRole   `db:"role" json:"role"`
	AvatarURL *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Language  string     `db:"language" json:"language"`
	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ProfileWithStats is a profile joined with its leaderboard row. Stats are
// zero when the profile has no leaderboard entry yet.
type ProfileWithStats struct {
	Profile
	TotalPoints           int `db:"total_points" json:"total_points"`
	TotalCoursesCompleted int `db:"total_courses_completed" json:"total_courses_completed"`
	TotalQuizzesCompleted int `db:"total_quizzes_completed" json:"total_quizzes_completed"`
	StreakDays            int `db:"streak_days" json:"streak_days"`
}

// ProfileCounts holds per-role totals for the admin dashboard.
type ProfileCounts struct {
	Students int `db:"students" json:"students"`
	Teachers int `db:"teachers" json:"teachers"`
	Admins   int `db:"admins" json:"admins"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
