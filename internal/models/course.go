package models

import "time"

// Course represents a row of the courses table. difficulty_level and
// is_active are nullable and read through COALESCE.
type Course struct {
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description,omitempty"`
	Subject         string     `db:"subject" json:"subject"`
	DifficultyLevel string     `db:"difficulty_level" json:"difficulty_level"`
	ImageURL        *string    `db:"image_url" json:"image_url,omitempty"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	CreatedBy       *string    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt       *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Active   *bool
	Subject  string
	Page     int
	PageSize int
}
