package dto

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     *string `json:"description"`
	Subject         string  `json:"subject" validate:"required,max=100"`
	DifficultyLevel string  `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url"`
}

// UpdateCourseStatusRequest sets a course's active flag. A nil value toggles it.
type UpdateCourseStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

