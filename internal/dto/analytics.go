package dto

import "github.com/noah-isme/eduboard-api/internal/analytics"

// WeakTopicsRequest is an ad-hoc aggregation over caller supplied attempt
// records. A missing attempts field is rejected; an empty list is not.
type WeakTopicsRequest struct {
	Attempts  []analytics.Record `json:"attempts" validate:"required"`
	Threshold *float64           `json:"threshold" validate:"omitempty,gt=0"`
	Max       *int               `json:"max" validate:"omitempty,min=1,max=50"`
}

// WeakTopicsQuery scopes the feed based weak-topic endpoint.
type WeakTopicsQuery struct {
	Feed      int
	Threshold float64
	Max       int
}

// WeakTopicsResponse wraps an aggregation report with the options applied.
type WeakTopicsResponse struct {
	Topics     []analytics.WeakTopicResult `json:"topics"`
	SampleSize int                         `json:"sampleSize"`
	TopicCount int                         `json:"topicCount"`
	Skipped    int                         `json:"skipped"`
	Threshold  float64                     `json:"threshold"`
	MaxResults int                         `json:"maxResults"`
}
