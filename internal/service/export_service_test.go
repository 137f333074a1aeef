package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduboard-api/internal/analytics"
	"github.com/noah-isme/eduboard-api/internal/dto"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
)

func sampleWeakTopicsResponse() *dto.WeakTopicsResponse {
	return &dto.WeakTopicsResponse{
		Topics: []analytics.WeakTopicResult{
			{TopicLabel: "Algebra", AverageScorePercent: 55, AttemptCount: 2},
			{TopicLabel: "Unknown", AverageScorePercent: 62.5, AttemptCount: 1},
		},
		SampleSize: 4,
		Threshold:  70,
		MaxResults: 5,
	}
}

func TestExportServiceWeakTopicsCSV(t *testing.T) {
	svc := NewExportService(nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }

	file, err := svc.WeakTopics(sampleWeakTopicsResponse(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "weak-topics-20240501-083000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, "Rank,Topic,Average score (%),Attempts\n1,Algebra,55.00,2\n2,Unknown,62.50,1\n", string(file.Body))
}

func TestExportServiceWeakTopicsPDF(t *testing.T) {
	file, err := NewExportService(nil).WeakTopics(sampleWeakTopicsResponse(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF-")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	_, err := NewExportService(nil).WeakTopics(sampleWeakTopicsResponse(), "docx")
	assertAppErrorCode(t, err, appErrors.ErrValidation.Code)
}
