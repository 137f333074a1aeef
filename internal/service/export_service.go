package service

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eduboard-api/internal/dto"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
	"github.com/noah-isme/eduboard-api/pkg/export"
)

// ExportFile is a rendered document ready to stream to a client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders analytics results into downloadable documents.
type ExportService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{logger: logger, now: time.Now}
}

// WeakTopics renders a weak-topic report in the requested format.
func (s *ExportService) WeakTopics(report *dto.WeakTopicsResponse, format string) (*ExportFile, error) {
	if report == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "no report to export")
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Weak topics (below %s%%, %d attempts analysed)", formatPercent(report.Threshold), report.SampleSize),
		Headers: []string{"Rank", "Topic", "Average score (%)", "Attempts"},
		Rows:    make([][]string, 0, len(report.Topics)),
	}
	for i, topic := range report.Topics {
		dataset.Rows = append(dataset.Rows, []string{
			strconv.Itoa(i + 1),
			topic.TopicLabel,
			formatPercent(topic.AverageScorePercent),
			strconv.Itoa(topic.AttemptCount),
		})
	}

	body, err := export.Render(f, dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("weak-topics-%s.%s", s.now().UTC().Format("20060102-150405"), f)
	s.logger.Debug("weak topics exported", zap.String("format", string(f)), zap.Int("rows", len(dataset.Rows)), zap.Int("bytes", len(body)))
	return &ExportFile{Filename: filename, ContentType: f.ContentType(), Body: body}, nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
