package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduboard-api/internal/analytics"
	"github.com/noah-isme/eduboard-api/internal/dto"
	"github.com/noah-isme/eduboard-api/internal/models"
	"github.com/noah-isme/eduboard-api/internal/service"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
	"github.com/noah-isme/eduboard-api/pkg/response"
)

type analyticsService interface {
	WeakTopics(ctx context.Context, query dto.WeakTopicsQuery) (*dto.WeakTopicsResponse, bool, error)
	AnalyzeRecords(ctx context.Context, req dto.WeakTopicsRequest) (*dto.WeakTopicsResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]analytics.RankedEntry, error)
	SystemMetrics() models.SystemMetrics
}

type exportService interface {
	WeakTopics(report *dto.WeakTopicsResponse, format string) (*service.ExportFile, error)
}

// AnalyticsHandler exposes weak-topic analytics and the leaderboard.
type AnalyticsHandler struct {
	analytics analyticsService
	exporter  exportService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService, exporter exportService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, exporter: exporter}
}

// WeakTopics godoc
// @Summary Weakest topics over recent quiz attempts
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param feed query int false "Most recent attempts analysed (1-200)"
// @Param threshold query number false "Pass threshold percentage"
// @Param max query int false "Maximum topics returned"
// @Success 200 {object} response.Envelope
// @Router /analytics/weak-topics [get]
func (h *AnalyticsHandler) WeakTopics(c *gin.Context) {
	query, err := parseWeakTopicsQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	report, cacheHit, err := h.analytics.WeakTopics(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, report, cacheHit, start)
}

// AnalyzeWeakTopics godoc
// @Summary Weakest topics over supplied attempt records
// @Tags Analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.WeakTopicsRequest true "Attempt records"
// @Success 200 {object} response.Envelope
// @Router /analytics/weak-topics [post]
func (h *AnalyticsHandler) AnalyzeWeakTopics(c *gin.Context) {
	var req dto.WeakTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.analytics.AnalyzeRecords(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ExportWeakTopics godoc
// @Summary Download the weak-topic report
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Param feed query int false "Most recent attempts analysed (1-200)"
// @Param threshold query number false "Pass threshold percentage"
// @Param max query int false "Maximum topics returned"
// @Success 200 {file} file
// @Router /analytics/weak-topics/export [get]
func (h *AnalyticsHandler) ExportWeakTopics(c *gin.Context) {
	query, err := parseWeakTopicsQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, _, err := h.analytics.WeakTopics(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.WeakTopics(report, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// Leaderboard godoc
// @Summary Ranked leaderboard
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Entries returned (max 100)"
// @Success 200 {object} response.Envelope
// @Router /leaderboard [get]
func (h *AnalyticsHandler) Leaderboard(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	ranked, err := h.analytics.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranked, nil)
}

// System godoc
// @Summary Instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.analytics.SystemMetrics(), nil)
}

func parseWeakTopicsQuery(c *gin.Context) (dto.WeakTopicsQuery, error) {
	var query dto.WeakTopicsQuery
	var err error
	if query.Feed, err = queryInt(c, "feed", 0); err != nil {
		return query, err
	}
	if query.Threshold, err = queryFloat(c, "threshold"); err != nil {
		return query, err
	}
	if query.Max, err = queryInt(c, "max", 0); err != nil {
		return query, err
	}
	return query, nil
}
