package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/eduboard-api/internal/middleware"
	"github.com/noah-isme/eduboard-api/internal/models"
	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
	"github.com/noah-isme/eduboard-api/pkg/response"
)

func principalFromContext(c *gin.Context) (*models.Principal, error) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return principal, nil
}

// queryInt parses an optional integer query parameter. Absent values yield def;
// malformed ones are a validation error rather than a silent default.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+key+" parameter")
	}
	return val, nil
}

func queryFloat(c *gin.Context, key string) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+key+" parameter")
	}
	return val, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+key+" parameter")
	}
	return &val, nil
}

// respondWithMeta writes data with the cache-hit flag and processing time.
func respondWithMeta(c *gin.Context, data interface{}, cacheHit bool, start time.Time) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta[middleware.MetaProcessingTime] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}
