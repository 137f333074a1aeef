package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/eduboard-api/pkg/errors"
	"github.com/noah-isme/eduboard-api/pkg/response"
)

// FeatureFlag hides a route group behind a configuration switch.
func FeatureFlag(name string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, name+" is disabled"))
			c.Abort()
			return
		}
		c.Next()
	}
}
