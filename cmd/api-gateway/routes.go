package main

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/eduboard-api/internal/middleware"
	"github.com/noah-isme/eduboard-api/internal/models"
	"github.com/noah-isme/eduboard-api/pkg/config"
	"github.com/noah-isme/eduboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/eduboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/eduboard-api/pkg/middleware/requestid"
)

func newRouter(ctx context.Context, cfg *config.Config, logr *zap.Logger, a *app) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(a.observer))

	r.GET("/health", a.metrics.Health)
	r.GET("/ready", a.metrics.Ready)
	r.GET("/metrics", a.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimiter(ctx, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.JWT(a.auth))

	staff := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)
	admin := middleware.RequireRoles(models.RoleAdmin)

	dashboard := api.Group("/dashboard", middleware.FeatureFlag("dashboard", cfg.Dashboard.Enabled))
	dashboard.GET("", a.dashboard.Mine)
	dashboard.GET("/student", middleware.RequireRoles(models.RoleStudent), a.dashboard.Student)
	dashboard.GET("/teacher", staff, a.dashboard.Teacher)
	dashboard.GET("/admin", admin, a.dashboard.Admin)

	api.GET("/leaderboard", a.analytics.Leaderboard)

	courses := api.Group("/courses")
	courses.GET("", a.courses.List)
	courses.GET("/:id", a.courses.Get)
	courses.POST("", admin, a.courses.Create)
	courses.PATCH("/:id/status", admin, a.courses.UpdateStatus)
	courses.DELETE("/:id", admin, a.courses.Delete)

	analytics := api.Group("/analytics", middleware.FeatureFlag("analytics", cfg.Analytics.Enabled))
	analytics.GET("/weak-topics", staff, a.analytics.WeakTopics)
	analytics.POST("/weak-topics", staff, a.analytics.AnalyzeWeakTopics)
	analytics.GET("/weak-topics/export", staff, a.analytics.ExportWeakTopics)
	analytics.GET("/system", admin, a.analytics.System)

	return r
}
