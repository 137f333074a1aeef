package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/eduboard-api/api/swagger"
	"github.com/noah-isme/eduboard-api/internal/handler"
	"github.com/noah-isme/eduboard-api/internal/repository"
	"github.com/noah-isme/eduboard-api/internal/service"
	"github.com/noah-isme/eduboard-api/pkg/cache"
	"github.com/noah-isme/eduboard-api/pkg/config"
	"github.com/noah-isme/eduboard-api/pkg/database"
	"github.com/noah-isme/eduboard-api/pkg/jobs"
	"github.com/noah-isme/eduboard-api/pkg/logger"
)

// @title EduBoard API
// @version 1.0.0
// @description Role based learning dashboards with weak-topic analytics.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.String("driver", database.DriverName(cfg.Database)), zap.Error(err))
	}
	defer db.Close()

	redisClient, redisErr := cache.NewRedis(cfg.Redis)
	if redisErr != nil {
		// Dashboards still work uncached; readiness reports the outage.
		logr.Warn("redis unavailable, caching disabled", zap.Error(redisErr))
	} else {
		defer redisClient.Close()
	}

	metrics := service.NewMetricsService()
	app := buildApp(cfg, logr, db, redisClient, redisErr, metrics)

	app.queue.Start(ctx)
	defer app.queue.Stop()

	router := newRouter(ctx, cfg, logr, app)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

type app struct {
	queue     *jobs.Queue
	auth      *service.AuthService
	dashboard *handler.DashboardHandler
	courses   *handler.CourseHandler
	analytics *handler.AnalyticsHandler
	metrics   *handler.MetricsHandler
	observer  *service.MetricsService
}

// cacheBackend returns the cache repository and its readiness check. Without a
// client the check keeps failing with the boot error.
func cacheBackend(client *redis.Client, bootErr error) (service.CacheRepository, handler.Pinger) {
	if client == nil {
		if bootErr == nil {
			bootErr = errors.New("redis client not configured")
		}
		return nil, handler.PingFunc(func(context.Context) error { return bootErr })
	}
	repo := repository.NewCacheRepository(client)
	return repo, repo
}

func buildApp(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, redisClient *redis.Client, redisErr error, metrics *service.MetricsService) *app {
	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	attemptRepo := repository.NewQuizAttemptRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	cacheRepo, cacheCheck := cacheBackend(redisClient, redisErr)
	checks := map[string]handler.Pinger{
		"database": handler.PingFunc(db.PingContext),
		"cache":    cacheCheck,
	}
	dashboardCache := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.Enabled)
	analyticsCache := service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.Enabled)

	queue := jobs.NewQueue("background", jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.Retries,
		Logger:     logr,
		Observer:   metrics.ObserveJob,
	})
	queue.Register(service.JobCacheInvalidate, service.CacheInvalidationHandler(dashboardCache))

	authSvc := service.NewAuthService(profileRepo, logr, service.AuthConfig{
		Secret:         cfg.JWT.Secret,
		Issuer:         cfg.JWT.Issuer,
		Expiration:     cfg.JWT.Expiration,
		AllowClaimRole: cfg.Env != config.EnvProduction,
	})
	courseSvc := service.NewCourseService(courseRepo, queue, validate, logr)
	analyticsSvc := service.NewAnalyticsService(service.AnalyticsServiceParams{
		Attempts:    attemptRepo,
		Leaderboard: leaderboardRepo,
		Cache:       analyticsCache,
		Metrics:     metrics,
		Validator:   validate,
		Logger:      logr,
		Config: service.AnalyticsConfig{
			CacheTTL:         cfg.Analytics.CacheTTL,
			PassThreshold:    cfg.Analytics.PassThreshold,
			MaxWeakTopics:    cfg.Analytics.MaxWeakTopics,
			AttemptFeedLimit: cfg.Analytics.AttemptFeedLimit,
			LeaderboardLimit: cfg.Dashboard.LeaderboardLimit,
		},
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Courses:     courseRepo,
		Profiles:    profileRepo,
		Attempts:    attemptRepo,
		Leaderboard: leaderboardRepo,
		Cache:       dashboardCache,
		Metrics:     metrics,
		Logger:      logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:            cfg.Dashboard.CacheTTL,
			StudentCourseLimit:  cfg.Dashboard.StudentCourseLimit,
			LeaderboardLimit:    cfg.Dashboard.LeaderboardLimit,
			RecentStudentsLimit: cfg.Dashboard.RecentStudentsLimit,
			RecentActivityLimit: cfg.Dashboard.RecentActivityLimit,
			AttemptFeedLimit:    cfg.Analytics.AttemptFeedLimit,
			PassThreshold:       cfg.Analytics.PassThreshold,
			MaxWeakTopics:       cfg.Analytics.MaxWeakTopics,
		},
	})

	return &app{
		queue:     queue,
		auth:      authSvc,
		dashboard: handler.NewDashboardHandler(dashboardSvc),
		courses:   handler.NewCourseHandler(courseSvc),
		analytics: handler.NewAnalyticsHandler(analyticsSvc, service.NewExportService(logr)),
		metrics:   handler.NewMetricsHandler(metrics, checks),
		observer:  metrics,
	}
}
