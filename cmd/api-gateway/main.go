package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/flashcoder237/oapet-schedule-api/api/swagger"
	"github.com/flashcoder237/oapet-schedule-api/internal/handler"
	"github.com/flashcoder237/oapet-schedule-api/internal/middleware"
	"github.com/flashcoder237/oapet-schedule-api/internal/repository"
	"github.com/flashcoder237/oapet-schedule-api/internal/service"
	"github.com/flashcoder237/oapet-schedule-api/pkg/cache"
	"github.com/flashcoder237/oapet-schedule-api/pkg/config"
	"github.com/flashcoder237/oapet-schedule-api/pkg/database"
	"github.com/flashcoder237/oapet-schedule-api/pkg/logger"
	corsmiddleware "github.com/flashcoder237/oapet-schedule-api/pkg/middleware/cors"
	reqidmiddleware "github.com/flashcoder237/oapet-schedule-api/pkg/middleware/requestid"
)

// @title OAPET Schedule API
// @version 0.1.0
// @description Timetable editing engine with live conflict detection
// @BasePath /
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	var store service.SessionStore
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Warnw("postgres unavailable, running in-memory only", "error", err)
	} else {
		defer db.Close() //nolint:errcheck
		store = repository.NewSessionRepository(db)
	}

	var events *service.EventPublisher
	if cfg.Events.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, event publishing disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			events = service.NewEventPublisher(redisClient, metrics, logr, service.EventPublisherConfig{
				ConflictPrefix: cfg.Events.ConflictPrefix,
				WeekPrefix:     cfg.Events.WeekPrefix,
				PublishTimeout: cfg.Events.PublishTimeout,
			})
		}
	}

	registry := service.NewEditorRegistry(ctx, func(scheduleID string) *service.ScheduleEditorService {
		callbacks := service.EditorCallbacks{
			OnConflictsChanged: func(ids []string) {
				logr.Sugar().Infow("conflicts changed", "schedule_id", scheduleID, "sessions", len(ids))
				events.PublishConflicts(scheduleID, ids)
			},
			OnWeekChange: func(weekStart, weekEnd time.Time) {
				events.PublishWeek(scheduleID, weekStart, weekEnd)
			},
		}
		return service.NewScheduleEditorService(scheduleID, store, callbacks, validate, logr, metrics, service.EditorConfig{
			Grid: service.WeekGridConfig{
				Days:         cfg.Editor.WeekDays,
				DayStartHour: cfg.Editor.DayStartHour,
				SlotCount:    cfg.Editor.SlotCount,
				SlotMinutes:  cfg.Editor.SlotMinutes,
			},
			Notifier: service.NotifierConfig{
				Workers:    cfg.Notifier.Workers,
				BufferSize: cfg.Notifier.BufferSize,
			},
			ReadOnly: cfg.Editor.ReadOnly,
		})
	})
	defer registry.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.NewEditorHandler(registry).Register(api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
