package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gaanavykhari/studio-api/api/swagger"
	"github.com/gaanavykhari/studio-api/internal/handler"
	"github.com/gaanavykhari/studio-api/internal/repository"
	"github.com/gaanavykhari/studio-api/internal/service"
	"github.com/gaanavykhari/studio-api/pkg/cache"
	"github.com/gaanavykhari/studio-api/pkg/config"
	"github.com/gaanavykhari/studio-api/pkg/database"
	"github.com/gaanavykhari/studio-api/pkg/logger"
	corsmiddleware "github.com/gaanavykhari/studio-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gaanavykhari/studio-api/pkg/middleware/requestid"
)

// @title GaanaVykhari Studio API
// @version 1.0.0
// @description Recurring-session scheduling backend for the tutoring studio
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, holiday lookups fall back to storage", "error", err)
	}

	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	var holidayCache service.HolidayCache
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close()
		holidayCache = cacheRepo
	}

	metrics := service.NewMetricsService()

	holidaySvc := service.NewHolidayService(holidayRepo, sessionRepo, studentRepo, holidayCache, cfg.Schedule.HolidayCacheTTL, logr)
	holidaySvc.SetMetrics(metrics)

	scheduleSvc := service.NewScheduleService(studentRepo, sessionRepo, holidaySvc, cfg.Schedule.UpcomingLimit, logr)
	scheduleSvc.SetMetrics(metrics)

	notificationSvc := service.NewNotificationService(notificationRepo, cfg.Notifications, logr)
	notificationSvc.Start(context.Background())
	defer notificationSvc.Stop()

	studentSvc := service.NewStudentService(studentRepo, nil, logr)
	sessionSvc := service.NewSessionService(sessionRepo, studentRepo, notificationSvc, nil, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, studentRepo, nil, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, sessionRepo, paymentRepo, logr)

	studentHandler := handler.NewStudentHandler(studentSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	holidayHandler := handler.NewHolidayHandler(holidaySvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, cfg.Exports.Enabled)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metrics.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		students := api.Group("/students")
		students.GET("", studentHandler.List)
		students.POST("", studentHandler.Create)
		students.GET("/:id", studentHandler.Get)
		students.PUT("/:id", studentHandler.Update)
		students.DELETE("/:id", studentHandler.Delete)
		students.GET("/:id/notifications", notificationHandler.ListByStudent)

		sessions := api.Group("/sessions")
		sessions.GET("", sessionHandler.List)
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.PUT("/:id", sessionHandler.Update)
		sessions.PATCH("/:id/status", sessionHandler.UpdateStatus)
		sessions.POST("/:id/reschedule", sessionHandler.Reschedule)
		sessions.DELETE("/:id", sessionHandler.Delete)

		holidays := api.Group("/holidays")
		holidays.GET("", holidayHandler.List)
		holidays.POST("", holidayHandler.Create)
		holidays.DELETE("/:id", holidayHandler.Delete)

		schedule := api.Group("/schedule")
		schedule.GET("/day", scheduleHandler.Day)
		schedule.GET("/today", scheduleHandler.Today)
		schedule.GET("/upcoming", scheduleHandler.Upcoming)

		payments := api.Group("/payments")
		payments.GET("", paymentHandler.List)
		payments.POST("", paymentHandler.Create)
		payments.GET("/export", paymentHandler.Export)
		payments.GET("/:id", paymentHandler.Get)
		payments.PUT("/:id", paymentHandler.Update)
		payments.POST("/:id/pay", paymentHandler.MarkPaid)
		payments.DELETE("/:id", paymentHandler.Delete)

		dashboard := api.Group("/dashboard")
		dashboard.GET("", dashboardHandler.Summary)
		dashboard.GET("/students/:id", dashboardHandler.StudentStats)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
