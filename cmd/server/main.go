package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backlogapp "github.com/MAsTer0103-byte/eqb-platform/internal/application/backlog"
	clienteleapp "github.com/MAsTer0103-byte/eqb-platform/internal/application/clientele"
	documentapp "github.com/MAsTer0103-byte/eqb-platform/internal/application/document"
	identityapp "github.com/MAsTer0103-byte/eqb-platform/internal/application/identity"
	notificationapp "github.com/MAsTer0103-byte/eqb-platform/internal/application/notification"
	schedulingapp "github.com/MAsTer0103-byte/eqb-platform/internal/application/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/auth"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/config"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/logger"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/mail"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/persistence"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/scheduler"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/storage"
	"github.com/MAsTer0103-byte/eqb-platform/internal/interfaces/http/handler"
	"github.com/MAsTer0103-byte/eqb-platform/internal/interfaces/http/middleware"
	"github.com/MAsTer0103-byte/eqb-platform/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/MAsTer0103-byte/eqb-platform/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			EQB Platform API
//	@version		1.0
//	@description	Wellness practice management backend: appointments, client records, documents and backlog capacity accounting.

//	@contact.name	API Support
//	@contact.url	https://github.com/MAsTer0103-byte/eqb-platform

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting EQB Platform",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	entryRepo := persistence.NewGormBacklogEntryRepository(db.DB)
	recapRepo := persistence.NewGormRecapRepository(db.DB)

	// Token infrastructure. Redis backs the blacklist in normal deployments;
	// the in-memory fallback keeps single-node setups working without it.
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Object storage
	var objectStorage documentapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage("")
		log.Warn("Object storage disabled, documents are held in memory")
	}

	// Mail
	var sender mail.Sender
	if cfg.Mail.Enabled {
		sender = mail.NewSMTPSender(cfg.Mail)
		log.Info("SMTP sender configured", zap.String("host", cfg.Mail.Host))
	} else {
		sender = mail.NoopSender{}
		log.Warn("Mail disabled, notifications are dropped")
	}
	notifier := notificationapp.NewEmailNotifier(sender, log)

	// Application services
	userService := identityapp.NewUserService(userRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	clientService := clienteleapp.NewClientService(clientRepo, userRepo, appointmentRepo, log)
	documentService := documentapp.NewDocumentService(documentRepo, clientRepo, objectStorage, cfg.Storage.PresignExpiry, log)
	appointmentService := schedulingapp.NewAppointmentService(appointmentRepo, clientRepo, userRepo, notifier, log)
	aggregationService := backlogapp.NewAggregationService(appointmentRepo, entryRepo, recapRepo, cfg.Backlog.MonthlyCapacityHours, log)
	reportingService := backlogapp.NewReportingService(entryRepo, recapRepo, cfg.Backlog.MonthlyCapacityHours, log)
	reminderService := notificationapp.NewReminderService(appointmentRepo, clientRepo, notifier, cfg.Scheduler.ReminderInterval, log)
	statisticsService := identityapp.NewStatisticsService(userRepo, clientRepo, appointmentRepo, log)

	// Job queue and recurring triggers
	jobScheduler := scheduler.NewScheduler(scheduler.Config{
		MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
		QueueSize:         cfg.Scheduler.QueueSize,
		RetryAttempts:     cfg.Scheduler.RetryAttempts,
		RetryInitialDelay: cfg.Scheduler.RetryInitialDelay,
		FailureLogSize:    cfg.Scheduler.FailureLogSize,
	}, log)
	jobScheduler.Register(scheduler.JobTypeBacklogDate, aggregationService)
	jobScheduler.Register(scheduler.JobTypeAppointmentReminders, reminderService)

	if cfg.Scheduler.Enabled {
		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		dailyHour, dailyMinute, err := cfg.Scheduler.DailyRunTime()
		if err != nil {
			log.Fatal("Invalid daily run time", zap.Error(err))
		}
		cronTrigger := scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			DailyRunHour:     dailyHour,
			DailyRunMinute:   dailyMinute,
			CheckInterval:    cfg.Scheduler.CheckInterval,
			ReminderEnabled:  cfg.Scheduler.ReminderEnabled,
			ReminderInterval: cfg.Scheduler.ReminderInterval,
		}, jobScheduler, log)
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := cronTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
	} else {
		log.Warn("Scheduler disabled, backlog aggregation runs only on demand")
	}

	// HTTP handlers
	healthHandler := handler.NewHealthHandler(db, version)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, statisticsService)
	clientHandler := handler.NewClientHandler(clientService)
	documentHandler := handler.NewDocumentHandler(documentService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	backlogHandler := handler.NewBacklogHandler(reportingService, jobScheduler)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so every later stage can log it,
	// recovery before anything that can panic, auth last before routing.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", healthHandler.Health)

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	})

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtMiddleware)

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	adminRoutes.POST("/users", userHandler.Create)
	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.GET("/users/:id", userHandler.Get)
	adminRoutes.PUT("/users/:id", userHandler.Update)
	adminRoutes.DELETE("/users/:id", userHandler.Deactivate)
	adminRoutes.POST("/users/:id/activate", userHandler.Activate)
	adminRoutes.PUT("/users/:id/role", userHandler.ChangeRole)
	adminRoutes.PUT("/users/:id/password", userHandler.ResetPassword)
	adminRoutes.GET("/statistics", userHandler.Statistics)

	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.GET("/coworkers", userHandler.Coworkers)

	clientRoutes := router.NewDomainGroup("clients", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.Get)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Deactivate)
	clientRoutes.POST("/:id/reactivate", clientHandler.Reactivate)
	clientRoutes.GET("/:id/coworkers", clientHandler.Coworkers)
	clientRoutes.POST("/:id/coworkers", clientHandler.AssignCoworker)
	clientRoutes.DELETE("/:id/coworkers/:coworkerId", clientHandler.UnassignCoworker)
	clientRoutes.GET("/:id/statistics", clientHandler.Statistics)
	clientRoutes.POST("/:id/documents", documentHandler.Upload)
	clientRoutes.GET("/:id/documents", documentHandler.List)

	documentRoutes := router.NewDomainGroup("documents", "/documents")
	documentRoutes.GET("/:id/download", documentHandler.DownloadLink)
	documentRoutes.DELETE("/:id", documentHandler.Delete)

	appointmentRoutes := router.NewDomainGroup("appointments", "/appointments")
	appointmentRoutes.POST("", appointmentHandler.Book)
	appointmentRoutes.GET("", appointmentHandler.List)
	appointmentRoutes.GET("/:id", appointmentHandler.Get)
	appointmentRoutes.POST("/:id/complete", appointmentHandler.Complete)
	appointmentRoutes.POST("/:id/cancel", appointmentHandler.Cancel)
	appointmentRoutes.POST("/:id/reschedule", appointmentHandler.Reschedule)

	backlogRoutes := router.NewDomainGroup("backlog", "/backlog")
	backlogRoutes.GET("/entries", backlogHandler.Entries)
	backlogRoutes.GET("/statistics", backlogHandler.Statistics)
	backlogRoutes.GET("/recaps", backlogHandler.Recaps)
	backlogRoutes.GET("/recaps/:year/:month", backlogHandler.Recap)
	backlogRoutes.GET("/capacity", backlogHandler.Capacity)
	backlogRoutes.POST("/process", middleware.RequireAdmin(), backlogHandler.Process)
	backlogRoutes.GET("/failures", middleware.RequireAdmin(), backlogHandler.Failures)

	r.Register(authRoutes).
		Register(adminRoutes).
		Register(userRoutes).
		Register(clientRoutes).
		Register(documentRoutes).
		Register(appointmentRoutes).
		Register(backlogRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
