package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appevents "github.com/avaliaai/backend/internal/application/events"
	appfeedback "github.com/avaliaai/backend/internal/application/feedback"
	appidentity "github.com/avaliaai/backend/internal/application/identity"
	"github.com/avaliaai/backend/internal/infrastructure/auth"
	"github.com/avaliaai/backend/internal/infrastructure/config"
	"github.com/avaliaai/backend/internal/infrastructure/event"
	"github.com/avaliaai/backend/internal/infrastructure/logger"
	"github.com/avaliaai/backend/internal/infrastructure/persistence"
	"github.com/avaliaai/backend/internal/infrastructure/realtime"
	"github.com/avaliaai/backend/internal/infrastructure/scheduler"
	"github.com/avaliaai/backend/internal/infrastructure/storage"
	"github.com/avaliaai/backend/internal/infrastructure/telemetry"
	"github.com/avaliaai/backend/internal/interfaces/http/handler"
	"github.com/avaliaai/backend/internal/interfaces/http/middleware"
	"github.com/avaliaai/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Avalia Aí backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing, when a collector is configured
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	ownerRequestRepo := persistence.NewGormOwnerRequestRepository(db.DB)
	resetRepo := persistence.NewGormPasswordResetRepository(db.DB)
	eventRepo := persistence.NewGormEventRepository(db.DB)
	occurrenceRepo := persistence.NewGormOccurrenceRepository(db.DB)
	voteRepo := persistence.NewGormVoteRepository(db.DB)
	ratingRepo := persistence.NewGormRatingRepository(db.DB)
	favoriteRepo := persistence.NewGormFavoriteRepository(db.DB)

	// Token issuing and revocation. Redis keeps revocations shared
	// across instances; the in-memory store covers single-node setups.
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
		log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Object storage for cover images and owner proof documents
	objectStorage, err := storage.New(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize application services
	authService := appidentity.NewAuthService(profileRepo, resetRepo, jwtService, tokenBlacklist, log)
	profileService := appidentity.NewProfileService(profileRepo, voteRepo, ratingRepo, favoriteRepo, resetRepo, tokenBlacklist, jwtService, log)
	ownerRequestService := appidentity.NewOwnerRequestService(ownerRequestRepo, profileRepo, db.DB, objectStorage, cfg.Storage, log)
	eventService := appevents.NewEventService(eventRepo, occurrenceRepo, voteRepo, ratingRepo, objectStorage, cfg.Storage, log)
	occurrenceService := appevents.NewOccurrenceService(eventRepo, occurrenceRepo, log)
	feedbackService := appfeedback.NewFeedbackService(occurrenceRepo, voteRepo, ratingRepo, log)
	favoriteService := appfeedback.NewFavoriteService(favoriteRepo, eventRepo, log)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	eventService.SetEventPublisher(eventBus)
	occurrenceService.SetEventPublisher(eventBus)
	feedbackService.SetEventPublisher(eventBus)
	favoriteService.SetEventPublisher(eventBus)
	ownerRequestService.SetEventPublisher(eventBus)

	// Realtime hub pushes change cues to websocket subscribers
	var hub *realtime.Hub
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(cfg.Realtime, log)
		defer hub.Close()
		bridge := realtime.NewEventBridge(hub)
		eventBus.Subscribe(bridge)
		log.Info("Realtime hub started")
	}

	// Occurrence materializer turns recurring schedules into rows
	materializer := scheduler.NewMaterializer(cfg.Scheduler, eventRepo, occurrenceRepo, log)
	if cfg.Scheduler.Enabled {
		if err := materializer.Start(context.Background()); err != nil {
			log.Fatal("Failed to start occurrence materializer", zap.Error(err))
		}
		defer func() {
			if err := materializer.Stop(context.Background()); err != nil {
				log.Error("Error stopping occurrence materializer", zap.Error(err))
			}
		}()
		log.Info("Occurrence materializer started",
			zap.Duration("interval", cfg.Scheduler.Interval),
			zap.Int("horizon_days", cfg.Scheduler.HorizonDays),
		)
	}
	// Schedule changes re-materialize immediately, ahead of the next tick
	scheduleListener := scheduler.NewScheduleListener(materializer, log)
	eventBus.Subscribe(scheduleListener)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	profileHandler := handler.NewProfileHandler(profileService)
	ownerRequestHandler := handler.NewOwnerRequestHandler(ownerRequestService)
	eventHandler := handler.NewEventHandler(eventService)
	occurrenceHandler := handler.NewOccurrenceHandler(occurrenceService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)
	systemHandler := handler.NewSystemHandler()

	// Reset tokens are not mailed yet; surface them in the log so
	// operators can relay them manually in non-production setups.
	// TODO: replace with an SMTP sink once the mail provider is chosen.
	authHandler.SetResetTokenSink(func(email, token string, expiresAt time.Time) {
		log.Debug("Password reset token issued",
			zap.String("email", email),
			zap.String("token", token),
			zap.Time("expires_at", expiresAt),
		)
	})

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Websocket feed, outside the versioned API like /health
	if hub != nil {
		realtimeHandler := handler.NewRealtimeHandler(hub, cfg.HTTP.CORSAllowOrigins, log)
		engine.GET("/ws/occurrences/:id", realtimeHandler.Subscribe)
	}

	// Authentication middleware, strict and optional flavors
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	}
	authRequired := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)
	authOptional := middleware.OptionalJWTAuthMiddleware(jwtConfig)
	ownerOnly := middleware.RequireEventManager()
	adminOnly := middleware.RequireAdmin()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Auth: public entry points plus the two token-bound operations
	authRoutes := router.NewGroup("auth", "/auth")
	authRoutes.POST("/signup", authHandler.Signup)
	authRoutes.POST("/signin", authHandler.Signin)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/password-reset/request", authHandler.RequestPasswordReset)
	authRoutes.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	authRoutes.POST("/signout", authRequired, authHandler.Signout)
	authRoutes.GET("/me", authRequired, authHandler.Me)

	// Profile self-service
	profileRoutes := router.NewGroup("profile", "/profile")
	profileRoutes.Use(authRequired)
	profileRoutes.GET("", profileHandler.Get)
	profileRoutes.PATCH("", profileHandler.Update)
	profileRoutes.PUT("/email", profileHandler.ChangeEmail)
	profileRoutes.PUT("/password", profileHandler.ChangePassword)
	profileRoutes.DELETE("", profileHandler.Delete)

	// Discovery: public occurrence and event reads. The feedback read
	// is optionally authenticated so signed-in callers get their own
	// selections back.
	discoveryRoutes := router.NewGroup("discovery", "")
	discoveryRoutes.GET("/occurrences", occurrenceHandler.List)
	discoveryRoutes.GET("/occurrences/:id", occurrenceHandler.Get)
	discoveryRoutes.GET("/occurrences/:id/feedback", authOptional, feedbackHandler.GetFeedback)
	discoveryRoutes.GET("/events/:id", authOptional, eventHandler.GetOrMine)
	discoveryRoutes.GET("/events/:id/stats", eventHandler.Stats)
	discoveryRoutes.GET("/events/:id/ratings/recent", eventHandler.RecentRatings)

	// Event management, owner and admin only
	managementRoutes := router.NewGroup("management", "")
	managementRoutes.Use(authRequired, ownerOnly)
	managementRoutes.POST("/events", eventHandler.Create)
	managementRoutes.PUT("/events/:id", eventHandler.Update)
	managementRoutes.DELETE("/events/:id", eventHandler.Delete)
	managementRoutes.POST("/events/:id/cover", eventHandler.UploadCover)
	managementRoutes.DELETE("/occurrences/:id", occurrenceHandler.Delete)

	// Live feedback writes
	feedbackRoutes := router.NewGroup("feedback", "/occurrences")
	feedbackRoutes.Use(authRequired)
	feedbackRoutes.PUT("/:id/vote", feedbackHandler.CastVote)
	feedbackRoutes.PUT("/:id/ratings/:key", feedbackHandler.SubmitRating)

	// Favorites
	favoriteRoutes := router.NewGroup("favorites", "/favorites")
	favoriteRoutes.Use(authRequired)
	favoriteRoutes.PUT("/:eventID", favoriteHandler.Add)
	favoriteRoutes.DELETE("/:eventID", favoriteHandler.Remove)
	favoriteRoutes.GET("", favoriteHandler.List)

	// Owner requests: self-service plus the admin review queue
	ownerRequestRoutes := router.NewGroup("owner-requests", "/owner-requests")
	ownerRequestRoutes.Use(authRequired)
	ownerRequestRoutes.POST("", ownerRequestHandler.Submit)
	ownerRequestRoutes.POST("/proof", ownerRequestHandler.UploadProof)
	ownerRequestRoutes.GET("/mine", ownerRequestHandler.Mine)

	adminRoutes := router.NewGroup("admin", "/admin")
	adminRoutes.Use(authRequired, adminOnly)
	adminRoutes.GET("/owner-requests", ownerRequestHandler.List)
	adminRoutes.POST("/owner-requests/:id/approve", ownerRequestHandler.Approve)
	adminRoutes.POST("/owner-requests/:id/reject", ownerRequestHandler.Reject)

	systemRoutes := router.NewGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(profileRoutes).
		Register(discoveryRoutes).
		Register(managementRoutes).
		Register(feedbackRoutes).
		Register(favoriteRoutes).
		Register(ownerRequestRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
