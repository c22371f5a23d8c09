package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"github.com/yukikurage/bugfree-api/internal/config"
	"github.com/yukikurage/bugfree-api/internal/constants"
	"github.com/yukikurage/bugfree-api/internal/database"
	"github.com/yukikurage/bugfree-api/internal/handlers"
	"github.com/yukikurage/bugfree-api/internal/logging"
	"github.com/yukikurage/bugfree-api/internal/middleware"
	"github.com/yukikurage/bugfree-api/internal/notification"
	"github.com/yukikurage/bugfree-api/internal/ratelimit"
	"github.com/yukikurage/bugfree-api/internal/repository"
	"github.com/yukikurage/bugfree-api/internal/services"
)

func main() {
	addr := pflag.String("addr", "", "listen address (overrides SERVER_ADDR)")
	envFile := pflag.String("env-file", ".env", "optional dotenv file to load")
	migrateOnly := pflag.Bool("migrate-only", false, "run database migrations and exit")
	pflag.Parse()

	// Load configuration
	cfg := config.Load(*envFile)
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		fatal(logger, "failed to connect to database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		fatal(logger, "failed to run migrations", err)
	}
	if *migrateOnly {
		logger.Info("migrations applied, exiting")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Mail delivery runs off the request path
	var mailer notification.Mailer = notification.NewLogMailer(logger)
	if cfg.Mail.SMTPHost != "" {
		mailer = notification.NewSMTPMailer(cfg.Mail)
	}
	dispatcher := notification.NewDispatcher(mailer, logger, notification.Options{
		QueueSize:   cfg.Mail.QueueSize,
		MaxAttempts: cfg.Mail.MaxAttempts,
	})
	dispatcher.Start(ctx)
	defer dispatcher.Close()
	notifier := notification.NewNotifier(dispatcher, logger, cfg.BaseURL)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize repositories and services
	db := database.GetDB()
	ticketRepo := repository.NewTicketRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	ticketService := services.NewTicketService(ticketRepo, userRepo, notifier, aiService)
	attachmentService := services.NewAttachmentService(ticketRepo, attachmentRepo)
	authService := services.NewAuthService(userRepo, notifier)
	projectService := services.NewProjectService(projectRepo, userRepo, notifier)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	uploadLimits := handlers.UploadLimits{
		MaxFileBytes:    int64(cfg.MaxUploadMB) << 20,
		MaxRequestBytes: int64(cfg.MaxRequestMB) << 20,
	}
	r.MaxMultipartMemory = uploadLimits.MaxFileBytes
	r.SetHTMLTemplate(handlers.Templates())

	// Setup session middleware
	store, err := newSessionStore(cfg)
	if err != nil {
		fatal(logger, "failed to create session store", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	router := &handlers.Router{
		Auth:        handlers.NewAuthHandler(authService, logger),
		Tickets:     handlers.NewTicketHandler(ticketService, attachmentService, logger, uploadLimits),
		Attachments: handlers.NewAttachmentHandler(attachmentService, logger, uploadLimits),
		Projects:    handlers.NewProjectHandler(projectService, logger),
		Pages:       handlers.NewPageHandler(ticketService, projectService, authService, logger),
	}

	// Rate limit auth endpoints when Redis is available
	if cfg.RateLimitEnabled {
		limiter, err := ratelimit.NewRedisLimiter(ctx, cfg.RedisAddr())
		if err != nil {
			logger.Warn("rate limiting disabled", "error", err)
		} else {
			defer limiter.Close()
			router.RateLimit = func(endpoint string) gin.HandlerFunc {
				return middleware.RateLimit(limiter, logger, endpoint, cfg.AuthRateLimit, constants.AuthRateLimitWindow)
			}
		}
	}

	router.Register(r)

	// Start server
	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionStore == "cookie" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	return redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		cfg.RedisAddr(),           // Redis address from config
		"",                        // username (empty for default user)
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
