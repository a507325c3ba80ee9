package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"feedback-service/internal/config"
	"feedback-service/internal/db"
	"feedback-service/internal/events"
	"feedback-service/internal/feedback"
	"feedback-service/internal/health"
	"feedback-service/internal/kafka"
	"feedback-service/internal/logger"
	"feedback-service/internal/messaging"
	"feedback-service/internal/metrics"
	"feedback-service/internal/middleware"
	"feedback-service/internal/session"
	"feedback-service/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

const (
	serviceName    = "feedback-service"
	serviceVersion = "1.0.0"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	database  *bun.DB
	publisher events.Publisher
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(serviceName, serviceVersion)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	app.database = db.New(cfg.Database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, app.database); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	rdb, err := session.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("failed to connect to redis:", err)
	}
	sessions := session.NewRedisStore(rdb)

	app.publisher = newPublisher(cfg.Events, slogLogger)

	m, err := metrics.New(otel.Meter(serviceName))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = metrics.NewMock()
	}

	// Apply CORS middleware globally
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	// Stores and services
	userRepo := user.NewRepository(app.database)
	feedbackRepo := feedback.NewRepository(app.database)
	userService := user.NewService(app.database, userRepo, feedbackRepo)
	feedbackService := feedback.NewService(feedbackRepo)

	userHandler := user.NewHandler(userService, feedbackService, sessions, slogLogger, m, app.publisher)
	feedbackHandler := feedback.NewHandler(feedbackService, slogLogger, m, app.publisher)

	// Credential endpoints (anonymous)
	userHandler.RegisterAuthRoutes(app.router)

	// Everything under /api requires a valid session
	app.router.Route("/api", func(r chi.Router) {
		r.Use(session.Middleware(sessions, slogLogger))
		userHandler.RegisterRoutes(r)
		feedbackHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app
}

// newPublisher builds the configured event backend. A broker that is down
// degrades to no events rather than preventing startup.
func newPublisher(cfg config.EventsConfig, logger *slog.Logger) events.Publisher {
	switch cfg.Backend {
	case "nats":
		producer, err := messaging.NewProducer(cfg.NATSURL, cfg.Subject, logger)
		if err != nil {
			logger.Warn("failed to initialize NATS producer", "error", err)
			return nil
		}
		return producer
	case "kafka":
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Warn("failed to initialize kafka producer", "error", err)
			return nil
		}
		return producer
	default:
		logger.Info("domain events disabled")
		return nil
	}
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("failed to close event publisher", "error", err)
		}
	}
	db.Close(a.database)

	return a.server.Shutdown(ctx)
}
