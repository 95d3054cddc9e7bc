// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "wealthpath-admin/internal/api"
	"wealthpath-admin/internal/api/handler"
	"wealthpath-admin/internal/config"
	"wealthpath-admin/internal/events"
	"wealthpath-admin/internal/repository"
	"wealthpath-admin/internal/repository/postgres"
	"wealthpath-admin/internal/service"
	"wealthpath-admin/internal/util"
	"wealthpath-admin/pkg/db"
	"wealthpath-admin/web"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	TransactionRepository repository.TransactionRepository

	// Events
	Publisher events.Publisher

	// Services
	AdminService service.AdminService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: slog.Default()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "log_level", cfg.LogLevel)

	// 3. Connect to Database and migrate
	database, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if cfg.Migrate {
		if err := db.RunMigrations(cfg.DB); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Logger.Info("Database migrations applied.")
	}

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()

	// 5. Connect the event publisher
	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("failed to connect event publisher: %w", err)
		}
		app.Publisher = publisher
		app.Logger.Info("Event publisher connected.", "exchange", cfg.AMQPExchange)
	} else {
		app.Publisher = events.NoopPublisher{}
		app.Logger.Info("AMQP_URL not set, user events will not be published.")
	}

	// 6. Initialize Services
	app.AdminService = service.NewAdminService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.TransactionRepository,
		app.Publisher,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)

	// 7. Initialize HTTP Handlers and Router
	renderer, err := handler.NewRenderer(web.TemplatesFS)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	adminHandler := handler.NewAdminHandler(app.AdminService, renderer, app.Logger, cfg.PageSize)

	opts := router.Options{AllowedOrigins: cfg.AllowedOrigins}
	switch {
	case cfg.AdminPassHash != "":
		opts.Username = cfg.AdminUsername
		opts.PasswordHash = []byte(cfg.AdminPassHash)
	case cfg.AdminPassword != "":
		opts.Credentials = map[string]string{cfg.AdminUsername: cfg.AdminPassword}
	}
	app.HTTPHandler = router.NewRouter(adminHandler, opts, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.", "auth", cfg.AuthEnabled())

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			app.Logger.Warn("Failed to close event publisher", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
