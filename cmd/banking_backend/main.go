package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	portsrepo "github.com/corebank/banking_backend/internal/core/ports/repositories"
	portssvc "github.com/corebank/banking_backend/internal/core/ports/services"
	"github.com/corebank/banking_backend/internal/core/services"
	"github.com/corebank/banking_backend/internal/handlers"
	"github.com/corebank/banking_backend/internal/middleware"
	"github.com/corebank/banking_backend/internal/repositories/database/pgsql"
	"github.com/corebank/banking_backend/internal/repositories/memory"
	"github.com/corebank/banking_backend/pkg/config"
	"github.com/corebank/banking_backend/pkg/database"
	"github.com/corebank/banking_backend/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Choose the ledger store: PostgreSQL when configured, otherwise the
	// in-process store for local development.
	var (
		store    portsrepo.LedgerStore
		userRepo portsrepo.UserRepository
	)
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established")

		if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pgStore := pgsql.NewStore(dbPool)
		store = pgStore
		userRepo = pgsql.NewPgxUserRepository(dbPool)
	} else {
		logger.Warn("PGSQL_URL not set; using in-memory store, data will not survive restarts")
		memStore := memory.NewStore()
		store = memStore
		userRepo = memStore
	}

	collector := metrics.NewCollector()

	serviceContainer := &portssvc.ServiceContainer{
		Ledger: services.NewLedgerService(store, collector),
		Auth:   services.NewAuthService(userRepo, store),
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	r.GET("/metrics", gin.WrapH(collector.Handler()))

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory using a temporary database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply")
	} else {
		logger.Info("Database migrations applied successfully")
	}
	return nil
}
