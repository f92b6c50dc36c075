package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/auth"
	"github.com/frahmantamala/bill-tracking/internal/billserver"
	billserverPostgres "github.com/frahmantamala/bill-tracking/internal/billserver/postgres"
	"github.com/frahmantamala/bill-tracking/internal/transport"
	"github.com/frahmantamala/bill-tracking/internal/transport/rest"
	"github.com/frahmantamala/bill-tracking/internal/transport/swagger"
	"github.com/frahmantamala/bill-tracking/pkg/logger"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the bill service",
	Long:  `Start the HTTP bill service the workflow commands talk to`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

type serverDeps struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startServer() {
	deps, err := initServerDeps()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting bill service", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initServerDeps() (*serverDeps, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	log := logger.L()

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		return nil, err
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	receipts, err := billserver.NewLocalReceiptStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize receipt store: %w", err)
	}

	repo := billserverPostgres.NewBillRepository(gormDB)
	service := billserver.NewService(repo, receipts, log)
	handler := billserver.NewHandler(transport.NewBaseHandler(log), service, cfg.Uploads.MaxBytes)
	tokens := auth.NewTokenManager(cfg.Session.TokenSecret, cfg.Session.TokenTTL)

	router := chi.NewRouter()
	rest.RegisterRoutes(router, db.DB, handler, tokens, cfg.Uploads.Dir, log)

	return &serverDeps{
		Config: cfg,
		DB:     db,
		Router: router,
		Logger: log,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
