// Package server initializes and runs the FoamDesk server: configuration,
// database handle, repositories, services, and the HTTP API, with graceful
// shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sprayworks/foamdesk/internal/logging"
	"github.com/sprayworks/foamdesk/internal/server/config"
	fdhttp "github.com/sprayworks/foamdesk/internal/server/http"
	"github.com/sprayworks/foamdesk/internal/server/repositories/repomanager"
	"github.com/sprayworks/foamdesk/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

// NewApp wires the application together. A missing or unusable database DSN
// is logged and leaves the app in a degraded mode where every operation
// fails soft; the process still serves its API instead of exiting.
func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	ctx := context.Background()

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "database not configured, persistence disabled", "error", err)
		db = nil
	}

	rm := repomanager.NewPostgresRepositoryManager()

	if db != nil {
		if err := rm.RunMigrations(ctx, db); err != nil {
			logger.Error(ctx, "migration error", "error", err)
		}
	}

	resolver := services.NewAccountService(db, rm, cfg, logger)
	customerSvc := services.NewCustomerService(db, rm, resolver, logger)
	estimateSvc := services.NewEstimateService(db, rm, resolver, logger)
	inventorySvc := services.NewInventoryService(db, rm, resolver, logger)
	settingsSvc := services.NewSettingsService(db, rm, resolver, logger)
	backupSvc := services.NewBackupService(db, rm, resolver,
		customerSvc, estimateSvc, inventorySvc, settingsSvc, cfg, logger)

	if db != nil {
		if err := inventorySvc.EnsureSeeded(ctx); err != nil {
			logger.Error(ctx, "inventory seeding error", "error", err)
		}
	}

	handler := fdhttp.NewHandler(resolver, customerSvc, estimateSvc, inventorySvc, settingsSvc, backupSvc, logger)
	router := fdhttp.NewRouter(handler)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until the context is canceled or a termination
// signal arrives, then shuts the server down gracefully.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err)
	}

	if app.db != nil {
		_ = app.db.Close()
	}

	app.logger.Info(context.Background(), "app stopped")
}
