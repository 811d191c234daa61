// Package server wires the timecheck server together: database, services
// and the gRPC and HTTP surfaces, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/timecheck/internal/logging"
	"github.com/dmitrijs2005/timecheck/internal/server/config"
	gs "github.com/dmitrijs2005/timecheck/internal/server/grpc"
	"github.com/dmitrijs2005/timecheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/timecheck/internal/server/rest"
	"github.com/dmitrijs2005/timecheck/internal/server/services"
)

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

var logOutput io.Writer = os.Stdout

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	userService   *services.UserService
	syncService   *services.SyncService
	exportService *services.ExportService
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON(logOutput, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		repomanager:   rm,
		userService:   services.NewUserService(db, rm, c),
		syncService:   services.NewSyncService(db, rm, logger),
		exportService: services.NewExportService(db, rm, c),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) prepareDB(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	return app.repomanager.RunMigrations(ctx, app.db)
}

// Run starts both servers and blocks until ctx is canceled, a signal
// arrives or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	app.logger.Info(ctx, "Starting app...")

	defer app.db.Close()

	if err := app.prepareDB(ctx); err != nil {
		return err
	}

	grpcSrv := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.syncService, app.exportService)
	httpSrv := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, grpcSrv, app.userService)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := grpcSrv.Run(ctx); err != nil {
			app.logger.Error(ctx, "gRPC server failed", "error", err)
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := httpSrv.Run(ctx); err != nil {
			app.logger.Error(ctx, "HTTP server failed", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
	return nil
}
