// Package server wires the TaskKeeper server together: storage, services,
// the HTTP API and the gRPC health endpoint, plus graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/cache"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/rest"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/dmitrijs2005/taskkeeper/internal/telemetry"

	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	closers     []io.Closer
	shutdownOT  func(context.Context) error
	userService *services.UserService
	taskService *services.TaskService
	tokens      *auth.TokenService
}

// NewApp opens storage, runs migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	shutdownOT, err := telemetry.Setup(ctx, telemetry.ServiceName, c.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}
	app.shutdownOT = shutdownOT

	rm, err := openRepositories(ctx, c.DatabaseDSN)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.repomanager = rm
	app.closers = append(app.closers, rm)

	if err := rm.RunMigrations(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	var taskCache cache.TaskListCache = cache.Nop{}
	if c.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, c.RedisAddr)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, rdb)
		taskCache = cache.NewRedisCache(rdb, c.TaskCacheTTL)
	}

	app.tokens = auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration, nil)
	app.userService = services.NewUserService(rm, app.tokens, c.BcryptCost, logger)
	app.taskService = services.NewTaskService(rm, taskCache, logger)

	return app, nil
}

func openRepositories(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == config.MemoryDSN {
		return repomanager.NewMemoryRepositoryManager(nil), nil
	}
	return repomanager.NewPostgresRepositoryManager(ctx, dsn)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.taskService, app.tokens)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(context.Background(), "close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}

// Close releases storage, cache and telemetry resources.
func (app *App) Close() error {
	var firstErr error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	app.closers = nil
	if app.shutdownOT != nil {
		if err := app.shutdownOT(context.Background()); err != nil && firstErr == nil {
			firstErr = err
		}
		app.shutdownOT = nil
	}
	return firstErr
}
