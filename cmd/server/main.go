// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "attendance-service/docs"
	"attendance-service/internal/broadcast"
	"attendance-service/internal/config"
	"attendance-service/internal/lecture"
	"attendance-service/internal/model"
	"attendance-service/internal/reader"
	"attendance-service/internal/registry"
	"attendance-service/internal/routes"
	"attendance-service/internal/session"
	"attendance-service/internal/sink"
	"attendance-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server

	sinkClient  *sink.Client
	store       *registry.Store
	schedule    *lecture.Schedule
	manager     *session.Manager
	broadcaster *broadcast.Broadcaster
	supervisor  *reader.Supervisor

	// Lifecycle of the reader supervisor and everything derived from it
	readerCtx  context.Context
	stopReader context.CancelFunc
	readerDone chan struct{}
}

// @title Attendance Service API
// @version 1.0.0
// @description RFID attendance service bridging serial card readers to an external attendance sink
// @termsOfService http://swagger.io/terms/

// @contact.name Attendance Service API Support
// @contact.email support@attendanceservice.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5001
// @BasePath /api/v1
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "attendance-service")
	serviceLogger.LogServiceStart(cfg.App.Version)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	if err := app.initializeServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initializeComponents wires the sink client, registry, lecture schedule,
// session manager, broadcaster, and reader supervisor
func (app *Application) initializeComponents() error {
	app.sinkClient = sink.NewClient(&app.config.Sink, app.logger)

	app.store = registry.NewStore(app.sinkClient, app.logger)

	schedule, err := lecture.NewSchedule(app.config.Lecture.Slots, app.config.Lecture.GraceMinutes)
	if err != nil {
		return fmt.Errorf("invalid lecture schedule: %w", err)
	}
	app.schedule = schedule

	app.manager = session.NewManager(app.store, app.schedule, app.sinkClient, app.logger)
	app.broadcaster = broadcast.NewBroadcaster(app.manager, app.logger)

	readerCtx, cancel := context.WithCancel(context.Background())
	app.readerCtx = readerCtx
	app.stopReader = cancel
	app.readerDone = make(chan struct{})

	app.supervisor = reader.NewSupervisor(
		&app.config.Reader,
		func(event model.ScanEvent) {
			app.broadcaster.Publish(readerCtx, event)
		},
		app.logger,
	)

	app.logger.Info("Components initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() error {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.supervisor,
		app.store,
		app.manager,
		app.broadcaster,
		app.sinkClient,
	)

	router := routerManager.SetupRouter()

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
	)

	return nil
}

// startBackgroundServices starts the reader loop and preloads the registry
func (app *Application) startBackgroundServices() {
	// Registry preload is best effort; operators can reload over HTTP
	preloadCtx, cancel := context.WithTimeout(app.readerCtx, 30*time.Second)
	defer cancel()
	if err := app.store.Reload(preloadCtx); err != nil {
		app.logger.Warn("Registry preload failed, starting with an empty registry", zap.Error(err))
	} else {
		app.logger.Info("Registry preloaded", zap.Int("user_count", app.store.Count()))
	}

	go func() {
		defer close(app.readerDone)
		app.supervisor.Run(app.readerCtx)
	}()

	app.logger.Info("Background services started")
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "attendance-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	// Stop the reader first so the serial handle is released before the
	// process exits
	app.stopReader()
	select {
	case <-app.readerDone:
		app.logger.Info("Reader supervisor stopped")
	case <-time.After(10 * time.Second):
		app.logger.Warn("Reader supervisor did not stop in time")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}

	app.logger.Info("Application shutdown completed")
}

func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.startBackgroundServices()

	app.waitForShutdown()

	return nil
}
