package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/goliatone/go-cabinet-admin/components/dashboard"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/commands"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/gorouter"
	"github.com/goliatone/go-cabinet-admin/components/dashboard/httpapi"
	"github.com/goliatone/go-cabinet-admin/components/reports"
	"github.com/goliatone/go-cabinet-admin/pkg/backend"
	"github.com/goliatone/go-cabinet-admin/pkg/config"
	"github.com/goliatone/go-cabinet-admin/pkg/storage"
	"github.com/goliatone/go-cabinet-admin/pkg/task"
)

type serveCmd struct {
	Addr string `help:"Listen address, overrides server.addr."`
	Mock bool   `help:"Use the in-memory backend with demo data regardless of backend.url."`
}

func (cmd *serveCmd) Run(ctx context.Context, root *cli) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	if cmd.Mock {
		cfg.Backend.URL = ""
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	server := router.NewFiberAdapter()
	if err := app.Register(server.Router()); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.scheduler.Start(runCtx)
	app.scheduler.Trigger()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(cfg.Server.Addr) }()
	logger.Info("cabinet admin ready",
		zap.String("addr", cfg.Server.Addr),
		zap.String("base_path", cfg.Server.BasePath),
		zap.Bool("mock_backend", cfg.Backend.Mock()),
	)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("cabinetctl: serve: %w", err)
		}
		return nil
	case <-runCtx.Done():
		logger.Info("shutting down")
		return nil
	}
}

// app holds every wired collaborator of the server.
type app struct {
	cfg        config.Config
	logger     *zap.Logger
	db         *gorm.DB
	backend    backend.Client
	dashboard  *dashboard.Service
	reports    *reports.Service
	notices    *dashboard.NoticeHub
	executor   *httpapi.CommandExecutor
	controller *dashboard.Controller
	scheduler  *task.Scheduler
}

func newApp(cfg config.Config, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := newBackend(cfg, logger)
	if err != nil {
		return nil, err
	}
	db, err := storage.OpenDatabase(storage.Config{DriverName: cfg.Storage.Driver, DataSourceName: cfg.Storage.DSN})
	if err != nil {
		return nil, err
	}
	if err := storage.AutoMigrate(db); err != nil {
		return nil, err
	}
	prefs := storage.NewPreferenceStore(db)
	hub := dashboard.NewNoticeHub()
	telemetry := dashboard.ZapTelemetry{Logger: logger.Named("telemetry")}
	loc := cfg.Location()

	dash := dashboard.NewService(dashboard.Options{
		Backend:     client,
		Cabinets:    dashboard.NewCabinetDirectory(client, dashboard.WithCabinetLogger(logger)),
		Stats:       dashboard.NewStatsCache(cfg.Cache.StatsTTL, storage.NewSnapshotStore(db)),
		Preferences: prefs,
		Comparison:  prefs,
		Notices:     dashboard.MultiNoticeHook{hub, dashboard.LoggingNoticeHook{Logger: logger.Named("notices")}},
		Telemetry:   telemetry,
		Logger:      logger.Named("dashboard"),
		Location:    loc,
		ChartAssets: cfg.Charts.AssetsHost,
	})
	rep := reports.NewService(reports.Options{
		Backend:   client,
		Charts:    newChartRenderer(cfg),
		Telemetry: telemetry,
		Logger:    logger.Named("reports"),
	})
	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("cabinetctl: templates: %w", err)
	}
	warmer := task.NewStatsWarmer(
		commands.NewWarmStatsCommand(dash, telemetry),
		task.WithWarmerLocation(loc),
		task.WithWarmerLogger(logger.Named("warmer")),
	)
	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		backend:   client,
		dashboard: dash,
		reports:   rep,
		notices:   hub,
		executor: httpapi.NewCommandExecutor(httpapi.DashboardServices{
			Dashboard: dash,
			Reports:   rep,
			Telemetry: telemetry,
		}),
		controller: dashboard.NewController(dashboard.ControllerOptions{
			Service:  dash,
			Reports:  rep,
			Renderer: renderer,
		}),
		scheduler: task.NewScheduler(cfg.Cache.WarmInterval, warmer.Run),
	}, nil
}

func newBackend(cfg config.Config, logger *zap.Logger) (backend.Client, error) {
	if cfg.Backend.Mock() {
		logger.Warn("backend.url not set, using in-memory demo backend")
		return backend.NewMockClient(backend.DemoData()), nil
	}
	client, err := backend.NewHTTPClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
		Logger:  logger.Named("backend"),
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Register mounts the pages, JSON API and notice socket.
func (a *app) Register(r router.Router[*fiber.App]) error {
	loc := a.cfg.Location()
	return gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     r,
		Controller: a.controller,
		API:        a.executor,
		Notices:    a.notices,
		BasePath:   a.cfg.Server.BasePath,
		Now:        func() time.Time { return time.Now().In(loc) },
	})
}

// Close stops the scheduler and releases the database.
func (a *app) Close() {
	a.scheduler.Stop()
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
