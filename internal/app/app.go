// Package app wires the stores, the timer and the services of one MyWorld
// process. The HTTP server and the terminal UI both start from here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"myworld/backend/internal/config"
	"myworld/backend/internal/db"
	"myworld/backend/internal/handler"
	"myworld/backend/internal/history"
	"myworld/backend/internal/idgen"
	"myworld/backend/internal/logging"
	"myworld/backend/internal/model"
	"myworld/backend/internal/panel"
	"myworld/backend/internal/repository"
	"myworld/backend/internal/router"
	"myworld/backend/internal/service"
	"myworld/backend/internal/settings"
	"myworld/backend/internal/timer"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Store   repository.Store
	History *history.Log
	Timer   *timer.Controller
	Theme   *settings.Theme
	Panels  *panel.Registry

	Pomodoro *service.PomodoroService
	Settings *service.SettingsService
	Records  *service.PanelService

	database *sql.DB
}

type Option func(*options)

type options struct {
	detectTheme func() model.Theme
	timerOpts   []timer.Option
	newID       idgen.Generator
}

// WithThemeDetector supplies the default theme used when none is stored
// and the configuration does not name one.
func WithThemeDetector(detect func() model.Theme) Option {
	return func(o *options) { o.detectTheme = detect }
}

func WithTimerOptions(opts ...timer.Option) Option {
	return func(o *options) { o.timerOpts = append(o.timerOpts, opts...) }
}

func WithIDGenerator(gen idgen.Generator) Option {
	return func(o *options) { o.newID = gen }
}

// New opens the configured store and loads every persisted value from it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{newID: idgen.UUID}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	a := &App{Config: cfg, Logger: logger}
	store, err := a.openStore(cfg)
	if err != nil {
		return nil, err
	}
	a.Store = store

	a.History = history.New(store, history.WithLogger(logger))
	loaded := a.History.Load(ctx)

	timerOpts := append([]timer.Option{
		timer.WithIDGenerator(o.newID),
		timer.WithLogger(logger),
	}, o.timerOpts...)
	a.Timer = timer.New(a.History, timerOpts...)

	a.Theme = settings.NewTheme(store,
		settings.WithDetector(themeDetector(cfg, o.detectTheme)),
		settings.WithLogger(logger),
	)
	a.Theme.OnApply(func(theme model.Theme) {
		logger.Debug("theme applied", "theme", theme)
	})
	theme := a.Theme.Load(ctx)

	a.Panels = panel.NewRegistry(store, o.newID, logger)
	a.Panels.Load(ctx)

	observer := service.NewLogUseCaseObserver(logger)
	a.Pomodoro = service.NewPomodoroService(a.Timer, a.History, observer)
	a.Settings = service.NewSettingsService(a.Theme, observer)
	a.Records = service.NewPanelService(a.Panels, observer)

	logger.Debug("myworld ready",
		"store", cfg.Store,
		"history_entries", len(loaded),
		"theme", theme,
	)
	return a, nil
}

// Handler builds the HTTP API on top of the services.
func (a *App) Handler() *gin.Engine {
	return router.New(
		handler.NewPomodoroHandler(a.Pomodoro),
		handler.NewSettingsHandler(a.Settings),
		handler.NewPanelHandler(a.Records),
		a.Config.CORSOrigins,
		a.Logger,
	)
}

// Close stops the timer and releases the store.
func (a *App) Close() error {
	a.Timer.Close()
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}

func (a *App) openStore(cfg config.Config) (repository.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return repository.NewMemoryStore(), nil
	case config.StoreDisk:
		return repository.NewDiskStore(cfg.DiskPath()), nil
	case config.StoreSQLite, "":
		database, err := OpenDatabase(cfg)
		if err != nil {
			return nil, err
		}
		a.database = database
		return repository.NewSQLiteStore(database), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// OpenDatabase opens the SQLite file of cfg and brings its schema up to
// date.
func OpenDatabase(cfg config.Config) (*sql.DB, error) {
	database, err := db.OpenSQLite(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(database, db.Migrations()); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return database, nil
}

func themeDetector(cfg config.Config, detect func() model.Theme) func() model.Theme {
	if theme := model.Theme(cfg.Theme); theme.Valid() {
		return func() model.Theme { return theme }
	}
	return detect
}
