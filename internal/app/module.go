// Package app wires the linktrack components together with fx.
package app

import (
	"context"
	"fmt"

	"github.com/matheus3301/linktrack/internal/bus"
	"github.com/matheus3301/linktrack/internal/config"
	"github.com/matheus3301/linktrack/internal/export"
	"github.com/matheus3301/linktrack/internal/importer"
	"github.com/matheus3301/linktrack/internal/lock"
	"github.com/matheus3301/linktrack/internal/logging"
	"github.com/matheus3301/linktrack/internal/message"
	"github.com/matheus3301/linktrack/internal/reminders"
	"github.com/matheus3301/linktrack/internal/store"
	"github.com/matheus3301/linktrack/internal/workspace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the command-line overrides passed to the fx module.
type Params struct {
	Workspace  string // --workspace flag; empty = config default
	ConfigPath string // optional override for testing; empty = use default
	Quiet      bool   // log to the file only; set by the TUI
}

// Workspace is the resolved, validated workspace.
type Workspace struct {
	Name string
	Dir  string
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("linktrack",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideWorkspace,
			provideLogger,
			provideStore,
			provideGenerator,
			provideScheduler,
			provideImporter,
			provideExporter,
			bus.New,
			NewServices,
		),
		fx.Invoke(registerLifecycle),
	)
}

// Options returns the full fx option set: the module plus zap-backed fx
// event logging.
func Options(p Params) fx.Option {
	return fx.Options(
		Module(p),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
	)
}

// Run builds the graph, starts it, calls fn with the services and stops the
// graph again, whatever fn returns.
func Run(ctx context.Context, p Params, fn func(*Services) error) error {
	var svc *Services
	a := fx.New(Options(p), fx.Populate(&svc))
	if err := a.Err(); err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	runErr := fn(svc)
	if err := a.Stop(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = workspace.ConfigPath()
	}
	return config.LoadOrDefault(path)
}

func provideWorkspace(p Params, cfg *config.Config) (Workspace, error) {
	name := workspace.Resolve(p.Workspace, cfg)
	if err := workspace.ValidateName(name); err != nil {
		return Workspace{}, err
	}
	if err := workspace.EnsureDir(name); err != nil {
		return Workspace{}, fmt.Errorf("create workspace %q: %w", name, err)
	}
	return Workspace{Name: name, Dir: workspace.Dir(name)}, nil
}

func provideLogger(p Params, ws Workspace, cfg *config.Config) (*zap.Logger, error) {
	var opts []logging.Option
	if p.Quiet {
		opts = append(opts, logging.WithoutConsole())
	}
	return logging.New(workspace.LogPath(ws.Name), ws.Name, cfg.LogLevel, opts...)
}

func provideStore(ws Workspace, logger *zap.Logger) (*store.DB, error) {
	dbPath := workspace.DBPath(ws.Name)
	db, err := store.Open(dbPath, store.WithLogger(logger.Named("store")))
	if err != nil {
		return nil, err
	}

	var result *store.MigrateResult
	err = lock.With(ws.Dir, "migrate", func() error {
		var err error
		result, err = db.Migrate()
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Debug("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideGenerator(cfg *config.Config, logger *zap.Logger) (*message.Generator, error) {
	return message.New(
		message.WithTemplatesFile(cfg.TemplatesFile),
		message.WithLogger(logger.Named("message")),
	)
}

func provideScheduler(db *store.DB, gen *message.Generator, cfg *config.Config, logger *zap.Logger) *reminders.Scheduler {
	return reminders.New(db, gen, reminders.Settings{
		IntervalDays:   cfg.ReminderIntervalDays,
		ConnectionDays: cfg.ConnectionReminderDays,
	}, reminders.WithLogger(logger.Named("reminders")))
}

func provideImporter(db *store.DB, logger *zap.Logger) *importer.Importer {
	return importer.New(db, logger.Named("import"))
}

func provideExporter(db *store.DB, ws Workspace, cfg *config.Config, logger *zap.Logger) *export.Exporter {
	return export.New(db, workspace.ExportDir(ws.Name, cfg.ExportDir), export.WithLogger(logger.Named("export")))
}

func registerLifecycle(lc fx.Lifecycle, db *store.DB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			_ = logger.Sync()
			return nil
		},
	})
}
