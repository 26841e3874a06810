package app

import (
	"github.com/matheus3301/linktrack/internal/bus"
	"github.com/matheus3301/linktrack/internal/config"
	"github.com/matheus3301/linktrack/internal/export"
	"github.com/matheus3301/linktrack/internal/importer"
	"github.com/matheus3301/linktrack/internal/lock"
	"github.com/matheus3301/linktrack/internal/message"
	"github.com/matheus3301/linktrack/internal/reminders"
	"github.com/matheus3301/linktrack/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Services is what the command line and the TUI work with.
type Services struct {
	Config    *config.Config
	Workspace Workspace
	Logger    *zap.Logger
	Store     *store.DB
	Messages  *message.Generator
	Reminders *reminders.Scheduler
	Importer  *importer.Importer
	Exporter  *export.Exporter
	Bus       *bus.Bus
}

type servicesIn struct {
	fx.In

	Config    *config.Config
	Workspace Workspace
	Logger    *zap.Logger
	Store     *store.DB
	Messages  *message.Generator
	Reminders *reminders.Scheduler
	Importer  *importer.Importer
	Exporter  *export.Exporter
	Bus       *bus.Bus
}

// NewServices collects the provided components.
func NewServices(in servicesIn) *Services {
	return &Services{
		Config:    in.Config,
		Workspace: in.Workspace,
		Logger:    in.Logger,
		Store:     in.Store,
		Messages:  in.Messages,
		Reminders: in.Reminders,
		Importer:  in.Importer,
		Exporter:  in.Exporter,
		Bus:       in.Bus,
	}
}

// Import runs a CSV import while holding the workspace lock, so two imports
// of the same workspace cannot interleave. Real imports publish
// bus.ImportFinished with the report.
func (s *Services) Import(path string, dryRun bool) (*importer.Report, error) {
	var rep *importer.Report
	err := lock.With(s.Workspace.Dir, "import", func() error {
		var err error
		rep, err = s.Importer.ImportFile(path, dryRun)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !dryRun {
		s.Bus.Emit(bus.ImportFinished, rep)
	}
	return rep, nil
}
