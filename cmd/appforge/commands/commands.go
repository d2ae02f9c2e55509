package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/conventions"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/metrics"
	"github.com/slok/appforge/internal/printer"
	"github.com/slok/appforge/internal/storage"
	"github.com/slok/appforge/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// QuietCommand is implemented by the commands whose output would be mixed up with
// the logs, they run without logger unless debug is enabled.
type QuietCommand interface {
	Quiet() bool
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := conventions.DBPath(homedir.HomeDir())
	app.Flag("db-path", "Path to the SQLite database file.").Envar("APPFORGE_DB_PATH").Default(defaultDBPath).StringVar(&c.DBPath)

	return c
}

func (r *RootCommand) newRepository(ctx context.Context) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: r.DBPath,
		Logger: r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	return repo, nil
}

func (r *RootCommand) newPrinter(format string) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(r.Stdout)
	}
	return printer.NewTablePrinter(r.Stdout)
}

// simulationFlags are the flags shared by the commands that run build simulations.
type simulationFlags struct {
	tickInterval time.Duration
	maxIncrement float64
}

func (s *simulationFlags) register(cmd *kingpin.CmdClause) {
	cmd.Flag("tick-interval", "Time between build progress ticks.").Default(build.DefaultTickInterval.String()).DurationVar(&s.tickInterval)
	cmd.Flag("max-increment", "Maximum progress increment per tick (percentage points).").Default(fmt.Sprintf("%g", build.DefaultMaxIncrement)).Float64Var(&s.maxIncrement)
}

func (s simulationFlags) validate() error {
	if s.tickInterval <= 0 {
		return fmt.Errorf("--tick-interval must be positive")
	}
	if s.maxIncrement <= 0 {
		return fmt.Errorf("--max-increment must be positive")
	}
	return nil
}

type simulationConfig struct {
	repo     storage.Repository
	flags    simulationFlags
	notifier build.Notifier
	recorder metrics.Recorder
	logger   log.Logger
}

func newBuildController(cfg simulationConfig) (*build.Controller, error) {
	sim, err := build.NewSimulator(build.SimulatorConfig{
		Repository:      cfg.repo,
		Increment:       build.RandomIncrement(cfg.flags.maxIncrement, nil),
		TickInterval:    cfg.flags.tickInterval,
		Notifier:        cfg.notifier,
		MetricsRecorder: cfg.recorder,
		Logger:          cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create build simulator: %w", err)
	}

	ctrl, err := build.NewController(build.ControllerConfig{
		Starter: sim,
		Logger:  cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create build controller: %w", err)
	}

	return ctrl, nil
}
