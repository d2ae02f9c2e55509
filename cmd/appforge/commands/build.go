package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	appbuild "github.com/slok/appforge/internal/app/build"
	"github.com/slok/appforge/internal/build"
)

type BuildCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id     string
	format string
	sim    simulationFlags
}

// NewBuildCommand returns the build command.
func NewBuildCommand(rootCmd *RootCommand, app *kingpin.Application) *BuildCommand {
	c := &BuildCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("build", "Build, or resume the build of, an existing building project.")
	c.Cmd.Arg("id", "Project ID.").Required().StringVar(&c.id)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)
	c.sim.register(c.Cmd)

	return c
}

func (c BuildCommand) Name() string { return c.Cmd.FullCommand() }
func (c BuildCommand) Quiet() bool { return c.format == formatJSON }

func (c BuildCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	if err := c.sim.validate(); err != nil {
		return err
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	p := c.rootCmd.newPrinter(c.format)
	broadcaster := build.NewBroadcaster(logger)
	events, unsubscribe := broadcaster.Subscribe(64)
	defer unsubscribe()

	ctrl, err := newBuildController(simulationConfig{
		repo:     repo,
		flags:    c.sim,
		notifier: broadcaster,
		logger:   logger,
	})
	if err != nil {
		return err
	}
	defer ctrl.StopAll()

	svc, err := appbuild.NewService(appbuild.ServiceConfig{
		Repository: repo,
		Builder:    ctrl,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(context.WithoutCancel(ctx), appbuild.Request{ID: c.id})
	if err != nil {
		return fmt.Errorf("could not build project: %w", err)
	}

	if err := followBuild(ctx, resp.Handle, events, p, repo, ctrl); err != nil {
		return err
	}

	final, err := repo.GetProject(context.WithoutCancel(ctx), c.id)
	if err != nil {
		return fmt.Errorf("could not get project: %w", err)
	}

	return p.PrintStatus(*final)
}
