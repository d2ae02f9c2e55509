package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appforge/internal/app/submit"
	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/model"
)

type SubmitCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	description string
	name        string
	projectType string
	framework   string
	noWait      bool
	format      string
	sim         simulationFlags
}

// NewSubmitCommand returns the submit command.
func NewSubmitCommand(rootCmd *RootCommand, app *kingpin.Application) *SubmitCommand {
	c := &SubmitCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("submit", "Create a new project from a prompt and build it.")
	c.Cmd.Arg("description", "Prompt describing the application to build.").Required().StringVar(&c.description)
	c.Cmd.Flag("name", "Project name, derived from the prompt when missing.").Short('n').StringVar(&c.name)
	c.Cmd.Flag("type", "Project type.").Default(string(model.ProjectTypeWebApp)).EnumVar(&c.projectType,
		string(model.ProjectTypeWebApp), string(model.ProjectTypeWebsite), string(model.ProjectTypeMobileApp))
	c.Cmd.Flag("framework", "Project framework.").Default(model.DefaultFramework).StringVar(&c.framework)
	c.Cmd.Flag("no-wait", "Only create the project, the build can be resumed later with `build` or `daemon`.").BoolVar(&c.noWait)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)
	c.sim.register(c.Cmd)

	return c
}

func (c SubmitCommand) Name() string { return c.Cmd.FullCommand() }
func (c SubmitCommand) Quiet() bool { return c.format == formatJSON }

func (c SubmitCommand) Run(ctx context.Context) error {
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

	svc, err := submit.NewService(submit.ServiceConfig{
		Repository: repo,
		Builder:    ctrl,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	// The build is owned by the controller, ctrl-c cancels it through followBuild.
	resp, err := svc.Run(context.WithoutCancel(ctx), submit.Request{
		Config: model.ProjectConfig{
			Description: c.description,
			Name:        c.name,
			Type:        model.ProjectType(c.projectType),
			Framework:   c.framework,
		},
	})
	if err != nil {
		return fmt.Errorf("could not submit project: %w", err)
	}

	if c.noWait {
		// Stop the simulation before the first tick, the project stays building at 0%.
		ctrl.StopAll()
		return p.PrintStatus(resp.Project)
	}

	if err := followBuild(ctx, resp.Handle, events, p, repo, ctrl); err != nil {
		return err
	}

	final, err := repo.GetProject(context.WithoutCancel(ctx), resp.Project.ID)
	if err != nil {
		return fmt.Errorf("could not get project: %w", err)
	}

	return p.PrintStatus(*final)
}
