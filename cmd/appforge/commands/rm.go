package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appforge/internal/app/remove"
	"github.com/slok/appforge/internal/build"
)

type RemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id string
}

// NewRemoveCommand returns the rm command.
func NewRemoveCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("rm", "Remove a project, stopping its build.")
	c.Cmd.Arg("id", "Project ID.").Required().StringVar(&c.id)

	return c
}

func (c RemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c RemoveCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	// This process owns no builds, builds of other processes notice the removal on their next tick.
	ctrl, err := newBuildController(simulationConfig{
		repo:   repo,
		flags:  simulationFlags{tickInterval: build.DefaultTickInterval, maxIncrement: build.DefaultMaxIncrement},
		logger: logger,
	})
	if err != nil {
		return err
	}

	svc, err := remove.NewService(remove.ServiceConfig{
		Repository: repo,
		Builder:    ctrl,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	p, err := svc.Run(ctx, remove.Request{ID: c.id})
	if err != nil {
		return fmt.Errorf("could not remove project: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Removed project: %s (%s)\n", p.Name, p.ID)
	return nil
}
