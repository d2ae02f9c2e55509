package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appforge/internal/app/status"
	"github.com/slok/appforge/internal/model"
)

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id           string
	pollInterval time.Duration
	format       string
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Follow the progress of a project being built by another process.")
	c.Cmd.Arg("id", "Project ID.").Required().StringVar(&c.id)
	c.Cmd.Flag("poll-interval", "Time between progress polls.").Default("500ms").DurationVar(&c.pollInterval)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }
func (c WatchCommand) Quiet() bool { return true }

func (c WatchCommand) Run(ctx context.Context) error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("--poll-interval must be positive")
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := status.NewService(status.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	p := c.rootCmd.newPrinter(c.format)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	lastProgress := -1.0
	for {
		project, err := svc.Run(ctx, status.Request{ID: c.id})
		if err != nil {
			return fmt.Errorf("could not get project status: %w", err)
		}

		if project.Progress != lastProgress || !project.IsBuilding() {
			if err := p.PrintProgress(*project); err != nil {
				return fmt.Errorf("could not print progress: %w", err)
			}
			lastProgress = project.Progress
		}

		if project.Status != model.ProjectStatusBuilding {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
