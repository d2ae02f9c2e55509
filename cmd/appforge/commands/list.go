package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appforge/internal/app/list"
	"github.com/slok/appforge/internal/model"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	statusFilter string
	format       string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List all projects, newest first.")
	c.Cmd.Flag("status", "Filter by status (building, ready, error).").StringVar(&c.statusFilter)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }
func (c ListCommand) Quiet() bool { return true }

func (c ListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	var statusFilter *model.ProjectStatus
	if c.statusFilter != "" {
		status := model.ProjectStatus(strings.ToLower(c.statusFilter))
		if !status.Valid() {
			return fmt.Errorf("invalid status filter: %s (must be: building, ready, error)", c.statusFilter)
		}
		statusFilter = &status
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	projects, err := svc.Run(ctx, list.Request{StatusFilter: statusFilter})
	if err != nil {
		return fmt.Errorf("could not list projects: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintList(projects); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
