package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/appforge/internal/app/seed"
	storageio "github.com/slok/appforge/internal/storage/io"
)

type SeedCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	file string
}

// NewSeedCommand returns the seed command.
func NewSeedCommand(rootCmd *RootCommand, app *kingpin.Application) *SeedCommand {
	c := &SeedCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("seed", "Load the demo projects, existing projects are kept.")
	c.Cmd.Flag("file", "YAML seed file, the bundled demo projects are used when missing.").StringVar(&c.file)

	return c
}

func (c SeedCommand) Name() string { return c.Cmd.FullCommand() }

func (c SeedCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	seedFS, seedPath := storageio.DefaultSeedFS(), storageio.DefaultSeedPath
	if c.file != "" {
		abs, err := filepath.Abs(c.file)
		if err != nil {
			return fmt.Errorf("invalid seed file path: %w", err)
		}
		seedFS, seedPath = os.DirFS(filepath.Dir(abs)), filepath.Base(abs)
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	svc, err := seed.NewService(seed.ServiceConfig{
		Repository:     repo,
		SeedRepository: storageio.NewProjectSeedYAMLRepository(seedFS),
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, seed.Request{Path: seedPath})
	if err != nil {
		return fmt.Errorf("could not seed projects: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Seeded %d projects (%d already existed)\n", len(resp.Created), len(resp.Skipped))
	return nil
}

