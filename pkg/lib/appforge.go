package lib

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/conventions"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/storage"
	"github.com/slok/appforge/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses ~/.appforge/appforge.db for storage
// and the default build pace.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: ~/.appforge/appforge.db.
	DBPath string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// TickInterval is the time between build progress ticks.
	// Default: 500ms.
	TickInterval time.Duration

	// MaxIncrement is the maximum progress increment per tick.
	// Default: 15.
	MaxIncrement float64
}

func (c *Config) defaults() error {
	if c.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DBPath(home)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval can't be negative")
	}

	if c.MaxIncrement < 0 {
		return fmt.Errorf("max increment can't be negative")
	}
	if c.MaxIncrement == 0 {
		c.MaxIncrement = build.DefaultMaxIncrement
	}

	return nil
}

// Client is the main SDK entry point for managing projects programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	repo        storage.Repository
	builds      *build.Controller
	broadcaster *build.Broadcaster
	logger      log.Logger
	closeFn     func() error
}

// New creates a new SDK client backed by a SQLite database.
//
// The caller must call [Client.Close] when done to stop the builds and release
// the database connection.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	broadcaster := build.NewBroadcaster(cfg.Logger)
	sim, err := build.NewSimulator(build.SimulatorConfig{
		Repository:   repo,
		Increment:    build.RandomIncrement(cfg.MaxIncrement, nil),
		TickInterval: cfg.TickInterval,
		Notifier:     broadcaster,
		Logger:       cfg.Logger,
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create build simulator: %w", err)
	}

	builds, err := build.NewController(build.ControllerConfig{Starter: sim, Logger: cfg.Logger})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create build controller: %w", err)
	}

	return &Client{
		repo:        repo,
		builds:      builds,
		broadcaster: broadcaster,
		logger:      cfg.Logger,
		closeFn:     repo.Close,
	}, nil
}

// Close stops the running builds and releases the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	c.builds.StopAll()
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}
