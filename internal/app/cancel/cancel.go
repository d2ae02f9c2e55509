package cancel

import (
	"context"
	"fmt"

	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

// ServiceConfig is the configuration for the cancel service.
type ServiceConfig struct {
	Repository storage.Repository
	Builder    build.ProjectBuilder
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Builder == nil {
		return fmt.Errorf("builder is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Cancel"})
	return nil
}

// Service stops running build simulations.
type Service struct {
	repo    storage.Repository
	builder build.ProjectBuilder
	logger  log.Logger
}

// NewService creates a new cancel service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:    cfg.Repository,
		builder: cfg.Builder,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the cancel request parameters.
type Request struct {
	// ID is the project ID whose build simulation will be stopped.
	ID string
}

// Run stops the build simulation of a project and returns the project as it was left.
// The project keeps its building status and progress so it can be resumed later.
func (s *Service) Run(ctx context.Context, req Request) (*model.Project, error) {
	if err := s.builder.Stop(req.ID); err != nil {
		return nil, fmt.Errorf("could not stop build: %w", err)
	}
	s.logger.Infof("Cancelled build of project %s", req.ID)

	p, err := s.repo.GetProject(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	return p, nil
}
