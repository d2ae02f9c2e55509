package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

// ServiceConfig is the configuration for the remove service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Remove"})

	return nil
}

// Service removes a project.
type Service struct {
	repo    storage.Repository
	builder build.ProjectBuilder
	logger  log.Logger
}

// NewService creates a new remove service.
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

// Request represents the remove request parameters.
type Request struct {
	// ID is the project ID to remove.
	ID string
}

// Run removes a project by ID.
// Its build simulation, if any, is stopped before deleting so it can't write the project back.
// Simulations owned by other processes notice the removal on their next tick and stop.
func (s *Service) Run(ctx context.Context, req Request) (*model.Project, error) {
	p, err := s.repo.GetProject(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	err = s.builder.Stop(p.ID)
	switch {
	case err == nil:
		s.logger.Infof("Stopped build of project %s before removal", p.ID)
	case errors.Is(err, model.ErrNotFound):
	default:
		return nil, fmt.Errorf("could not stop build: %w", err)
	}

	if err := s.repo.DeleteProject(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("could not delete project: %w", err)
	}

	s.logger.Infof("Removed project: %s (ID: %s)", p.Name, p.ID)
	return p, nil
}
