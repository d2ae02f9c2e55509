package build

import (
	"context"
	"fmt"

	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

// ServiceConfig is the configuration for the build service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Build"})
	return nil
}

// Service starts, or resumes, the build simulation of existing projects.
type Service struct {
	repo    storage.Repository
	builder build.ProjectBuilder
	logger  log.Logger
}

// NewService creates a new build service.
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

// Request represents the build request parameters.
type Request struct {
	// ID is the project ID to build.
	ID string
	// Wait blocks until the build simulation finishes.
	Wait bool
}

// Response is the result of a build.
type Response struct {
	// Project is the project when the build started, or its final state when waiting.
	Project model.Project
	// Handle owns the started build simulation.
	Handle *build.Handle
}

// Run starts the build simulation of a project from its stored progress.
// Projects that are not building are left untouched and an error is returned.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	p, err := s.repo.GetProject(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get project: %w", err)
	}

	if !p.IsBuilding() {
		return nil, fmt.Errorf("cannot build project %s (current status: %s): %w", p.ID, p.Status, build.ErrNotBuilding)
	}

	h, err := s.builder.Start(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("could not start build: %w", err)
	}
	s.logger.Infof("Building project %s from %.0f%%", p.ID, p.Progress)

	resp := &Response{Project: *p, Handle: h}
	if !req.Wait || h == nil {
		return resp, nil
	}

	if _, err := h.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for build: %w", err)
	}

	p, err = s.repo.GetProject(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get project: %w", err)
	}
	resp.Project = *p

	return resp, nil
}
