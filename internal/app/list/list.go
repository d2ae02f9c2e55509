package list

import (
	"context"
	"fmt"

	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

// ServiceConfig is the configuration for the list service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.List"})

	return nil
}

// Service lists projects with optional filtering.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// StatusFilter is an optional filter to only show projects with this status.
	StatusFilter *model.ProjectStatus
}

// Run lists all projects newest first, optionally filtered by status.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Project, error) {
	if req.StatusFilter != nil && !req.StatusFilter.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", *req.StatusFilter, model.ErrNotValid)
	}

	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list projects: %w", err)
	}

	if req.StatusFilter != nil {
		filtered := make([]model.Project, 0, len(projects))
		for _, p := range projects {
			if p.Status == *req.StatusFilter {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}

	s.logger.Debugf("Found %d projects", len(projects))
	return projects, nil
}
