package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

// ProjectSeedRepository returns the projects of a seed source.
type ProjectSeedRepository interface {
	GetProjects(ctx context.Context, path string) ([]model.Project, error)
}

// ServiceConfig is the configuration for the seed service.
type ServiceConfig struct {
	Repository     storage.Repository
	SeedRepository ProjectSeedRepository
	Logger         log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.SeedRepository == nil {
		return fmt.Errorf("seed repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Seed"})
	return nil
}

// Service loads demo projects into the repository.
type Service struct {
	repo   storage.Repository
	seeds  ProjectSeedRepository
	logger log.Logger
}

// NewService creates a new seed service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		seeds:  cfg.SeedRepository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the seed request parameters.
type Request struct {
	// Path is the seed file path inside the seed repository.
	Path string
}

// Response is the result of a seed.
type Response struct {
	Created []string
	// Skipped are the IDs that already existed, these are never overwritten.
	Skipped []string
}

// Run stores the seed projects that don't exist yet.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	projects, err := s.seeds.GetProjects(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("could not load seed projects: %w", err)
	}

	resp := &Response{}
	for _, p := range projects {
		err := s.repo.CreateProject(ctx, p)
		switch {
		case err == nil:
			resp.Created = append(resp.Created, p.ID)
		case errors.Is(err, model.ErrAlreadyExists):
			s.logger.Debugf("Project %s already exists, skipping", p.ID)
			resp.Skipped = append(resp.Skipped, p.ID)
		default:
			return nil, fmt.Errorf("could not create project %s: %w", p.ID, err)
		}
	}

	s.logger.Infof("Seeded %d projects (%d skipped)", len(resp.Created), len(resp.Skipped))
	return resp, nil
}
