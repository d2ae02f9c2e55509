package submit

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/appforge/internal/build"
	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

// ServiceConfig is the configuration for the submit service.
type ServiceConfig struct {
	Repository storage.Repository
	Builder    build.ProjectBuilder
	Logger     log.Logger
	// IDGenerator returns new project IDs, defaults to ULIDs.
	IDGenerator func() string
	// TimeNow is used to set the project creation time, defaults to time.Now.
	TimeNow func() time.Time
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Submit"})
	if c.IDGenerator == nil {
		c.IDGenerator = func() string {
			return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		}
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	return nil
}

// Service creates projects from prompts and starts building them.
type Service struct {
	repo    storage.Repository
	builder build.ProjectBuilder
	logger  log.Logger
	newID   func() string
	now     func() time.Time
}

// NewService creates a new submit service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:    cfg.Repository,
		builder: cfg.Builder,
		logger:  cfg.Logger,
		newID:   cfg.IDGenerator,
		now:     cfg.TimeNow,
	}, nil
}

// Request represents the submit request parameters.
type Request struct {
	Config model.ProjectConfig
	// Wait blocks until the build simulation finishes.
	Wait bool
}

// Response is the result of a submit.
type Response struct {
	// Project is the created project, or its final state when waiting.
	Project model.Project
	// Handle owns the started build simulation.
	Handle *build.Handle
}

// Run creates a new building project from a prompt and starts its build simulation.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := req.Config.WithDefaults()

	p := model.Project{
		ID:          s.newID(),
		Name:        cfg.Name,
		Description: cfg.Description,
		Status:      model.ProjectStatusBuilding,
		Progress:    model.ProgressMin,
		CreatedAt:   s.now().UTC(),
		Type:        cfg.Type,
		Framework:   cfg.Framework,
		Deployment:  model.DeploymentStatusPending,
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("could not create project: %w", err)
	}
	s.logger.Infof("Created project %s (%s)", p.Name, p.ID)

	h, err := s.builder.Start(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("could not start build of project %s: %w", p.ID, err)
	}

	resp := &Response{Project: p, Handle: h}
	if !req.Wait || h == nil {
		return resp, nil
	}

	if _, err := h.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for build of project %s: %w", p.ID, err)
	}

	final, err := s.repo.GetProject(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get project: %w", err)
	}
	resp.Project = *final

	return resp, nil
}
