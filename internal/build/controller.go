package build

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
)

// Starter knows how to start a project build simulation.
type Starter interface {
	Start(ctx context.Context, projectID string) (*Handle, error)
}

// ProjectBuilder manages the build simulations of projects.
type ProjectBuilder interface {
	Start(ctx context.Context, projectID string) (*Handle, error)
	Stop(projectID string) error
}

var _ ProjectBuilder = &Controller{}

// ControllerConfig is the configuration for the build controller.
type ControllerConfig struct {
	Starter Starter
	Logger  log.Logger
}

func (c *ControllerConfig) defaults() error {
	if c.Starter == nil {
		return fmt.Errorf("starter is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "build.Controller"})
	return nil
}

// Controller owns the running build simulations, at most one per project.
type Controller struct {
	starter Starter
	handles map[string]*Handle
	mu      sync.Mutex
	logger  log.Logger
}

// NewController creates a new build controller.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Controller{
		starter: cfg.Starter,
		handles: map[string]*Handle{},
		logger:  cfg.Logger,
	}, nil
}

// Start starts the build simulation of a project. If the project already has a
// running simulation its handle is returned and nothing new is started.
func (c *Controller) Start(ctx context.Context, projectID string) (*Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.handles[projectID]; ok && !isDone(h) {
		c.logger.Debugf("Project %s already has a running build simulation", projectID)
		return h, nil
	}

	h, err := c.starter.Start(ctx, projectID)
	if err != nil {
		return nil, err
	}
	c.handles[projectID] = h

	go func() {
		<-h.Done()
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.handles[projectID] == h {
			delete(c.handles, projectID)
		}
	}()

	return h, nil
}

// Stop stops the running build simulation of a project and waits for it to exit.
func (c *Controller) Stop(projectID string) error {
	c.mu.Lock()
	h, ok := c.handles[projectID]
	c.mu.Unlock()

	if !ok || isDone(h) {
		return fmt.Errorf("build simulation for project %s: %w", projectID, model.ErrNotFound)
	}

	h.Stop()
	c.logger.Debugf("Stopped build simulation of project %s", projectID)

	return nil
}

// StopAll stops every running build simulation.
func (c *Controller) StopAll() {
	for _, h := range c.snapshot() {
		h.Stop()
	}
}

// Running returns the IDs of the projects with a running build simulation, sorted.
func (c *Controller) Running() []string {
	var ids []string
	for _, h := range c.snapshot() {
		if !isDone(h) {
			ids = append(ids, h.ProjectID())
		}
	}
	sort.Strings(ids)
	return ids
}

// Wait blocks until all the current simulations have finished or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	for _, h := range c.snapshot() {
		if _, err := h.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) snapshot() []*Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	hs := make([]*Handle, 0, len(c.handles))
	for _, h := range c.handles {
		hs = append(hs, h)
	}
	return hs
}

func isDone(h *Handle) bool {
	select {
	case <-h.Done():
		return true
	default:
		return false
	}
}
