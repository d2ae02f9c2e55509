package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

var _ storage.Repository = &Repository{}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	projects map[string]model.Project
	leases   map[string]model.BuildLease
	mu       sync.RWMutex
	logger   log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		projects: make(map[string]model.Project),
		leases:   make(map[string]model.BuildLease),
		logger:   cfg.Logger,
	}, nil
}

// CreateProject creates a new project in the repository.
func (r *Repository) CreateProject(ctx context.Context, p model.Project) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.ID]; ok {
		return fmt.Errorf("project with id %s: %w", p.ID, model.ErrAlreadyExists)
	}

	r.projects[p.ID] = p
	r.logger.Debugf("Created project in repository: %s", p.ID)

	return nil
}

// GetProject retrieves a project by ID.
func (r *Repository) GetProject(ctx context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	return &p, nil
}

// ListProjects returns all projects, newest first.
func (r *Repository) ListProjects(ctx context.Context) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		projects = append(projects, p)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

// UpdateProject updates an existing project.
func (r *Repository) UpdateProject(ctx context.Context, p model.Project) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.ID]; !ok {
		return fmt.Errorf("project %s: %w", p.ID, model.ErrNotFound)
	}

	r.projects[p.ID] = p
	r.logger.Debugf("Updated project in repository: %s", p.ID)

	return nil
}

// DeleteProject deletes a project.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	delete(r.projects, id)
	delete(r.leases, id)
	r.logger.Debugf("Deleted project from repository: %s", id)

	return nil
}

// ClaimBuild gives the build of a building project to the lease owner.
func (r *Repository) ClaimBuild(ctx context.Context, id string, lease model.BuildLease, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}
	if !p.IsBuilding() {
		return fmt.Errorf("project %s is %s: %w", id, p.Status, model.ErrNotValid)
	}

	current := r.leases[id]
	if current.Owner != lease.Owner && !current.Expired(now) {
		return fmt.Errorf("project %s build is owned by %s: %w", id, current.Owner, model.ErrConflict)
	}

	r.leases[id] = lease
	r.logger.Debugf("Build of project %s claimed by %s", id, lease.Owner)

	return nil
}

// AdvanceBuild stores the new state of a building project owned by the lease owner.
func (r *Repository) AdvanceBuild(ctx context.Context, p model.Project, fromProgress float64, lease model.BuildLease) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.projects[p.ID]
	if !ok {
		return fmt.Errorf("project %s: %w", p.ID, model.ErrNotFound)
	}
	if !stored.IsBuilding() || stored.Progress != fromProgress || r.leases[p.ID].Owner != lease.Owner {
		return fmt.Errorf("project %s changed since read: %w", p.ID, model.ErrConflict)
	}

	r.projects[p.ID] = p
	if p.IsBuilding() {
		r.leases[p.ID] = lease
	} else {
		delete(r.leases, p.ID)
	}

	return nil
}

// ReleaseBuild drops the build lease of the owner.
func (r *Repository) ReleaseBuild(ctx context.Context, id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.leases[id].Owner == owner {
		delete(r.leases, id)
	}

	return nil
}
