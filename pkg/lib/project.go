package lib

import (
	"context"
	"fmt"
	"time"

	appbuild "github.com/slok/appforge/internal/app/build"
	"github.com/slok/appforge/internal/app/cancel"
	"github.com/slok/appforge/internal/app/list"
	"github.com/slok/appforge/internal/app/remove"
	"github.com/slok/appforge/internal/app/seed"
	"github.com/slok/appforge/internal/app/status"
	"github.com/slok/appforge/internal/app/submit"
	"github.com/slok/appforge/internal/build"
	storageio "github.com/slok/appforge/internal/storage/io"
)

const waitRecheckInterval = time.Second

// SubmitProject creates a new building project from a prompt and starts its build.
// It returns without waiting, use [Client.WaitProject] to block until it's ready.
//
// Returns [ErrNotValid] if the description is empty.
func (c *Client) SubmitProject(ctx context.Context, opts SubmitProjectOpts) (*Project, error) {
	svc, err := submit.NewService(submit.ServiceConfig{
		Repository: c.repo,
		Builder:    c.builds,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	// Builds are owned by the client, not by the call context.
	resp, err := svc.Run(context.WithoutCancel(ctx), submit.Request{Config: toInternalProjectConfig(opts)})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProject(resp.Project)
	return &result, nil
}

// BuildProject starts, or resumes from its stored progress, the build of a building project.
// Starting a project already being built by this client is a no-op.
//
// Returns [ErrNotFound] if the project does not exist, [ErrNotValid] if it is not building,
// or [ErrConflict] if another process is building it.
func (c *Client) BuildProject(ctx context.Context, id string) (*Project, error) {
	svc, err := appbuild.NewService(appbuild.ServiceConfig{
		Repository: c.repo,
		Builder:    c.builds,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(context.WithoutCancel(ctx), appbuild.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProject(resp.Project)
	return &result, nil
}

// CancelBuild stops the build of a project run by this client.
// The project keeps its status and progress.
//
// Returns [ErrNotFound] if this client is not building the project.
func (c *Client) CancelBuild(ctx context.Context, id string) (*Project, error) {
	svc, err := cancel.NewService(cancel.ServiceConfig{
		Repository: c.repo,
		Builder:    c.builds,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	p, err := svc.Run(ctx, cancel.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProject(*p)
	return &result, nil
}

// WaitProject blocks until the build of a project run by this client finishes or ctx is done,
// and returns the project. Projects not being built are returned right away.
func (c *Client) WaitProject(ctx context.Context, id string) (*Project, error) {
	events, unsubscribe := c.broadcaster.Subscribe(16)
	defer unsubscribe()

	for {
		p, err := c.GetProject(ctx, id)
		if err != nil {
			return nil, err
		}
		if p.Status != ProjectStatusBuilding || !c.isBuilding(id) {
			return p, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case e := <-events:
			if e.Project.ID == id && e.Kind != build.EventProgress {
				return c.GetProject(ctx, id)
			}
		// Slow subscribers can lose events.
		case <-time.After(waitRecheckInterval):
		}
	}
}

// ListProjects returns the projects, newest first.
// Pass nil opts to list all.
func (c *Client) ListProjects(ctx context.Context, opts *ListProjectsOpts) ([]Project, error) {
	svc, err := list.NewService(list.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	ps, err := svc.Run(ctx, list.Request{StatusFilter: toInternalStatusFilter(opts)})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalProjectList(ps), nil
}

// GetProject returns the current state of a project.
//
// Returns [ErrNotFound] if the project does not exist.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	svc, err := status.NewService(status.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	p, err := svc.Run(ctx, status.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProject(*p)
	return &result, nil
}

// RemoveProject stops the build of a project, if any, and removes it.
//
// Returns [ErrNotFound] if the project does not exist.
func (c *Client) RemoveProject(ctx context.Context, id string) (*Project, error) {
	svc, err := remove.NewService(remove.ServiceConfig{
		Repository: c.repo,
		Builder:    c.builds,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	p, err := svc.Run(ctx, remove.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalProject(*p)
	return &result, nil
}

// SeedProjects stores the bundled demo projects, existing ones are kept untouched.
func (c *Client) SeedProjects(ctx context.Context) (*SeedProjectsResult, error) {
	svc, err := seed.NewService(seed.ServiceConfig{
		Repository:     c.repo,
		SeedRepository: storageio.NewProjectSeedYAMLRepository(storageio.DefaultSeedFS()),
		Logger:         c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, seed.Request{Path: storageio.DefaultSeedPath})
	if err != nil {
		return nil, mapError(err)
	}

	return &SeedProjectsResult{Created: resp.Created, Skipped: resp.Skipped}, nil
}

func (c *Client) isBuilding(id string) bool {
	for _, r := range c.builds.Running() {
		if r == id {
			return true
		}
	}
	return false
}
