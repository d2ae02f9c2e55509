// Package storagetest has the behaviour tests every storage.Repository must pass.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
)

var (
	createdAt = time.Date(2024, 12, 16, 9, 45, 0, 0, time.UTC)
	now       = time.Date(2024, 12, 16, 10, 0, 0, 0, time.UTC)
)

func building(id string, progress float64) model.Project {
	return model.Project{
		ID:          id,
		Name:        "Task Manager",
		Description: "Simple task manager with drag and drop",
		Status:      model.ProjectStatusBuilding,
		Progress:    progress,
		CreatedAt:   createdAt,
		Type:        model.ProjectTypeWebApp,
		Framework:   "React + FastAPI",
		Deployment:  model.DeploymentStatusPending,
	}
}

func ready(p model.Project) model.Project {
	p.Status = model.ProjectStatusReady
	p.Progress = model.ProgressMax
	p.Deployment = model.DeploymentStatusDeployed
	return p
}

func lease(owner string, ttl time.Duration) model.BuildLease {
	return model.BuildLease{Owner: owner, Until: now.Add(ttl)}
}

// TestBuildLeases checks the build ownership and conditional progress writes of a repository.
func TestBuildLeases(t *testing.T, newRepo func(t *testing.T) storage.Repository) {
	tests := map[string]struct {
		projects []model.Project
		actions  func(ctx context.Context, t *testing.T, repo storage.Repository) error
		expErr   error
		expStore *model.Project
	}{
		"Claiming an unclaimed building project should allow its owner to advance it.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				return repo.AdvanceBuild(ctx, building("p1", 25), 10, lease("a", time.Minute))
			},
			expStore: ptr(building("p1", 25)),
		},

		"Claiming a build owned by other should fail with a conflict.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				return repo.ClaimBuild(ctx, "p1", lease("b", time.Minute), now)
			},
			expErr:   model.ErrConflict,
			expStore: ptr(building("p1", 10)),
		},

		"Claiming again with the same owner should renew the lease.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				return repo.ClaimBuild(ctx, "p1", lease("a", time.Hour), now)
			},
			expStore: ptr(building("p1", 10)),
		},

		"Claiming a build with an expired lease should take it over from the previous owner.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Second), now))
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("b", time.Minute), now.Add(time.Second)))
				require.NoError(t, repo.AdvanceBuild(ctx, building("p1", 30), 10, lease("b", time.Minute)))

				// The previous owner can't write anymore.
				return repo.AdvanceBuild(ctx, building("p1", 15), 10, lease("a", time.Minute))
			},
			expErr:   model.ErrConflict,
			expStore: ptr(building("p1", 30)),
		},

		"Claiming a project that is not building should fail.": {
			projects: []model.Project{ready(building("p1", 0))},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				return repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now)
			},
			expErr:   model.ErrNotValid,
			expStore: ptr(ready(building("p1", 0))),
		},

		"Claiming a missing project should fail.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				return repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now)
			},
			expErr: model.ErrNotFound,
		},

		"Advancing from a stale progress should not overwrite the stored project.": {
			projects: []model.Project{building("p1", 80)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				require.NoError(t, repo.AdvanceBuild(ctx, building("p1", 90), 80, lease("a", time.Minute)))
				return repo.AdvanceBuild(ctx, building("p1", 85), 80, lease("a", time.Minute))
			},
			expErr:   model.ErrConflict,
			expStore: ptr(building("p1", 90)),
		},

		"Advancing a project that became ready should never take it back to building.": {
			projects: []model.Project{building("p1", 80)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				require.NoError(t, repo.UpdateProject(ctx, ready(building("p1", 80))))
				return repo.AdvanceBuild(ctx, building("p1", 85), 80, lease("a", time.Minute))
			},
			expErr:   model.ErrConflict,
			expStore: ptr(ready(building("p1", 80))),
		},

		"Advancing to ready should drop the lease.": {
			projects: []model.Project{building("p1", 80)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				require.NoError(t, repo.AdvanceBuild(ctx, ready(building("p1", 80)), 80, lease("a", time.Minute)))

				// Building again by other means, any owner can claim it.
				require.NoError(t, repo.UpdateProject(ctx, building("p1", 0)))
				return repo.ClaimBuild(ctx, "p1", lease("b", time.Minute), now)
			},
			expStore: ptr(building("p1", 0)),
		},

		"Advancing without a claim should fail.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				return repo.AdvanceBuild(ctx, building("p1", 20), 10, lease("a", time.Minute))
			},
			expErr:   model.ErrConflict,
			expStore: ptr(building("p1", 10)),
		},

		"Advancing a missing project should fail with not found.": {
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				return repo.AdvanceBuild(ctx, building("p1", 20), 10, lease("a", time.Minute))
			},
			expErr: model.ErrNotFound,
		},

		"Releasing a build should let other owners claim it.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				require.NoError(t, repo.ReleaseBuild(ctx, "p1", "a"))
				return repo.ClaimBuild(ctx, "p1", lease("b", time.Minute), now)
			},
			expStore: ptr(building("p1", 10)),
		},

		"Releasing a build owned by other should be a no-op.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				require.NoError(t, repo.ReleaseBuild(ctx, "p1", "b"))
				require.NoError(t, repo.ReleaseBuild(ctx, "missing", "a"))
				return repo.ClaimBuild(ctx, "p1", lease("b", time.Minute), now)
			},
			expErr:   model.ErrConflict,
			expStore: ptr(building("p1", 10)),
		},

		"Deleting a project should drop its lease.": {
			projects: []model.Project{building("p1", 10)},
			actions: func(ctx context.Context, t *testing.T, repo storage.Repository) error {
				require.NoError(t, repo.ClaimBuild(ctx, "p1", lease("a", time.Minute), now))
				require.NoError(t, repo.DeleteProject(ctx, "p1"))
				require.NoError(t, repo.CreateProject(ctx, building("p1", 0)))
				return repo.ClaimBuild(ctx, "p1", lease("b", time.Minute), now)
			},
			expStore: ptr(building("p1", 0)),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			for _, p := range test.projects {
				require.NoError(t, repo.CreateProject(ctx, p))
			}

			err := test.actions(ctx, t, repo)

			if test.expErr != nil {
				assert.True(t, errors.Is(err, test.expErr), "expected %v, got %v", test.expErr, err)
			} else {
				assert.NoError(t, err)
			}

			if test.expStore != nil {
				got, err := repo.GetProject(ctx, test.expStore.ID)
				require.NoError(t, err)
				assert.Equal(t, *test.expStore, *got)
			}
		})
	}
}

func ptr(p model.Project) *model.Project { return &p }
