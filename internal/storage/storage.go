package storage

import (
	"context"
	"time"

	"github.com/slok/appforge/internal/model"
)

// Repository is the interface for project persistence.
type Repository interface {
	CreateProject(ctx context.Context, p model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	// ListProjects returns the projects sorted by creation time, newest first.
	ListProjects(ctx context.Context) ([]model.Project, error)
	UpdateProject(ctx context.Context, p model.Project) error
	DeleteProject(ctx context.Context, id string) error

	// ClaimBuild gives the build of a building project to the lease owner. It succeeds
	// when the project is not claimed, the current lease has expired at now or is
	// already held by the same owner, and fails with model.ErrConflict otherwise.
	// A project that is not building fails with model.ErrNotValid.
	ClaimBuild(ctx context.Context, id string, lease model.BuildLease, now time.Time) error
	// AdvanceBuild stores the new state of a building project only if it is still
	// building at fromProgress and owned by the lease owner, renewing the lease.
	// Once the project leaves building the lease is dropped.
	// It fails with model.ErrConflict when the project changed or is owned by other.
	AdvanceBuild(ctx context.Context, p model.Project, fromProgress float64, lease model.BuildLease) error
	// ReleaseBuild drops the build lease of the owner, if it still holds it.
	ReleaseBuild(ctx context.Context, id, owner string) error
}
