package lib

import (
	"time"

	"github.com/slok/appforge/internal/model"
)

// ProjectStatus represents the build state of a project.
//
// The lifecycle is:
//
//	building -> ready
//
// Projects in error status are never built.
type ProjectStatus string

const (
	// ProjectStatusBuilding indicates the project is being built.
	ProjectStatusBuilding ProjectStatus = "building"
	// ProjectStatusReady indicates the build finished, progress is 100.
	ProjectStatusReady ProjectStatus = "ready"
	// ProjectStatusError indicates the project failed.
	ProjectStatusError ProjectStatus = "error"
)

// ProjectType is the kind of application a project generates.
type ProjectType string

const (
	ProjectTypeWebApp    ProjectType = "web-app"
	ProjectTypeWebsite   ProjectType = "website"
	ProjectTypeMobileApp ProjectType = "mobile-app"
)

// DeploymentStatus is the deployment state of a project.
type DeploymentStatus string

const (
	DeploymentStatusPending  DeploymentStatus = "pending"
	DeploymentStatusDeployed DeploymentStatus = "deployed"
	DeploymentStatusFailed   DeploymentStatus = "failed"
)

// Project represents a project returned by the SDK.
//
// This is a read-only snapshot of the project at the time of the API call.
// Use [Client.GetProject] to get the latest state.
type Project struct {
	// ID is the unique identifier, a ULID for submitted projects.
	ID          string
	Name        string
	Description string
	Status      ProjectStatus
	// Progress is the build completion percentage in [0, 100].
	Progress   float64
	CreatedAt  time.Time
	Type       ProjectType
	Framework  string
	Deployment DeploymentStatus
}

// SubmitProjectOpts are the options to submit a new project.
type SubmitProjectOpts struct {
	// Description is the prompt describing the application. Required.
	Description string
	// Name defaults to a name derived from the description.
	Name string
	// Type defaults to [ProjectTypeWebApp].
	Type ProjectType
	// Framework defaults to "React + FastAPI".
	Framework string
}

// ListProjectsOpts are the options to list projects.
type ListProjectsOpts struct {
	// Status filters the projects by status when set.
	Status *ProjectStatus
}

// SeedProjectsResult is the result of seeding the demo projects.
type SeedProjectsResult struct {
	Created []string
	Skipped []string
}

func toInternalProjectConfig(opts SubmitProjectOpts) model.ProjectConfig {
	return model.ProjectConfig{
		Description: opts.Description,
		Name:        opts.Name,
		Type:        model.ProjectType(opts.Type),
		Framework:   opts.Framework,
	}
}

func toInternalStatusFilter(opts *ListProjectsOpts) *model.ProjectStatus {
	if opts == nil || opts.Status == nil {
		return nil
	}
	s := model.ProjectStatus(*opts.Status)
	return &s
}

func fromInternalProject(p model.Project) Project {
	return Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      ProjectStatus(p.Status),
		Progress:    p.Progress,
		CreatedAt:   p.CreatedAt,
		Type:        ProjectType(p.Type),
		Framework:   p.Framework,
		Deployment:  DeploymentStatus(p.Deployment),
	}
}

func fromInternalProjectList(ps []model.Project) []Project {
	result := make([]Project, len(ps))
	for i, p := range ps {
		result[i] = fromInternalProject(p)
	}
	return result
}
