package model

import (
	"fmt"
	"strings"
	"time"
)

// ProjectStatus represents the build status of a project.
type ProjectStatus string

const (
	// ProjectStatusBuilding indicates the project is being generated.
	ProjectStatusBuilding ProjectStatus = "building"
	// ProjectStatusReady indicates the project finished building and is deployed.
	ProjectStatusReady ProjectStatus = "ready"
	// ProjectStatusError indicates the project failed. Nothing transitions a project
	// into this status, it only comes from stored or seeded data.
	ProjectStatusError ProjectStatus = "error"
)

// Valid returns true if the status is a known one.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusBuilding, ProjectStatusReady, ProjectStatusError:
		return true
	}
	return false
}

// ProjectType is the kind of application a project generates. Descriptive only.
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

const (
	// ProgressMin is the lower bound of a project build progress.
	ProgressMin = 0.0
	// ProgressMax is the upper bound of a project build progress.
	ProgressMax = 100.0
)

const (
	// DefaultFramework is the framework used for projects submitted without one.
	DefaultFramework = "React + FastAPI"

	nameFromPromptMaxRunes = 30
)

// Project represents one generated application.
type Project struct {
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

// IsBuilding returns true if the project is still being built.
func (p Project) IsBuilding() bool { return p.Status == ProjectStatusBuilding }

// Validate checks the project state invariants.
func (p Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}

	if !p.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", p.Status, ErrNotValid)
	}

	if p.Progress < ProgressMin || p.Progress > ProgressMax {
		return fmt.Errorf("progress %.2f out of [0,100]: %w", p.Progress, ErrNotValid)
	}

	switch p.Status {
	case ProjectStatusReady:
		if p.Progress != ProgressMax {
			return fmt.Errorf("ready project must have 100 progress, got %.2f: %w", p.Progress, ErrNotValid)
		}
	case ProjectStatusBuilding:
		if p.Progress >= ProgressMax {
			return fmt.Errorf("building project must have progress below 100, got %.2f: %w", p.Progress, ErrNotValid)
		}
	}

	if p.CreatedAt.IsZero() {
		return fmt.Errorf("created at is required: %w", ErrNotValid)
	}

	return nil
}

// ProjectConfig is the user input used to create a new project.
type ProjectConfig struct {
	// Description is the prompt describing the application.
	Description string
	// Name is optional, when missing it will be derived from the description.
	Name      string
	Type      ProjectType
	Framework string
}

// Validate validates the project configuration.
func (c ProjectConfig) Validate() error {
	if strings.TrimSpace(c.Description) == "" {
		return fmt.Errorf("description is required: %w", ErrNotValid)
	}

	switch c.Type {
	case "", ProjectTypeWebApp, ProjectTypeWebsite, ProjectTypeMobileApp:
	default:
		return fmt.Errorf("unknown project type %q: %w", c.Type, ErrNotValid)
	}

	return nil
}

// WithDefaults returns a copy of the config with the missing optional fields set.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	c.Description = strings.TrimSpace(c.Description)
	if c.Name == "" {
		c.Name = NameFromPrompt(c.Description)
	}
	if c.Type == "" {
		c.Type = ProjectTypeWebApp
	}
	if c.Framework == "" {
		c.Framework = DefaultFramework
	}
	return c
}

// NameFromPrompt derives a display name from a prompt.
func NameFromPrompt(prompt string) string {
	runes := []rune(strings.TrimSpace(prompt))
	if len(runes) > nameFromPromptMaxRunes {
		runes = runes[:nameFromPromptMaxRunes]
	}
	return fmt.Sprintf("Project from: %q...", string(runes))
}
