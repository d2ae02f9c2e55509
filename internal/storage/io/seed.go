package io

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/appforge/internal/model"
)

//go:embed seed/projects.yaml
var defaultSeedFS embed.FS

// DefaultSeedPath is the path of the bundled demo projects inside DefaultSeedFS.
const DefaultSeedPath = "seed/projects.yaml"

// DefaultSeedFS returns the filesystem with the bundled demo projects.
func DefaultSeedFS() fs.FS { return defaultSeedFS }

// ProjectSeedYAMLRepository loads seed projects from YAML files.
type ProjectSeedYAMLRepository struct {
	fs fs.FS
}

// NewProjectSeedYAMLRepository creates a new YAML seed repository.
func NewProjectSeedYAMLRepository(filesystem fs.FS) *ProjectSeedYAMLRepository {
	return &ProjectSeedYAMLRepository{fs: filesystem}
}

// GetProjects loads the projects of a seed file and returns validated domain models.
func (r *ProjectSeedYAMLRepository) GetProjects(ctx context.Context, path string) ([]model.Project, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	projects := make([]model.Project, 0, len(seed.Projects))
	seen := map[string]bool{}
	for i, p := range seed.Projects {
		mp, err := p.toModel()
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		if err := mp.Validate(); err != nil {
			return nil, fmt.Errorf("project %q: %w", mp.ID, err)
		}
		if seen[mp.ID] {
			return nil, fmt.Errorf("project %q is duplicated: %w", mp.ID, model.ErrNotValid)
		}
		seen[mp.ID] = true

		projects = append(projects, mp)
	}

	return projects, nil
}

// SeedFile represents the YAML structure of a seed file.
type SeedFile struct {
	Projects []ProjectSeed `yaml:"projects"`
}

// ProjectSeed represents the YAML structure of a seeded project.
type ProjectSeed struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Status      string  `yaml:"status"`
	Progress    float64 `yaml:"progress"`
	Created     string  `yaml:"created"`
	Type        string  `yaml:"type"`
	Framework   string  `yaml:"framework"`
	Deployment  string  `yaml:"deployment"`
}

func (p ProjectSeed) toModel() (model.Project, error) {
	if p.Created == "" {
		return model.Project{}, fmt.Errorf("created is required: %w", model.ErrNotValid)
	}
	createdAt, err := time.Parse(time.RFC3339, p.Created)
	if err != nil {
		return model.Project{}, fmt.Errorf("invalid created timestamp %q: %w", p.Created, model.ErrNotValid)
	}

	return model.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      model.ProjectStatus(p.Status),
		Progress:    p.Progress,
		CreatedAt:   createdAt.UTC(),
		Type:        model.ProjectType(p.Type),
		Framework:   p.Framework,
		Deployment:  model.DeploymentStatus(p.Deployment),
	}, nil
}
