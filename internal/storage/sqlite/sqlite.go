package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
	"github.com/slok/appforge/internal/storage"
	"github.com/slok/appforge/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

var _ storage.Repository = &Repository{}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	// The busy timeout lets a `watch` process read while a build process writes ticks.
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

const selectColumns = `
	id, name, description,
	status, progress,
	type, framework, deployment,
	created_at
`

// CreateProject creates a new project in the repository.
func (r *Repository) CreateProject(ctx context.Context, p model.Project) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	query := `
		INSERT INTO projects (
			id, name, description,
			status, progress,
			type, framework, deployment,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		p.ID,
		p.Name,
		p.Description,
		p.Status,
		p.Progress,
		p.Type,
		p.Framework,
		p.Deployment,
		p.CreatedAt.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: projects.") {
			return fmt.Errorf("project %s already exists: %w", p.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert project: %w", err)
	}

	r.logger.Debugf("Created project in repository: %s", p.ID)
	return nil
}

// GetProject retrieves a project by ID.
func (r *Repository) GetProject(ctx context.Context, id string) (*model.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects WHERE id = ?`

	project, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query project: %w", err)
	}

	return &project, nil
}

// ListProjects returns all projects, newest first.
func (r *Repository) ListProjects(ctx context.Context) ([]model.Project, error) {
	query := `SELECT ` + selectColumns + ` FROM projects ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		project, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return projects, nil
}

// UpdateProject updates an existing project. The creation time is immutable and is never updated.
func (r *Repository) UpdateProject(ctx context.Context, p model.Project) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	query := `
		UPDATE projects
		SET
			name = ?,
			description = ?,
			status = ?,
			progress = ?,
			type = ?,
			framework = ?,
			deployment = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		p.Name,
		p.Description,
		p.Status,
		p.Progress,
		p.Type,
		p.Framework,
		p.Deployment,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("could not update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project %s: %w", p.ID, model.ErrNotFound)
	}

	r.logger.Debugf("Updated project in repository: %s", p.ID)
	return nil
}

// DeleteProject deletes a project.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted project from repository: %s", id)
	return nil
}

// ClaimBuild gives the build of a building project to the lease owner.
func (r *Repository) ClaimBuild(ctx context.Context, id string, lease model.BuildLease, now time.Time) error {
	query := `
		UPDATE projects
		SET
			build_owner = ?,
			build_lease_until = ?
		WHERE id = ?
			AND status = ?
			AND (build_owner = '' OR build_owner = ? OR build_lease_until <= ?)
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		lease.Owner,
		lease.Until.UnixMilli(),
		id,
		model.ProjectStatusBuilding,
		lease.Owner,
		now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("could not claim build: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return r.claimError(ctx, id)
	}

	r.logger.Debugf("Build of project %s claimed by %s", id, lease.Owner)
	return nil
}

func (r *Repository) claimError(ctx context.Context, id string) error {
	var status model.ProjectStatus
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT status, build_owner FROM projects WHERE id = ?`, id).Scan(&status, &owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
		}
		return fmt.Errorf("could not query project: %w", err)
	}

	if status != model.ProjectStatusBuilding {
		return fmt.Errorf("project %s is %s: %w", id, status, model.ErrNotValid)
	}

	return fmt.Errorf("project %s build is owned by %s: %w", id, owner, model.ErrConflict)
}

// AdvanceBuild stores the new state of a building project owned by the lease owner.
// Only the build state columns are written.
func (r *Repository) AdvanceBuild(ctx context.Context, p model.Project, fromProgress float64, lease model.BuildLease) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	owner, until := lease.Owner, lease.Until.UnixMilli()
	if !p.IsBuilding() {
		owner, until = "", 0
	}

	query := `
		UPDATE projects
		SET
			status = ?,
			progress = ?,
			deployment = ?,
			build_owner = ?,
			build_lease_until = ?
		WHERE id = ?
			AND status = ?
			AND progress = ?
			AND build_owner = ?
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		p.Status,
		p.Progress,
		p.Deployment,
		owner,
		until,
		p.ID,
		model.ProjectStatusBuilding,
		fromProgress,
		lease.Owner,
	)
	if err != nil {
		return fmt.Errorf("could not advance build: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetProject(ctx, p.ID); err != nil {
			return err
		}
		return fmt.Errorf("project %s changed since read: %w", p.ID, model.ErrConflict)
	}

	return nil
}

// ReleaseBuild drops the build lease of the owner.
func (r *Repository) ReleaseBuild(ctx context.Context, id, owner string) error {
	query := `
		UPDATE projects
		SET
			build_owner = '',
			build_lease_until = 0
		WHERE id = ? AND build_owner = ?
	`

	if _, err := r.db.ExecContext(ctx, query, id, owner); err != nil {
		return fmt.Errorf("could not release build: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanRow(s scanner) (model.Project, error) {
	var p model.Project
	var createdAt sql.NullInt64

	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.Progress,
		&p.Type,
		&p.Framework,
		&p.Deployment,
		&createdAt,
	)
	if err != nil {
		return model.Project{}, err
	}

	if !createdAt.Valid {
		return model.Project{}, fmt.Errorf("created_at is required")
	}
	p.CreatedAt = timeFromUnix(createdAt.Int64)

	return p, nil
}

func timeFromUnix(unix int64) time.Time { return time.Unix(unix, 0).UTC() }
