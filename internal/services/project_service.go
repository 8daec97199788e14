package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
)

type projectServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewProjectService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) ProjectService {
	return &projectServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *projectServiceImpl) CreateProject(ctx context.Context, ownerID string, params CreateProjectParams) (*models.Project, error) {
	now := time.Now()
	project := models.Project{
		Name:        params.Name,
		Description: params.Description,
		OwnerID:     ownerID,
		DueDate:     params.DueDate,
		Status:      models.ProjectStatusBacklog,
		Priority:    models.ProjectPriorityMedium,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.IsArchived != nil {
		project.IsArchived = *params.IsArchived
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = *params.Status
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, ErrInvalidProjectPriority
		}
		project.Priority = *params.Priority
	}

	projectUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate project uuid")
		return nil, err
	}
	project.ID = projectUUID.String()

	const insertProjectQuery = `
INSERT INTO projects (id,
                      name,
                      description,
                      owner_id,
                      due_date,
                      is_archived,
                      status,
                      priority,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertProjectQuery,
		project.ID,
		project.Name,
		project.Description,
		project.OwnerID,
		project.DueDate,
		project.IsArchived,
		string(project.Status),
		string(project.Priority),
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("owner_id", project.OwnerID).
		Msg("created project")
	return &project, nil
}

func (s *projectServiceImpl) ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	// UNION is distinct, so a project the user both owns and is
	// assigned to shows up once. Postgres sorts ascending with NULLS
	// LAST by default; the explicit clause documents that dated
	// projects come first and the undated tail is ordered by creation.
	const selectProjectsForUserQuery = `
SELECT id, name, description, owner_id, due_date, is_archived, status, priority, created_at, updated_at
FROM projects
WHERE owner_id = $1
UNION
SELECT p.id, p.name, p.description, p.owner_id, p.due_date, p.is_archived, p.status, p.priority, p.created_at, p.updated_at
FROM projects p
         JOIN tasks t ON t.project_id = p.id
WHERE t.assignee_id = $1
ORDER BY due_date ASC NULLS LAST, created_at ASC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectProjectsForUserQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select projects for user")
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := new(models.Project)
		err = rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.OwnerID,
			&project.DueDate,
			&project.IsArchived,
			&project.Status,
			&project.Priority,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan project")
			return nil, err
		}
		projects = append(projects, project)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(projects)).
		Str("user_id", userID).
		Msg("selected projects for user")
	return projects, nil
}

func (s *projectServiceImpl) GetProjectByID(ctx context.Context, projectID, userID string) (*models.Project, error) {
	project, err := resolveProjectAccess(ctx, s.pgPool, projectID, userID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			s.logger.Error().
				Str("project_id", projectID).
				Str("user_id", userID).
				Msg("project not found")
			return nil, err
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to resolve project access")
		return nil, err
	}
	return project, nil
}

func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID, ownerID string, params UpdateProjectParams) (*models.Project, error) {
	var status, priority *string
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		v := string(*params.Status)
		status = &v
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, ErrInvalidProjectPriority
		}
		v := string(*params.Priority)
		priority = &v
	}

	// The ownership predicate is inline, so the check and the write
	// are a single statement and a concurrent delete can't slip
	// between them. A missing project and a project owned by someone
	// else both come back as zero rows.
	const updateProjectQuery = `
UPDATE projects
SET name        = COALESCE($1, name),
    description = COALESCE($2, description),
    due_date    = COALESCE($3, due_date),
    is_archived = COALESCE($4, is_archived),
    status      = COALESCE($5, status),
    priority    = COALESCE($6, priority),
    updated_at  = $7
WHERE id = $8
  AND owner_id = $9
RETURNING id, name, description, owner_id, due_date, is_archived, status, priority, created_at, updated_at
`
	project := new(models.Project)
	err := s.pgPool.QueryRow(
		ctx,
		updateProjectQuery,
		params.Name,
		params.Description,
		params.DueDate,
		params.IsArchived,
		status,
		priority,
		time.Now(),
		projectID,
		ownerID,
	).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.OwnerID,
		&project.DueDate,
		&project.IsArchived,
		&project.Status,
		&project.Priority,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("project_id", projectID).
				Str("owner_id", ownerID).
				Msg("project not found")
			return nil, ErrProjectNotFound
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to update project")
		return nil, err
	}

	s.logger.Info().
		Str("project_id", project.ID).
		Str("owner_id", ownerID).
		Msg("updated project")
	return project, nil
}

func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID, ownerID string) error {
	// Comments and tasks go with the project through ON DELETE CASCADE.
	const deleteProjectQuery = `
DELETE
FROM projects
WHERE id = $1
  AND owner_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteProjectQuery,
		projectID,
		ownerID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("project_id", projectID).
			Str("owner_id", ownerID).
			Msg("project not found")
		return ErrProjectNotFound
	}

	s.logger.Info().
		Str("project_id", projectID).
		Str("owner_id", ownerID).
		Msg("deleted project")
	return nil
}
