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

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const selectTaskColumns = `
SELECT id,
       title,
       description,
       status,
       priority,
       due_date,
       sort_order,
       project_id,
       assignee_id,
       created_at,
       updated_at
FROM tasks
`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.SortOrder,
		&task.ProjectID,
		&task.AssigneeID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, projectID, ownerID string, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := models.Task{
		Title:       params.Title,
		Description: params.Description,
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityMedium,
		DueDate:     params.DueDate,
		SortOrder:   params.SortOrder,
		ProjectID:   projectID,
		AssigneeID:  params.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *params.Status
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *params.Priority
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Only the project owner may add tasks; mere access is not enough.
	_, err = resolveProjectOwnership(ctx, tx, projectID, ownerID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) || errors.Is(err, ErrNotProjectOwner) {
			s.logger.Error().
				Str("project_id", projectID).
				Str("user_id", ownerID).
				Msg("project ownership check failed")
			return nil, err
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to resolve project ownership")
		return nil, err
	}

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   title,
                   description,
                   status,
                   priority,
                   due_date,
                   sort_order,
                   project_id,
                   assignee_id,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err = tx.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.SortOrder,
		task.ProjectID,
		task.AssigneeID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Msg("created task")
	return &task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, projectID, userID string) ([]*models.Task, error) {
	_, err := resolveProjectAccess(ctx, s.pgPool, projectID, userID)
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

	const selectTasksByProjectQuery = selectTaskColumns + `
WHERE project_id = $1
ORDER BY created_at
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByProjectQuery,
		projectID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by project")
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("project_id", projectID).
		Msg("selected tasks by project")
	return tasks, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, projectID, taskID, userID string) (*models.Task, error) {
	_, err := resolveProjectAccess(ctx, s.pgPool, projectID, userID)
	if err != nil {
		return nil, err
	}

	const selectTaskByIDQuery = selectTaskColumns + `
WHERE id = $1
  AND project_id = $2
`
	task, err := scanTask(s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		taskID,
		projectID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", taskID).
				Str("project_id", projectID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task by id")
		return nil, err
	}
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, projectID, taskID, ownerID string, params UpdateTaskParams) (*models.Task, error) {
	var status, priority *string
	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		v := string(*params.Status)
		status = &v
	}
	if params.Priority != nil {
		if !params.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		v := string(*params.Priority)
		priority = &v
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = resolveProjectOwnership(ctx, tx, projectID, ownerID)
	if err != nil {
		if !errors.Is(err, ErrProjectNotFound) && !errors.Is(err, ErrNotProjectOwner) {
			s.logger.Error().
				Err(err).
				Str("project_id", projectID).
				Msg("failed to resolve project ownership")
		}
		return nil, err
	}

	const updateTaskQuery = `
UPDATE tasks
SET title       = COALESCE($1, title),
    description = COALESCE($2, description),
    status      = COALESCE($3, status),
    priority    = COALESCE($4, priority),
    due_date    = COALESCE($5, due_date),
    sort_order  = COALESCE($6, sort_order),
    assignee_id = COALESCE($7, assignee_id),
    updated_at  = $8
WHERE id = $9
  AND project_id = $10
RETURNING id, title, description, status, priority, due_date, sort_order, project_id, assignee_id, created_at, updated_at
`
	task, err := scanTask(tx.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		status,
		priority,
		params.DueDate,
		params.SortOrder,
		params.AssigneeID,
		time.Now(),
		taskID,
		projectID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", taskID).
				Str("project_id", projectID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("project_id", task.ProjectID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, projectID, taskID, ownerID string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = resolveProjectOwnership(ctx, tx, projectID, ownerID)
	if err != nil {
		if !errors.Is(err, ErrProjectNotFound) && !errors.Is(err, ErrNotProjectOwner) {
			s.logger.Error().
				Err(err).
				Str("project_id", projectID).
				Msg("failed to resolve project ownership")
		}
		return err
	}

	const deleteTaskQuery = `
DELETE
FROM tasks
WHERE id = $1
  AND project_id = $2
`
	tag, err := tx.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		projectID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", taskID).
			Str("project_id", projectID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("project_id", projectID).
		Msg("deleted task")
	return nil
}
