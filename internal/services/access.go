package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the access
// checks below can run inside the same transaction as the mutation
// they guard.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const selectAccessibleProjectQuery = `
SELECT DISTINCT p.id,
                p.name,
                p.description,
                p.owner_id,
                p.due_date,
                p.is_archived,
                p.status,
                p.priority,
                p.created_at,
                p.updated_at
FROM projects p
         LEFT JOIN tasks t ON t.project_id = p.id
WHERE p.id = $1
  AND (p.owner_id = $2 OR t.assignee_id = $2)
`

// resolveProjectAccess fetches the project iff userID is its owner or
// is assigned to at least one of its tasks. A project the user can't
// see is indistinguishable from a missing one: both return
// ErrProjectNotFound.
func resolveProjectAccess(ctx context.Context, q querier, projectID, userID string) (*models.Project, error) {
	project := new(models.Project)
	err := q.QueryRow(
		ctx,
		selectAccessibleProjectQuery,
		projectID,
		userID,
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
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// resolveProjectOwnership resolves access first, then requires userID
// to be the project owner. An assignee with read access gets
// ErrNotProjectOwner, not a not-found.
func resolveProjectOwnership(ctx context.Context, q querier, projectID, userID string) (*models.Project, error) {
	project, err := resolveProjectAccess(ctx, q, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != userID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}
