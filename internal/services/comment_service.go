package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
)

type commentServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewCommentService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) CommentService {
	return &commentServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

// validateCommentBody trims surrounding whitespace and rejects bodies
// that are empty after trimming. The trimmed body is what gets stored.
func validateCommentBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", ErrEmptyCommentBody
	}
	return trimmed, nil
}

func (s *commentServiceImpl) ListComments(ctx context.Context, projectID, userID string) ([]*models.Comment, error) {
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

	// Chronological discussion order.
	const selectCommentsByProjectQuery = `
SELECT c.id,
       c.body,
       c.edited,
       c.project_id,
       c.author_id,
       u.username,
       c.created_at,
       c.updated_at
FROM comments c
         JOIN users u ON u.id = c.author_id
WHERE c.project_id = $1
ORDER BY c.created_at
`
	rows, err := s.pgPool.Query(
		ctx,
		selectCommentsByProjectQuery,
		projectID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select comments by project")
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment := new(models.Comment)
		err = rows.Scan(
			&comment.ID,
			&comment.Body,
			&comment.Edited,
			&comment.ProjectID,
			&comment.AuthorID,
			&comment.AuthorUsername,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan comment")
			return nil, err
		}
		comments = append(comments, comment)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(comments)).
		Str("project_id", projectID).
		Msg("selected comments by project")
	return comments, nil
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, projectID, authorID, body string) (*models.Comment, error) {
	trimmed, err := validateCommentBody(body)
	if err != nil {
		s.logger.Error().
			Str("project_id", projectID).
			Msg("empty comment body")
		return nil, err
	}

	now := time.Now()
	comment := models.Comment{
		Body:      trimmed,
		ProjectID: projectID,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	commentUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate comment uuid")
		return nil, err
	}
	comment.ID = commentUUID.String()

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Any member may comment: owner or assignee of some task.
	_, err = resolveProjectAccess(ctx, tx, projectID, authorID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			s.logger.Error().
				Str("project_id", projectID).
				Str("user_id", authorID).
				Msg("project not found")
			return nil, err
		}

		s.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to resolve project access")
		return nil, err
	}

	const insertCommentQuery = `
INSERT INTO comments (id,
                      body,
                      edited,
                      project_id,
                      author_id,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = tx.Exec(
		ctx,
		insertCommentQuery,
		comment.ID,
		comment.Body,
		comment.Edited,
		comment.ProjectID,
		comment.AuthorID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert comment")
		return nil, err
	}

	const selectAuthorUsernameQuery = `
SELECT username
FROM users
WHERE id = $1
`
	err = tx.QueryRow(
		ctx,
		selectAuthorUsernameQuery,
		comment.AuthorID,
	).Scan(&comment.AuthorUsername)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select author username")
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
		Str("comment_id", comment.ID).
		Str("project_id", comment.ProjectID).
		Msg("created comment")
	return &comment, nil
}

// getCommentForUpdate loads the comment row within the caller's
// transaction and enforces authorship.
func (s *commentServiceImpl) getCommentForUpdate(ctx context.Context, tx pgx.Tx, projectID, commentID, callerID string) (*models.Comment, error) {
	const selectCommentByIDQuery = `
SELECT c.id,
       c.body,
       c.edited,
       c.project_id,
       c.author_id,
       u.username,
       c.created_at,
       c.updated_at
FROM comments c
         JOIN users u ON u.id = c.author_id
WHERE c.id = $1
  AND c.project_id = $2
`
	comment := new(models.Comment)
	err := tx.QueryRow(
		ctx,
		selectCommentByIDQuery,
		commentID,
		projectID,
	).Scan(
		&comment.ID,
		&comment.Body,
		&comment.Edited,
		&comment.ProjectID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("comment_id", commentID).
				Str("project_id", projectID).
				Msg("comment not found")
			return nil, ErrCommentNotFound
		}

		s.logger.Error().
			Err(err).
			Str("comment_id", commentID).
			Msg("failed to select comment by id")
		return nil, err
	}

	if comment.AuthorID != callerID {
		s.logger.Error().
			Str("comment_id", comment.ID).
			Str("author_id", comment.AuthorID).
			Str("user_id", callerID).
			Msg("caller is not the comment author")
		return nil, ErrNotCommentAuthor
	}
	return comment, nil
}

func (s *commentServiceImpl) UpdateComment(ctx context.Context, projectID, commentID, callerID, body string) (*models.Comment, error) {
	trimmed, err := validateCommentBody(body)
	if err != nil {
		s.logger.Error().
			Str("comment_id", commentID).
			Msg("empty comment body")
		return nil, err
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = resolveProjectAccess(ctx, tx, projectID, callerID)
	if err != nil {
		return nil, err
	}

	comment, err := s.getCommentForUpdate(ctx, tx, projectID, commentID, callerID)
	if err != nil {
		return nil, err
	}

	// The edited flag flips the first time the stored body actually
	// changes and never reverts. Rewriting the identical text is a
	// no-op: no write, no updated_at bump.
	if comment.Body != trimmed {
		comment.Body = trimmed
		comment.Edited = true
		comment.UpdatedAt = time.Now()

		const updateCommentQuery = `
UPDATE comments
SET body       = $1,
    edited     = TRUE,
    updated_at = $2
WHERE id = $3
`
		_, err = tx.Exec(
			ctx,
			updateCommentQuery,
			comment.Body,
			comment.UpdatedAt,
			comment.ID,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("comment_id", comment.ID).
				Msg("failed to update comment")
			return nil, err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("comment_id", comment.ID).
		Str("project_id", comment.ProjectID).
		Msg("updated comment")
	return comment, nil
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, projectID, commentID, callerID string) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = resolveProjectAccess(ctx, tx, projectID, callerID)
	if err != nil {
		return err
	}

	comment, err := s.getCommentForUpdate(ctx, tx, projectID, commentID, callerID)
	if err != nil {
		return err
	}

	const deleteCommentQuery = `
DELETE
FROM comments
WHERE id = $1
`
	_, err = tx.Exec(
		ctx,
		deleteCommentQuery,
		comment.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("comment_id", comment.ID).
			Msg("failed to delete comment")
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("comment_id", comment.ID).
		Str("project_id", projectID).
		Msg("deleted comment")
	return nil
}
