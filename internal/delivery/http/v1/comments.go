package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

type commentAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type commentResponse struct {
	ID        string        `json:"id"`
	Body      string        `json:"body"`
	Edited    bool          `json:"edited"`
	ProjectID string        `json:"project_id"`
	Author    commentAuthor `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func newCommentResponse(comment *models.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		Edited:    comment.Edited,
		ProjectID: comment.ProjectID,
		Author: commentAuthor{
			ID:       comment.AuthorID,
			Username: comment.AuthorUsername,
		},
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

type commentBodyRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

func (h *handlerImpl) HandleListComments(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")

	comments, err := h.comments.ListComments(c, projectID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to list comments")
		if errors.Is(err, services.ErrProjectNotFound) {
			abort(c, newNotFoundError("Project not found"))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]commentResponse, len(comments))
	for i, comment := range comments {
		response[i] = newCommentResponse(comment)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleCreateComment(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")

	var req commentBodyRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	comment, err := h.comments.CreateComment(c, projectID, userID, req.Body)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to create comment")
		switch {
		case errors.Is(err, services.ErrEmptyCommentBody):
			abort(c, newBadRequestError("Comment body cannot be empty"))
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError("Project not found"))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, newCommentResponse(comment))
}

func (h *handlerImpl) HandleUpdateComment(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")
	commentID := c.Param("comment_id")

	var req commentBodyRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	comment, err := h.comments.UpdateComment(c, projectID, commentID, userID, req.Body)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("comment_id", commentID).
			Msg("failed to update comment")
		switch {
		case errors.Is(err, services.ErrEmptyCommentBody):
			abort(c, newBadRequestError("Comment body cannot be empty"))
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError("Project not found"))
		case errors.Is(err, services.ErrCommentNotFound):
			abort(c, newNotFoundError("Comment not found"))
		// Authorship failures are reported, not hidden behind 404.
		case errors.Is(err, services.ErrNotCommentAuthor):
			abort(c, newForbiddenError("Not authorized to update this comment"))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newCommentResponse(comment))
}

func (h *handlerImpl) HandleDeleteComment(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")
	commentID := c.Param("comment_id")

	err := h.comments.DeleteComment(c, projectID, commentID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("comment_id", commentID).
			Msg("failed to delete comment")
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError("Project not found"))
		case errors.Is(err, services.ErrCommentNotFound):
			abort(c, newNotFoundError("Comment not found"))
		case errors.Is(err, services.ErrNotCommentAuthor):
			abort(c, newForbiddenError("Not authorized to delete this comment"))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Status(http.StatusNoContent)
}
