package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

type projectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerID     string     `json:"owner_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsArchived  bool       `json:"is_archived"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newProjectResponse(project *models.Project) projectResponse {
	return projectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		DueDate:     project.DueDate,
		IsArchived:  project.IsArchived,
		Status:      string(project.Status),
		Priority:    string(project.Priority),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

type createProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsArchived  *bool      `json:"is_archived,omitempty"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=active completed blocked backlog"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req createProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.CreateProject(c, userID, services.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsArchived:  req.IsArchived,
		Status:      projectStatusPtr(req.Status),
		Priority:    projectPriorityPtr(req.Priority),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create project")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project))
}

func (h *handlerImpl) HandleListProjects(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.projects.ListProjectsForUser(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list projects")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]projectResponse, len(projects))
	for i, project := range projects {
		response[i] = newProjectResponse(project)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")

	project, err := h.projects.GetProjectByID(c, projectID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to get project")
		// Absence and lack of access look the same on purpose.
		if errors.Is(err, services.ErrProjectNotFound) {
			abort(c, newNotFoundError("Project not found or not authorized to view"))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project))
}

type updateProjectRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsArchived  *bool      `json:"is_archived,omitempty"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=active completed blocked backlog"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
}

func (h *handlerImpl) HandleUpdateProject(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")

	var req updateProjectRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	project, err := h.projects.UpdateProject(c, projectID, userID, services.UpdateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsArchived:  req.IsArchived,
		Status:      projectStatusPtr(req.Status),
		Priority:    projectPriorityPtr(req.Priority),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to update project")
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			abort(c, newNotFoundError("Project not found or not authorized to update"))
		case errors.Is(err, services.ErrInvalidProjectStatus),
			errors.Is(err, services.ErrInvalidProjectPriority):
			abort(c, newBadRequestError(err.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")

	err := h.projects.DeleteProject(c, projectID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to delete project")
		if errors.Is(err, services.ErrProjectNotFound) {
			abort(c, newNotFoundError("Project not found or not authorized to delete"))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusNoContent)
}

func projectStatusPtr(s *string) *models.ProjectStatus {
	if s == nil {
		return nil
	}
	v := models.ProjectStatus(*s)
	return &v
}

func projectPriorityPtr(s *string) *models.ProjectPriority {
	if s == nil {
		return nil
	}
	v := models.ProjectPriority(*s)
	return &v
}
