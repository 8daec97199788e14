package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortOrder   *int       `json:"order,omitempty"`
	ProjectID   string     `json:"project_id"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		SortOrder:   task.SortOrder,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// abortTaskError maps every access, ownership and existence failure on
// the task surface to 403 with the failure message as the detail.
func (h *handlerImpl) abortTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		abort(c, newForbiddenError("Project not found"))
	case errors.Is(err, services.ErrNotProjectOwner):
		abort(c, newForbiddenError("Not authorized to access this project"))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newForbiddenError("Task not found"))
	case errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority):
		abort(c, newBadRequestError(err.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortOrder   *int       `json:"order,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, projectID, userID, services.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      taskStatusPtr(req.Status),
		Priority:    taskPriorityPtr(req.Priority),
		DueDate:     req.DueDate,
		SortOrder:   req.SortOrder,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to create task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")

	tasks, err := h.tasks.ListTasks(c, projectID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", projectID).
			Msg("failed to list tasks")
		h.abortTaskError(c, err)
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")
	taskID := c.Param("task_id")

	task, err := h.tasks.GetTaskByID(c, projectID, taskID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to get task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty" binding:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SortOrder   *int       `json:"order,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
}

// HandleUpdateTask serves both PUT and PATCH: only the fields present
// in the payload change.
func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")
	taskID := c.Param("task_id")

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, projectID, taskID, userID, services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      taskStatusPtr(req.Status),
		Priority:    taskPriorityPtr(req.Priority),
		DueDate:     req.DueDate,
		SortOrder:   req.SortOrder,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		h.abortTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	projectID := c.Param("project_id")
	taskID := c.Param("task_id")

	err := h.tasks.DeleteTask(c, projectID, taskID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		h.abortTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func taskStatusPtr(s *string) *models.TaskStatus {
	if s == nil {
		return nil
	}
	v := models.TaskStatus(*s)
	return &v
}

func taskPriorityPtr(s *string) *models.TaskPriority {
	if s == nil {
		return nil
	}
	v := models.TaskPriority(*s)
	return &v
}
