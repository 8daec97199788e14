package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleGetMe(c *gin.Context)
	HandleListUsers(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateProject(c *gin.Context)
	HandleListProjects(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleUpdateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleCreateComment(c *gin.Context)
	HandleListComments(c *gin.Context)
	HandleUpdateComment(c *gin.Context)
	HandleDeleteComment(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	users    services.UserService
	projects services.ProjectService
	tasks    services.TaskService
	comments services.CommentService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	userService services.UserService,
	projectService services.ProjectService,
	taskService services.TaskService,
	commentService services.CommentService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		users:    userService,
		projects: projectService,
		tasks:    taskService,
		comments: commentService,
	}
}

// currentUserID reads the principal set by the auth middleware. The
// same id gates access checks and mutations downstream.
func (h *handlerImpl) currentUserID(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get(userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return "", false
	}
	userID, _ := userIDValue.(string)
	return userID, true
}
