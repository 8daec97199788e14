package v1

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

// Stub services with overridable function fields so each test wires
// only the calls it expects. Unset calls fail the test via the nil
// function panic, which gin's recovery turns into a 500.

type stubAuthService struct {
	loginFn func(ctx context.Context, params services.LoginParams) (*services.LoginResult, error)
	parseFn func(token string) (*jwt.RegisteredClaims, error)
}

func (s *stubAuthService) Login(ctx context.Context, params services.LoginParams) (*services.LoginResult, error) {
	return s.loginFn(ctx, params)
}

func (s *stubAuthService) ParseAccessToken(token string) (*jwt.RegisteredClaims, error) {
	return s.parseFn(token)
}

type stubUserService struct {
	registerFn func(ctx context.Context, params services.RegisterParams) (*models.User, error)
	getByIDFn  func(ctx context.Context, userID string) (*models.User, error)
	listFn     func(ctx context.Context) ([]*models.User, error)
}

func (s *stubUserService) Register(ctx context.Context, params services.RegisterParams) (*models.User, error) {
	return s.registerFn(ctx, params)
}

func (s *stubUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getByIDFn(ctx, userID)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.listFn(ctx)
}

type stubProjectService struct {
	createFn  func(ctx context.Context, ownerID string, params services.CreateProjectParams) (*models.Project, error)
	listFn    func(ctx context.Context, userID string) ([]*models.Project, error)
	getByIDFn func(ctx context.Context, projectID, userID string) (*models.Project, error)
	updateFn  func(ctx context.Context, projectID, ownerID string, params services.UpdateProjectParams) (*models.Project, error)
	deleteFn  func(ctx context.Context, projectID, ownerID string) error
}

func (s *stubProjectService) CreateProject(ctx context.Context, ownerID string, params services.CreateProjectParams) (*models.Project, error) {
	return s.createFn(ctx, ownerID, params)
}

func (s *stubProjectService) ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	return s.listFn(ctx, userID)
}

func (s *stubProjectService) GetProjectByID(ctx context.Context, projectID, userID string) (*models.Project, error) {
	return s.getByIDFn(ctx, projectID, userID)
}

func (s *stubProjectService) UpdateProject(ctx context.Context, projectID, ownerID string, params services.UpdateProjectParams) (*models.Project, error) {
	return s.updateFn(ctx, projectID, ownerID, params)
}

func (s *stubProjectService) DeleteProject(ctx context.Context, projectID, ownerID string) error {
	return s.deleteFn(ctx, projectID, ownerID)
}

type stubTaskService struct {
	createFn  func(ctx context.Context, projectID, ownerID string, params services.CreateTaskParams) (*models.Task, error)
	listFn    func(ctx context.Context, projectID, userID string) ([]*models.Task, error)
	getByIDFn func(ctx context.Context, projectID, taskID, userID string) (*models.Task, error)
	updateFn  func(ctx context.Context, projectID, taskID, ownerID string, params services.UpdateTaskParams) (*models.Task, error)
	deleteFn  func(ctx context.Context, projectID, taskID, ownerID string) error
}

func (s *stubTaskService) CreateTask(ctx context.Context, projectID, ownerID string, params services.CreateTaskParams) (*models.Task, error) {
	return s.createFn(ctx, projectID, ownerID, params)
}

func (s *stubTaskService) ListTasks(ctx context.Context, projectID, userID string) ([]*models.Task, error) {
	return s.listFn(ctx, projectID, userID)
}

func (s *stubTaskService) GetTaskByID(ctx context.Context, projectID, taskID, userID string) (*models.Task, error) {
	return s.getByIDFn(ctx, projectID, taskID, userID)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, projectID, taskID, ownerID string, params services.UpdateTaskParams) (*models.Task, error) {
	return s.updateFn(ctx, projectID, taskID, ownerID, params)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, projectID, taskID, ownerID string) error {
	return s.deleteFn(ctx, projectID, taskID, ownerID)
}

type stubCommentService struct {
	listFn   func(ctx context.Context, projectID, userID string) ([]*models.Comment, error)
	createFn func(ctx context.Context, projectID, authorID, body string) (*models.Comment, error)
	updateFn func(ctx context.Context, projectID, commentID, callerID, body string) (*models.Comment, error)
	deleteFn func(ctx context.Context, projectID, commentID, callerID string) error
}

func (s *stubCommentService) ListComments(ctx context.Context, projectID, userID string) ([]*models.Comment, error) {
	return s.listFn(ctx, projectID, userID)
}

func (s *stubCommentService) CreateComment(ctx context.Context, projectID, authorID, body string) (*models.Comment, error) {
	return s.createFn(ctx, projectID, authorID, body)
}

func (s *stubCommentService) UpdateComment(ctx context.Context, projectID, commentID, callerID, body string) (*models.Comment, error) {
	return s.updateFn(ctx, projectID, commentID, callerID, body)
}

func (s *stubCommentService) DeleteComment(ctx context.Context, projectID, commentID, callerID string) error {
	return s.deleteFn(ctx, projectID, commentID, callerID)
}

type testEnv struct {
	auth     *stubAuthService
	users    *stubUserService
	projects *stubProjectService
	tasks    *stubTaskService
	comments *stubCommentService
	handler  Handler
	router   *gin.Engine
}

const testUserID = "user-1"

// newTestEnv builds a router that authenticates every request as
// testUserID, bypassing the token middleware.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:     &stubAuthService{},
		users:    &stubUserService{},
		projects: &stubProjectService{},
		tasks:    &stubTaskService{},
		comments: &stubCommentService{},
	}
	env.handler = New(zerolog.Nop(), env.auth, env.users, env.projects, env.tasks, env.comments)

	env.router = gin.New()
	env.router.Use(func(c *gin.Context) {
		c.Set(userIDCtxKey, testUserID)
		c.Next()
	})
	registerTestRoutes(env.router, env.handler)
	return env
}

func registerTestRoutes(router *gin.Engine, handler Handler) {
	router.POST("/auth/login", handler.HandleLogin)
	router.POST("/users/register", handler.HandleRegister)
	router.GET("/users/me", handler.HandleGetMe)
	router.GET("/users/", handler.HandleListUsers)

	router.POST("/projects/", handler.HandleCreateProject)
	router.GET("/projects/", handler.HandleListProjects)
	router.GET("/projects/:project_id", handler.HandleGetProject)
	router.PUT("/projects/:project_id", handler.HandleUpdateProject)
	router.DELETE("/projects/:project_id", handler.HandleDeleteProject)

	router.POST("/projects/:project_id/comments/", handler.HandleCreateComment)
	router.GET("/projects/:project_id/comments/", handler.HandleListComments)
	router.PATCH("/projects/:project_id/comments/:comment_id", handler.HandleUpdateComment)
	router.DELETE("/projects/:project_id/comments/:comment_id", handler.HandleDeleteComment)

	router.POST("/project/:project_id/tasks/", handler.HandleCreateTask)
	router.GET("/project/:project_id/tasks/", handler.HandleListTasks)
	router.GET("/project/:project_id/tasks/:task_id", handler.HandleGetTask)
	router.PUT("/project/:project_id/tasks/:task_id", handler.HandleUpdateTask)
	router.PATCH("/project/:project_id/tasks/:task_id", handler.HandleUpdateTask)
	router.DELETE("/project/:project_id/tasks/:task_id", handler.HandleDeleteTask)
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, w.Code, w.Body.String())
	}
}

func assertErrorMessage(t *testing.T, w *httptest.ResponseRecorder, want string) {
	t.Helper()
	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("expected error message %q, got body %s", want, w.Body.String())
	}
}
