package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrUserPasswordMismatch = errors.New("user password mismatch")

	ErrProjectNotFound        = errors.New("project not found")
	ErrNotProjectOwner        = errors.New("not authorized to access this project")
	ErrInvalidProjectStatus   = errors.New("invalid project status")
	ErrInvalidProjectPriority = errors.New("invalid project priority")

	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")

	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("not the comment author")
	ErrEmptyCommentBody = errors.New("comment body cannot be empty")
)

type AuthService interface {
	// Login authenticates the user by username and password
	// and issues a signed access token.
	//
	// It returns ErrUserNotFound if the user with the given
	// username doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// ParseAccessToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired. The token
	// subject is the authenticated user's ID.
	ParseAccessToken(token string) (*jwt.RegisteredClaims, error)
}

type UserService interface {
	// Register creates a user with the given username, email
	// and password. The password is hashed before it is stored.
	//
	// It returns ErrEmailTaken or ErrUsernameTaken if another
	// user already holds the email or username.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// ProjectService applies the visibility rules of the access resolver:
// a project is visible to its owner and to the assignee of any of its
// tasks, but only the owner may mutate it. Mutations on projects the
// caller can't touch report ErrProjectNotFound so that existence is
// never leaked to non-members.
type ProjectService interface {
	CreateProject(ctx context.Context, ownerID string, params CreateProjectParams) (*models.Project, error)
	ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, projectID, userID string) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID, ownerID string, params UpdateProjectParams) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID, ownerID string) error
}

// TaskService requires project ownership for every mutation and mere
// access for reads. Task assignment grants the assignee read access to
// the whole project but never write access.
type TaskService interface {
	CreateTask(ctx context.Context, projectID, ownerID string, params CreateTaskParams) (*models.Task, error)
	ListTasks(ctx context.Context, projectID, userID string) ([]*models.Task, error)
	GetTaskByID(ctx context.Context, projectID, taskID, userID string) (*models.Task, error)
	UpdateTask(ctx context.Context, projectID, taskID, ownerID string, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, projectID, taskID, ownerID string) error
}

// CommentService requires project access for every operation and
// comment authorship for update and delete. Unlike projects,
// authorship failures are reported as ErrNotCommentAuthor instead of
// being hidden behind a not-found.
type CommentService interface {
	ListComments(ctx context.Context, projectID, userID string) ([]*models.Comment, error)
	CreateComment(ctx context.Context, projectID, authorID, body string) (*models.Comment, error)
	UpdateComment(ctx context.Context, projectID, commentID, callerID, body string) (*models.Comment, error)
	DeleteComment(ctx context.Context, projectID, commentID, callerID string) error
}

type LoginParams struct {
	Username string
	Password string
}

type LoginResult struct {
	UserID               string
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type CreateProjectParams struct {
	Name        string
	Description string
	DueDate     *time.Time
	IsArchived  *bool
	Status      *models.ProjectStatus
	Priority    *models.ProjectPriority
}

type UpdateProjectParams struct {
	Name        *string
	Description *string
	DueDate     *time.Time
	IsArchived  *bool
	Status      *models.ProjectStatus
	Priority    *models.ProjectPriority
}

type CreateTaskParams struct {
	Title       string
	Description string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	SortOrder   *int
	AssigneeID  *string
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	SortOrder   *int
	AssigneeID  *string
}
