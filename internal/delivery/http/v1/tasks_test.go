package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prbyl0809/smart-team-assistant/internal/models"
	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

func TestHandleCreateTask(t *testing.T) {
	env := newTestEnv(t)
	env.tasks.createFn = func(_ context.Context, projectID, ownerID string, params services.CreateTaskParams) (*models.Task, error) {
		if projectID != "project-1" || ownerID != testUserID {
			t.Fatalf("unexpected args %q %q", projectID, ownerID)
		}
		return &models.Task{
			ID:        "task-1",
			Title:     params.Title,
			Status:    models.TaskStatusTodo,
			Priority:  models.TaskPriorityMedium,
			ProjectID: projectID,
		}, nil
	}

	w := env.do(t, http.MethodPost, "/project/project-1/tasks/",
		`{"title":"Help task","description":"Assist"}`)
	assertStatus(t, w, http.StatusCreated)

	var resp taskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "todo" || resp.Priority != "medium" {
		t.Fatalf("expected task defaults, got %+v", resp)
	}
}

func TestHandleCreateTask_NotOwner(t *testing.T) {
	// An assignee can read the project but may not add tasks.
	env := newTestEnv(t)
	env.tasks.createFn = func(context.Context, string, string, services.CreateTaskParams) (*models.Task, error) {
		return nil, services.ErrNotProjectOwner
	}

	w := env.do(t, http.MethodPost, "/project/project-1/tasks/",
		`{"title":"Sneaky"}`)
	assertStatus(t, w, http.StatusForbidden)
	assertErrorMessage(t, w, "Not authorized to access this project")
}

func TestHandleListTasks_AccessFailureIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.tasks.listFn = func(context.Context, string, string) ([]*models.Task, error) {
		return nil, services.ErrProjectNotFound
	}

	w := env.do(t, http.MethodGet, "/project/project-1/tasks/", "")
	assertStatus(t, w, http.StatusForbidden)
	assertErrorMessage(t, w, "Project not found")
}

func TestHandleGetTask_MissingTaskIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.tasks.getByIDFn = func(context.Context, string, string, string) (*models.Task, error) {
		return nil, services.ErrTaskNotFound
	}

	w := env.do(t, http.MethodGet, "/project/project-1/tasks/task-1", "")
	assertStatus(t, w, http.StatusForbidden)
	assertErrorMessage(t, w, "Task not found")
}

func TestHandleUpdateTask_PutAndPatchShareSemantics(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		env := newTestEnv(t)
		env.tasks.updateFn = func(_ context.Context, projectID, taskID, ownerID string, params services.UpdateTaskParams) (*models.Task, error) {
			if params.Status == nil || *params.Status != models.TaskStatusDone {
				t.Fatalf("%s: expected status patch, got %+v", method, params)
			}
			if params.Title != nil {
				t.Fatalf("%s: expected untouched title to stay nil", method)
			}
			return &models.Task{ID: taskID, ProjectID: projectID, Status: *params.Status, Priority: models.TaskPriorityMedium}, nil
		}

		w := env.do(t, method, "/project/project-1/tasks/task-1", `{"status":"done"}`)
		assertStatus(t, w, http.StatusOK)
	}
}

func TestHandleUpdateTask_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/project/project-1/tasks/task-1",
		`{"status":"completed"}`)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestHandleDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	env.tasks.deleteFn = func(_ context.Context, projectID, taskID, ownerID string) error {
		if taskID != "task-1" || ownerID != testUserID {
			t.Fatalf("unexpected args %q %q", taskID, ownerID)
		}
		return nil
	}

	w := env.do(t, http.MethodDelete, "/project/project-1/tasks/task-1", "")
	assertStatus(t, w, http.StatusNoContent)
}

func TestHandleDeleteTask_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	env.tasks.deleteFn = func(context.Context, string, string, string) error {
		return services.ErrNotProjectOwner
	}

	w := env.do(t, http.MethodDelete, "/project/project-1/tasks/task-1", "")
	assertStatus(t, w, http.StatusForbidden)
}
