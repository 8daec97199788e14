package models

import "testing"

func TestProjectStatus_Valid(t *testing.T) {
	for _, s := range []ProjectStatus{
		ProjectStatusActive,
		ProjectStatusCompleted,
		ProjectStatusBlocked,
		ProjectStatusBacklog,
	} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	for _, s := range []ProjectStatus{"", "archived", "todo", "ACTIVE"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestProjectPriority_Valid(t *testing.T) {
	for _, p := range []ProjectPriority{
		ProjectPriorityLow,
		ProjectPriorityMedium,
		ProjectPriorityHigh,
	} {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}

	for _, p := range []ProjectPriority{"", "urgent", "MEDIUM"} {
		if p.Valid() {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestTaskStatus_Valid(t *testing.T) {
	for _, s := range []TaskStatus{
		TaskStatusTodo,
		TaskStatusInProgress,
		TaskStatusDone,
	} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	for _, s := range []TaskStatus{"", "completed", "blocked", "DONE"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestTaskPriority_Valid(t *testing.T) {
	for _, p := range []TaskPriority{
		TaskPriorityLow,
		TaskPriorityMedium,
		TaskPriorityHigh,
	} {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}

	if TaskPriority("critical").Valid() {
		t.Error("expected \"critical\" to be invalid")
	}
}
