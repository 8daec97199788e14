package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusBlocked   ProjectStatus = "blocked"
	ProjectStatusBacklog   ProjectStatus = "backlog"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted,
		ProjectStatusBlocked, ProjectStatusBacklog:
		return true
	}
	return false
}

type ProjectPriority string

const (
	ProjectPriorityLow    ProjectPriority = "low"
	ProjectPriorityMedium ProjectPriority = "medium"
	ProjectPriorityHigh   ProjectPriority = "high"
)

func (p ProjectPriority) Valid() bool {
	switch p {
	case ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh:
		return true
	}
	return false
}

type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	DueDate     *time.Time
	IsArchived  bool
	Status      ProjectStatus
	Priority    ProjectPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
