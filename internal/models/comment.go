package models

import "time"

// Comment is a project-level discussion entry. AuthorUsername is
// denormalized from the users table when comments are read.
type Comment struct {
	ID             string
	Body           string
	Edited         bool
	ProjectID      string
	AuthorID       string
	AuthorUsername string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
