// Package models holds the client-side view of TaskKeeper API resources.
package models

import (
	"fmt"
	"time"
)

// Task statuses and priorities accepted by the server.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Statuses lists task statuses in display order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// String renders a one-line summary for the CLI.
func (t Task) String() string {
	s := fmt.Sprintf("%s  [%s/%s]  %s", t.ID, t.Status, t.Priority, t.Title)
	if t.DueDate != nil {
		s += "  due " + t.DueDate.Format("2006-01-02")
	}
	return s
}

// TaskInput is the body of create and update requests. Nil fields are
// omitted and left unchanged by the server.
type TaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// Ptr returns a pointer to s. Handy for building TaskInput literals.
func Ptr(s string) *string { return &s }
