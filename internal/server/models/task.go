package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DateLayout is the short form accepted for due dates.
const DateLayout = "2006-01-02"

// Task is a unit of work owned by exactly one user. OwnerID is set once at
// creation and never changed.
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

// TaskPatch carries client-supplied task fields. A nil field is absent and
// leaves the stored value unchanged. An empty DueDate clears it.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParseDueDate accepts RFC 3339 or YYYY-MM-DD. An empty string yields nil.
func ParseDueDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return &t, true
	}
	return nil, false
}

// Apply copies every present field of p onto t and validates the result.
// All failing fields are reported together.
func (p TaskPatch) Apply(t *Task) error {
	verr := &common.ValidationError{}

	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if t.Title == "" {
		verr.Add("title", "Please provide a task title")
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		t.Status = strings.TrimSpace(*p.Status)
	}
	if !IsValidStatus(t.Status) {
		verr.Add("status", "Status must be one of: pending, in-progress, completed")
	}
	if p.Priority != nil {
		t.Priority = strings.TrimSpace(*p.Priority)
	}
	if !IsValidPriority(t.Priority) {
		verr.Add("priority", "Priority must be one of: low, medium, high")
	}
	if p.DueDate != nil {
		d, ok := ParseDueDate(*p.DueDate)
		if ok {
			t.DueDate = d
		} else {
			verr.Add("dueDate", "Due date must be a valid date")
		}
	}

	return verr.OrNil()
}
