package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

func ptr(s string) *string { return &s }

func TestTaskPatch_Apply(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    Task
		patch    TaskPatch
		want     Task
		wantMsgs []string
	}{
		{
			name:  "partial update keeps other fields",
			start: Task{Title: "a", Description: "d", Status: StatusPending, Priority: PriorityMedium},
			patch: TaskPatch{Status: ptr(StatusCompleted)},
			want:  Task{Title: "a", Description: "d", Status: StatusCompleted, Priority: PriorityMedium},
		},
		{
			name:  "trims title and description",
			start: Task{Status: StatusPending, Priority: PriorityMedium},
			patch: TaskPatch{Title: ptr("  buy milk "), Description: ptr(" 2l ")},
			want:  Task{Title: "buy milk", Description: "2l", Status: StatusPending, Priority: PriorityMedium},
		},
		{
			name:  "short due date",
			start: Task{Title: "a", Status: StatusPending, Priority: PriorityLow},
			patch: TaskPatch{DueDate: ptr("2025-03-01")},
			want:  Task{Title: "a", Status: StatusPending, Priority: PriorityLow, DueDate: &due},
		},
		{
			name:  "empty due date clears",
			start: Task{Title: "a", Status: StatusPending, Priority: PriorityLow, DueDate: &due},
			patch: TaskPatch{DueDate: ptr("")},
			want:  Task{Title: "a", Status: StatusPending, Priority: PriorityLow},
		},
		{
			name:  "every failure reported",
			start: Task{Title: "a", Status: StatusPending, Priority: PriorityLow},
			patch: TaskPatch{Title: ptr("   "), Status: ptr("done"), Priority: ptr("urgent"), DueDate: ptr("tomorrow")},
			wantMsgs: []string{
				"Please provide a task title",
				"Status must be one of: pending, in-progress, completed",
				"Priority must be one of: low, medium, high",
				"Due date must be a valid date",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := tt.start
			err := tt.patch.Apply(&task)
			if tt.wantMsgs != nil {
				var verr *common.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantMsgs, verr.Messages())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, task)
		})
	}
}

func TestParseDueDate(t *testing.T) {
	d, ok := ParseDueDate("2025-03-01T10:00:00+02:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), *d)

	d, ok = ParseDueDate(" ")
	assert.True(t, ok)
	assert.Nil(t, d)

	_, ok = ParseDueDate("01/03/2025")
	assert.False(t, ok)
}

func TestUser_Public(t *testing.T) {
	u := &User{ID: "1", Username: "alice", Email: "a@x.io", PasswordHash: "h"}
	assert.Equal(t, PublicUser{ID: "1", Username: "alice", Email: "a@x.io"}, u.Public())
}
