// Package store keeps the CLI's view of the task list. State changes only
// through Dispatch, and Reduce is a pure function of the current state and an
// action, so every change comes from one place.
package store

import (
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// State is the client-side task list, newest first.
type State struct {
	Tasks []models.Task
}

// Action is one of SetAll, Add, Remove or Patch.
type Action interface {
	isAction()
}

// SetAll replaces the list with a server listing.
type SetAll struct{ Tasks []models.Task }

// Add prepends a task the server just created.
type Add struct{ Task models.Task }

// Remove drops the task with the given id.
type Remove struct{ ID string }

// Patch replaces the task with the same id by the server's updated copy.
type Patch struct{ Task models.Task }

func (SetAll) isAction() {}
func (Add) isAction()    {}
func (Remove) isAction() {}
func (Patch) isAction()  {}

// Reduce returns the state after applying a. s is never modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetAll:
		return State{Tasks: clone(a.Tasks)}
	case Add:
		out := make([]models.Task, 0, len(s.Tasks)+1)
		out = append(out, a.Task)
		for _, t := range s.Tasks {
			if t.ID != a.Task.ID {
				out = append(out, t)
			}
		}
		return State{Tasks: out}
	case Remove:
		out := make([]models.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.ID {
				out = append(out, t)
			}
		}
		return State{Tasks: out}
	case Patch:
		out := clone(s.Tasks)
		for i := range out {
			if out[i].ID == a.Task.ID {
				out[i] = a.Task
			}
		}
		return State{Tasks: out}
	default:
		return s
	}
}

func clone(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	return out
}

// TaskStore holds State behind a lock.
type TaskStore struct {
	mu    sync.RWMutex
	state State
}

func New() *TaskStore {
	return &TaskStore{}
}

func (s *TaskStore) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current task list.
func (s *TaskStore) Snapshot() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.state.Tasks)
}

// Get returns the task with the given id.
func (s *TaskStore) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.state.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// Counts groups the current tasks by status.
func (s *TaskStore) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(models.Statuses))
	for _, st := range models.Statuses {
		out[st] = 0
	}
	for _, t := range s.state.Tasks {
		out[t.Status]++
	}
	return out
}
