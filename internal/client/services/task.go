package services

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/store"
)

// TaskAPI is the part of the API client TaskService needs.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskService calls the API and, on success only, dispatches exactly one
// matching action to the store. A failed call leaves the store untouched.
type TaskService struct {
	api   TaskAPI
	store *store.TaskStore
}

func NewTaskService(api TaskAPI, st *store.TaskStore) *TaskService {
	return &TaskService{api: api, store: st}
}

// Refresh loads the caller's tasks from the server.
func (s *TaskService) Refresh(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Dispatch(store.SetAll{Tasks: tasks})
	return s.store.Snapshot(), nil
}

func (s *TaskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	t, err := s.api.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}
	s.store.Dispatch(store.Add{Task: *t})
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	t, err := s.api.UpdateTask(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.store.Dispatch(store.Patch{Task: *t})
	return t, nil
}

// SetStatus is Update with only the status field.
func (s *TaskService) SetStatus(ctx context.Context, id, status string) (*models.Task, error) {
	return s.Update(ctx, id, models.TaskInput{Status: &status})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.store.Dispatch(store.Remove{ID: id})
	return nil
}

// Tasks returns the cached list without calling the server.
func (s *TaskService) Tasks() []models.Task {
	return s.store.Snapshot()
}

// Get looks a task up in the cached list.
func (s *TaskService) Get(id string) (models.Task, bool) {
	return s.store.Get(id)
}

func (s *TaskService) Counts() map[string]int {
	return s.store.Counts()
}

// Clear empties the local list, e.g. after logout.
func (s *TaskService) Clear() {
	s.store.Dispatch(store.SetAll{})
}
