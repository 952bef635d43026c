package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/cache"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// TaskService scopes every task operation to the calling identity.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	cache       cache.TaskListCache
	logger      logging.Logger
}

func NewTaskService(m repomanager.RepositoryManager, c cache.TaskListCache, logger logging.Logger) *TaskService {
	if c == nil {
		c = cache.Nop{}
	}
	return &TaskService{repomanager: m, cache: c, logger: logger}
}

// List returns the caller's tasks, newest first. The cache entry is keyed by
// the list version read before the store query, so a write that lands in
// between leaves the stored copy unreachable.
func (s *TaskService) List(ctx context.Context, id auth.Identity) ([]*models.Task, error) {
	version, err := s.cache.Version(ctx, id.SubjectID)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn(ctx, "task cache version read failed", "error", err)
	}

	if cacheable {
		if tasks, ok, err := s.cache.Get(ctx, id.SubjectID, version); err != nil {
			s.logger.Warn(ctx, "task cache read failed", "error", err)
		} else if ok {
			return tasks, nil
		}
	}

	tasks, err := s.repomanager.Tasks().ListByOwner(ctx, id.SubjectID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, id.SubjectID, version, tasks); err != nil {
			s.logger.Warn(ctx, "task cache write failed", "error", err)
		}
	}
	return tasks, nil
}

// Create stores a new task owned by the caller. Status defaults to pending
// and priority to medium.
func (s *TaskService) Create(ctx context.Context, id auth.Identity, in models.TaskPatch) (*models.Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, common.ErrTitleRequired
	}

	task := &models.Task{
		OwnerID:  id.SubjectID,
		Status:   models.StatusPending,
		Priority: models.PriorityMedium,
	}
	if err := in.Apply(task); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Tasks().Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id.SubjectID)
	s.logger.Debug(ctx, "task created", "task_id", created.ID)
	return created, nil
}

// Update applies patch to the task if the caller owns it. An unknown task
// yields common.ErrorNotFound before ownership is considered.
func (s *TaskService) Update(ctx context.Context, id auth.Identity, taskID string, patch models.TaskPatch) (*models.Task, error) {
	var updated *models.Task
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		task, err := s.ownedTask(ctx, m, id, taskID)
		if err != nil {
			return err
		}
		if err := patch.Apply(task); err != nil {
			return err
		}
		updated, err = m.Tasks().Update(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id.SubjectID)
	return updated, nil
}

// Delete removes the task if the caller owns it.
func (s *TaskService) Delete(ctx context.Context, id auth.Identity, taskID string) error {
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		if _, err := s.ownedTask(ctx, m, id, taskID); err != nil {
			return err
		}
		return m.Tasks().Delete(ctx, taskID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id.SubjectID)
	s.logger.Debug(ctx, "task deleted", "task_id", taskID)
	return nil
}

// Find returns the task if it exists and the caller owns it.
func (s *TaskService) Find(ctx context.Context, id auth.Identity, taskID string) (*models.Task, error) {
	return s.ownedTask(ctx, s.repomanager, id, taskID)
}

func (s *TaskService) ownedTask(ctx context.Context, m repomanager.RepositoryManager, id auth.Identity, taskID string) (*models.Task, error) {
	task, err := m.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, task.OwnerID); err != nil {
		s.logger.Warn(ctx, "ownership check denied", "task_id", taskID, "subject_id", id.SubjectID)
		return nil, err
	}
	return task, nil
}

func (s *TaskService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.logger.Warn(ctx, "task cache invalidation failed", "error", err)
	}
}
