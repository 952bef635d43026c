// Package memory provides in-process implementations of the user and task
// repositories. They enforce the same uniqueness and id rules as the
// Postgres schema and are used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Store holds every record behind a single lock.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]taskRecord
	seq   int64
	now   func() time.Time
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		users: make(map[string]models.User),
		tasks: make(map[string]taskRecord),
		now:   now,
	}
}

// taskRecord keeps insertion order so tasks created within the same clock
// tick still list newest first.
type taskRecord struct {
	task models.Task
	seq  int64
}

// UserRepository is the users.Repository view of a Store.
type UserRepository struct{ s *Store }

// TaskRepository is the tasks.Repository view of a Store.
type TaskRepository struct{ s *Store }

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, common.ErrDuplicate
		}
	}

	user.ID = common.NewID()
	user.CreatedAt = r.s.now().UTC()
	r.s.users[user.ID] = *user
	return user, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	if err := common.ValidateID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email || u.Username == username })
}

func (r *UserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *TaskRepository) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	if err := common.ValidateID(task.OwnerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(task.Title) == "" {
		verr := &common.ValidationError{}
		verr.Add("title", "Invalid value for title")
		return nil, verr
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[task.OwnerID]; !ok {
		return nil, common.ErrorNotFound
	}

	r.s.seq++
	now := r.s.now().UTC()
	task.ID = common.NewID()
	task.CreatedAt = now
	task.UpdatedAt = now
	r.s.tasks[task.ID] = taskRecord{task: *cloneTask(*task), seq: r.s.seq}
	return cloneTask(*task), nil
}

func (r *TaskRepository) FindByID(_ context.Context, id string) (*models.Task, error) {
	if err := common.ValidateID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneTask(rec.task), nil
}

func (r *TaskRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	recs := make([]taskRecord, 0)
	for _, rec := range r.s.tasks {
		if rec.task.OwnerID == ownerID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })

	result := make([]*models.Task, 0, len(recs))
	for _, rec := range recs {
		result = append(result, cloneTask(rec.task))
	}
	return result, nil
}

func (r *TaskRepository) Update(_ context.Context, task *models.Task) (*models.Task, error) {
	if err := common.ValidateID(task.ID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.tasks[task.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	stored := &rec.task
	stored.Title = task.Title
	stored.Description = task.Description
	stored.Status = task.Status
	stored.Priority = task.Priority
	stored.DueDate = cloneTask(*task).DueDate
	stored.UpdatedAt = r.s.now().UTC()
	r.s.tasks[task.ID] = rec

	task.UpdatedAt = stored.UpdatedAt
	return task, nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	if err := common.ValidateID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func cloneTask(t models.Task) *models.Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return &t
}
