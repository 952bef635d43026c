package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

type cachedList struct {
	version int64
	tasks   []*models.Task
}

type fakeCache struct {
	data        map[string]cachedList
	versions    map[string]int64
	invalidated []string
	getErr      error
	// beforeSet runs once, between the store read and the cache write.
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]cachedList{}, versions: map[string]int64{}}
}

func (f *fakeCache) Version(_ context.Context, owner string) (int64, error) {
	return f.versions[owner], nil
}

func (f *fakeCache) Get(_ context.Context, owner string, version int64) ([]*models.Task, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	v, ok := f.data[owner]
	if !ok || v.version != version {
		return nil, false, nil
	}
	return v.tasks, true, nil
}

func (f *fakeCache) Set(_ context.Context, owner string, version int64, tasks []*models.Task) error {
	if hook := f.beforeSet; hook != nil {
		f.beforeSet = nil
		hook()
	}
	f.data[owner] = cachedList{version: version, tasks: tasks}
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, owner string) error {
	f.versions[owner]++
	f.invalidated = append(f.invalidated, owner)
	return nil
}

func str(s string) *string { return &s }

type fixture struct {
	svc   *TaskService
	cache *fakeCache
	alice auth.Identity
	bob   auth.Identity
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	rm := repomanager.NewMemoryRepositoryManager(nil)

	a, err := rm.Users().Create(ctx, &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	b, err := rm.Users().Create(ctx, &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	c := newFakeCache()
	return fixture{
		svc:   NewTaskService(rm, c, logging.NewNop()),
		cache: c,
		alice: auth.Identity{SubjectID: a.ID},
		bob:   auth.Identity{SubjectID: b.ID},
	}
}

func TestTaskService_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("Write report")})
	require.NoError(t, err)
	assert.Equal(t, f.alice.SubjectID, task.OwnerID)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, []string{f.alice.SubjectID}, f.cache.invalidated)

	_, err = f.svc.Create(ctx, f.alice, models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrTitleRequired)
	_, err = f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("  ")})
	assert.ErrorIs(t, err, common.ErrTitleRequired)

	_, err = f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("x"), Priority: str("urgent")})
	var verr *common.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestTaskService_ListScopedAndCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("a1")})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("a2")})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.bob, models.TaskPatch{Title: str("b1")})
	require.NoError(t, err)

	list, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].Title)
	assert.Contains(t, f.cache.data, f.alice.SubjectID)

	bobList, err := f.svc.List(ctx, f.bob)
	require.NoError(t, err)
	require.Len(t, bobList, 1)
	assert.Equal(t, "b1", bobList[0].Title)

	f.cache.data[f.alice.SubjectID] = cachedList{
		version: f.cache.versions[f.alice.SubjectID],
		tasks:   []*models.Task{{Title: "from cache"}},
	}
	list, err = f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Equal(t, "from cache", list[0].Title)

	f.cache.getErr = errors.New("redis down")
	list, err = f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTaskService_ListNotStaleAfterConcurrentWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("keep")})
	require.NoError(t, err)
	gone, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("gone")})
	require.NoError(t, err)
	renamed, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("old title")})
	require.NoError(t, err)

	f.cache.beforeSet = func() {
		require.NoError(t, f.svc.Delete(ctx, f.alice, gone.ID))
		_, err := f.svc.Update(ctx, f.alice, renamed.ID, models.TaskPatch{Title: str("new title")})
		require.NoError(t, err)
	}
	stale, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Len(t, stale, 3, "the racing read saw the old state")

	list, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	titles := []string{list[0].Title, list[1].Title}
	assert.ElementsMatch(t, []string{"keep", "new title"}, titles)
}

func TestTaskService_Find(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("mine")})
	require.NoError(t, err)

	got, err := f.svc.Find(ctx, f.alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = f.svc.Find(ctx, f.bob, task.ID)
	assert.ErrorIs(t, err, common.ErrNotOwner)
	_, err = f.svc.Find(ctx, f.bob, common.NewID())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTaskService_UpdateOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("mine"), Description: str("keep")})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.bob, task.ID, models.TaskPatch{Title: str("hijacked")})
	assert.ErrorIs(t, err, common.ErrNotOwner)

	updated, err := f.svc.Update(ctx, f.alice, task.ID, models.TaskPatch{Status: str(models.StatusInProgress)})
	require.NoError(t, err)
	assert.Equal(t, "mine", updated.Title)
	assert.Equal(t, "keep", updated.Description)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, f.alice.SubjectID, updated.OwnerID)

	_, err = f.svc.Update(ctx, f.alice, common.NewID(), models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.svc.Update(ctx, f.bob, common.NewID(), models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound, "existence is checked before ownership")
	_, err = f.svc.Update(ctx, f.alice, "abc", models.TaskPatch{})
	assert.ErrorIs(t, err, common.ErrMalformedID)

	_, err = f.svc.Update(ctx, f.alice, task.ID, models.TaskPatch{Status: str("done")})
	var verr *common.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestTaskService_DeleteOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Create(ctx, f.alice, models.TaskPatch{Title: str("mine")})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, task.ID), common.ErrNotOwner)

	list, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Len(t, list, 1, "denied delete leaves the task in place")

	require.NoError(t, f.svc.Delete(ctx, f.alice, task.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.alice, task.ID), common.ErrorNotFound)

	list, err = f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}
