package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

func newUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &models.User{Username: name, Email: name + "@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	return u
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore(nil)
	alice := newUser(t, s, "alice")
	require.NoError(t, common.ValidateID(alice.ID))

	_, err := s.Users().Create(ctx, &models.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, common.ErrDuplicate)
	_, err = s.Users().Create(ctx, &models.User{Username: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrDuplicate)

	got, err := s.Users().FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = s.Users().FindByEmailOrUsername(ctx, "nobody@example.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = s.Users().FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Users().FindByID(ctx, "x")
	assert.ErrorIs(t, err, common.ErrMalformedID)
	got, err = s.Users().FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(func() time.Time { return clock })
	alice := newUser(t, s, "alice")
	bob := newUser(t, s, "bob")
	repo := s.Tasks()

	first, err := repo.Create(ctx, &models.Task{OwnerID: alice.ID, Title: "first", Status: models.StatusPending, Priority: models.PriorityMedium})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &models.Task{OwnerID: alice.ID, Title: "second", Status: models.StatusPending, Priority: models.PriorityMedium})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Task{OwnerID: bob.ID, Title: "bob's", Status: models.StatusPending, Priority: models.PriorityLow})
	require.NoError(t, err)

	list, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first even within one clock tick")
	assert.Equal(t, first.ID, list[1].ID)

	list[0].Title = "mutated"
	again, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", again.Title)

	clock = clock.Add(time.Hour)
	again.Title = "renamed"
	again.OwnerID = bob.ID
	updated, err := repo.Update(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, clock, updated.UpdatedAt)

	stored, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Title)
	assert.Equal(t, alice.ID, stored.OwnerID, "owner is never rewritten")

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), common.ErrorNotFound)
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrMalformedID)

	_, err = repo.Create(ctx, &models.Task{OwnerID: common.NewID(), Title: "orphan"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = repo.Create(ctx, &models.Task{OwnerID: alice.ID, Title: "  "})
	var verr *common.ValidationError
	assert.ErrorAs(t, err, &verr)
}
