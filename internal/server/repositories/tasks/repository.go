package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository stores tasks. Lookups of an unknown id return
// common.ErrorNotFound, lookups of a non-UUID id return common.ErrMalformedID.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	// ListByOwner returns the owner's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	// Update writes the mutable fields of task. OwnerID is never written.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}
