package users

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// Repository stores credential records. Usernames and emails are unique;
// a collision is reported as common.ErrDuplicate.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
}
