package repomanager

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories and runs work atomically. The
// manager passed to a WithinTx callback is bound to that transaction.
type RepositoryManager interface {
	Users() users.Repository
	Tasks() tasks.Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error
	RunMigrations(ctx context.Context) error
	Close() error
}
