package repomanager

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager serves repositories from a memory.Store.
// Transactions are serialized; there is no rollback.
type MemoryRepositoryManager struct {
	store *memory.Store
	txMu  *sync.Mutex
	inTx  bool
}

func NewMemoryRepositoryManager(now func() time.Time) *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore(now), txMu: &sync.Mutex{}}
}

func (m *MemoryRepositoryManager) Users() users.Repository { return m.store.Users() }
func (m *MemoryRepositoryManager) Tasks() tasks.Repository { return m.store.Tasks() }

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	if m.inTx {
		return fn(ctx, m)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, &MemoryRepositoryManager{store: m.store, txMu: m.txMu, inTx: true})
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }
