// Package repomanager wires repository implementations to a backing store
// and runs schema migrations for PostgreSQL via goose.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to
// either the pool or an open transaction.
type PostgresRepositoryManager struct {
	db   *sql.DB
	conn dbx.DBTX
}

// NewPostgresRepositoryManager opens a pgx-backed pool for dsn and checks
// that it is reachable.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return newPostgresRepositoryManager(db), nil
}

func newPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db, conn: db}
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.conn)
}

func (m *PostgresRepositoryManager) Tasks() tasks.Repository {
	return tasks.NewPostgresRepository(m.conn)
}

// WithinTx runs fn in a transaction. Nested calls reuse the outer one.
func (m *PostgresRepositoryManager) WithinTx(ctx context.Context, fn func(ctx context.Context, m RepositoryManager) error) error {
	if m.conn != m.db {
		return fn(ctx, m)
	}
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &PostgresRepositoryManager{db: m.db, conn: tx})
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
