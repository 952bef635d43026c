package tasks

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `id, owner_id, title, description, status, priority, due_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (owner_id, title, description, status, priority, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Title, task.Description, task.Status, task.Priority, task.DueDate).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return task, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	if err := common.ValidateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return t, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := common.ValidateID(task.ID); err != nil {
		return nil, err
	}

	query :=
		`UPDATE tasks
		 SET title = $2, description = $3, status = $4, priority = $5, due_date = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.Priority, task.DueDate).
		Scan(&task.UpdatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return task, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if err := common.ValidateID(id); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return dbx.Classify(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
