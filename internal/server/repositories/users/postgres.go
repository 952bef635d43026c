package users

import (
	"context"

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

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := common.ValidateID(id); err != nil {
		return nil, err
	}
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE id = $1`

	return r.scanOne(ctx, query, id)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE email = $1`

	return r.scanOne(ctx, query, email)
}

// FindByEmailOrUsername returns any user matching either value.
func (r *PostgresRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, created_at FROM users
		 WHERE email = $1 OR username = $2
		 LIMIT 1`

	return r.scanOne(ctx, query, email, username)
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return user, nil
}
