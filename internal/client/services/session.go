package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// SessionStore persists the signed-in session between CLI runs.
type SessionStore interface {
	Save(ctx context.Context, token string, user *models.User) error
	// Load returns "", nil, nil when nothing is saved.
	Load(ctx context.Context) (string, *models.User, error)
	Clear(ctx context.Context) error
}

// SQLiteSession keeps the session in the local metadata table.
type SQLiteSession struct {
	db *sql.DB
}

func NewSQLiteSession(db *sql.DB) *SQLiteSession {
	return &SQLiteSession{db: db}
}

func (s *SQLiteSession) Save(ctx context.Context, token string, user *models.User) error {
	u, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUser, u)
	})
}

func (s *SQLiteSession) Load(ctx context.Context) (string, *models.User, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, keyToken)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	raw, err := repo.Get(ctx, keyUser)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return "", nil, fmt.Errorf("saved user: %w", err)
	}
	return string(token), &u, nil
}

func (s *SQLiteSession) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, keyToken); err != nil {
			return err
		}
		return repo.Delete(ctx, keyUser)
	})
}

type nopSession struct{}

func (nopSession) Save(context.Context, string, *models.User) error { return nil }
func (nopSession) Load(context.Context) (string, *models.User, error) {
	return "", nil, nil
}
func (nopSession) Clear(context.Context) error { return nil }
