// Package services contains server-side business logic. UserService handles
// registration and login; TaskService handles owner-scoped task CRUD.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// TokenIssuer mints bearer tokens for a subject.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// AuthResult is returned by a successful Register or Login.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// UserService provides authentication operations:
//   - Register: create a user and issue a token
//   - Login: verify credentials and issue a token
type UserService struct {
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	bcryptCost  int
	logger      logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(m repomanager.RepositoryManager, tokens TokenIssuer, bcryptCost int, logger logging.Logger) *UserService {
	return &UserService{
		repomanager: m,
		tokens:      tokens,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. A missing field yields common.ErrMissingFields and
// an existing email or username yields common.ErrUserExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, common.ErrMissingFields
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	err = s.repomanager.WithinTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		_, err := m.Users().FindByEmailOrUsername(ctx, email, username)
		switch {
		case err == nil:
			return common.ErrUserExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		user, err = m.Users().Create(ctx, &models.User{Username: username, Email: email, PasswordHash: hash})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login verifies email and password. Unknown email and wrong password both
// yield common.ErrInvalidCredentials and take comparable time.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrMissingFields
	}

	user, err := s.repomanager.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.VerifyPassword(password, s.getDummyHash())
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// getDummyHash returns a hash of a random password at the configured cost,
// compared against when the user does not exist.
func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		pw, err := common.MakeRandHexString(16)
		if err != nil {
			pw = "taskkeeper-dummy"
		}
		s.dummyHash, _ = auth.HashPassword(pw, s.bcryptCost)
	})
	return s.dummyHash
}
