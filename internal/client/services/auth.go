// Package services contains the CLI's application services. They call the
// API client and keep the local task store in step with server responses.
package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// AuthAPI is the part of the API client AuthService needs.
type AuthAPI interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Logout()
	SetToken(token string)
	Token() string
}

// AuthService tracks the signed-in user and mirrors it to a SessionStore.
type AuthService struct {
	api     AuthAPI
	session SessionStore

	mu   sync.RWMutex
	user *models.User
}

// NewAuthService returns an AuthService. A nil session keeps the login in
// memory only.
func NewAuthService(api AuthAPI, session SessionStore) *AuthService {
	if session == nil {
		session = nopSession{}
	}
	return &AuthService{api: api, session: session}
}

func (s *AuthService) Register(ctx context.Context, username, email string, password []byte) (*models.User, error) {
	u, err := s.api.Register(ctx, username, email, string(password))
	if err != nil {
		return nil, err
	}
	return u, s.signedIn(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	u, err := s.api.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	return u, s.signedIn(ctx, u)
}

// Restore resumes a saved session, if any. The token is not checked here;
// an expired one surfaces as 401 on the next call.
func (s *AuthService) Restore(ctx context.Context) (*models.User, error) {
	token, u, err := s.session.Load(ctx)
	if err != nil || u == nil || token == "" {
		return nil, err
	}
	s.api.SetToken(token)
	s.setUser(u)
	return u, nil
}

// Logout drops the token, the cached user and the saved session. There is
// no server call.
func (s *AuthService) Logout(ctx context.Context) error {
	s.api.Logout()
	s.setUser(nil)
	return s.session.Clear(ctx)
}

// CurrentUser returns the signed-in user, or nil.
func (s *AuthService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// signedIn records u. A failure to save the session keeps the in-memory
// login and is returned to the caller.
func (s *AuthService) signedIn(ctx context.Context, u *models.User) error {
	s.setUser(u)
	return s.session.Save(ctx, s.api.Token(), u)
}

func (s *AuthService) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}
