package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// DefaultTokenValidity is how long an issued token stays valid.
const DefaultTokenValidity = 30 * 24 * time.Hour

// Identity is the authenticated principal extracted from a verified token.
type Identity struct {
	SubjectID string
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 bearer tokens. It holds no state
// besides the secret, so tokens cannot be revoked before they expire.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService returns a TokenService. A nil now defaults to time.Now.
func NewTokenService(secret []byte, validity time.Duration, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	if validity <= 0 {
		validity = DefaultTokenValidity
	}
	return &TokenService{secret: secret, validity: validity, now: now}
}

// Issue signs a token whose subject is subjectID.
func (s *TokenService) Issue(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("empty subject")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
	})
	return token.SignedString(s.secret)
}

// Verify checks the signature, algorithm and expiry of tokenString. Every
// failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{SubjectID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
