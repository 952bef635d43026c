package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService([]byte("super-secret"), DefaultTokenValidity, fixedClock(now))

	tok, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id.SubjectID != "user-123" {
		t.Fatalf("subject mismatch: got %q", id.SubjectID)
	}
	if want := now.Add(30 * 24 * time.Hour); !id.ExpiresAt.Equal(want) {
		t.Fatalf("expiry mismatch: got %v want %v", id.ExpiresAt, want)
	}
}

func TestVerify_Expiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tok, err := NewTokenService([]byte("k"), time.Hour, fixedClock(issued)).Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	cases := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{"just before expiry", issued.Add(time.Hour - time.Second), false},
		{"exactly at expiry", issued.Add(time.Hour), true},
		{"after expiry", issued.Add(2 * time.Hour), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewTokenService([]byte("k"), time.Hour, fixedClock(c.at)).Verify(tok)
			if c.wantErr && !errors.Is(err, common.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestVerify_RejectsUniformly(t *testing.T) {
	t.Parallel()

	secret := []byte("right-secret")
	svc := NewTokenService(secret, time.Hour, nil)

	good, err := svc.Issue("u2")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	wrongSecret, _ := NewTokenService([]byte("wrong-secret"), time.Hour, nil).Issue("u2")

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "u2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u2",
	}).SignedString(secret)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	cases := map[string]string{
		"wrong secret":  wrongSecret,
		"hs512":         hs512,
		"alg none":      none,
		"no subject":    noSubject,
		"no expiry":     noExpiry,
		"tampered body": tampered,
		"malformed":     "not.a.jwt",
		"empty":         "",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			id, err := svc.Verify(tok)
			if err != common.ErrInvalidToken {
				t.Fatalf("expected common.ErrInvalidToken, got %v", err)
			}
			if id != (Identity{}) {
				t.Fatalf("expected zero identity, got %+v", id)
			}
		})
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenService([]byte("k"), time.Hour, nil).Issue(""); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}
