// Package auth holds the credential, token and ownership primitives the
// HTTP layer builds on.
package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only reads the first 72 bytes of its input.
const maxBcryptInput = 72

// bcryptInput returns plain unchanged when bcrypt can take it whole. Longer
// passwords are reduced to a base64 SHA-256 digest so every byte counts.
func bcryptInput(plain string) []byte {
	if len(plain) <= maxBcryptInput {
		return []byte(plain)
	}
	sum := sha256.Sum256([]byte(plain))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HashPassword returns a salted bcrypt hash of plain. A cost outside the
// bcrypt range falls back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(bcryptInput(plain), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches hash. A malformed hash is a
// mismatch.
func VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(plain)) == nil
}
