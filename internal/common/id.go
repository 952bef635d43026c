package common

import "github.com/google/uuid"

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidateID returns ErrMalformedID when id is not a UUID.
func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return ErrMalformedID
	}
	return nil
}
