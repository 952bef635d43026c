package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID(NewID()))
	assert.ErrorIs(t, ValidateID("not-a-uuid"), ErrMalformedID)
	assert.ErrorIs(t, ValidateID(""), ErrMalformedID)
	assert.NotEqual(t, NewID(), NewID())
}
