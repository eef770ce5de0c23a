package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherHashCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("מחברת-סודית")
	require.NoError(t, err)
	assert.NotEqual(t, "מחברת-סודית", hashed)

	assert.NoError(t, h.Compare(hashed, "מחברת-סודית"))
	assert.ErrorIs(t, h.Compare(hashed, "wrong-password"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestNewBcryptHasherCostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(bcrypt.MaxCost+1).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
