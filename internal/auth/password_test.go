package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPasswordHasher(t *testing.T) {
	h := NewBcryptPasswordHasherWithCost(4) // minimal cost keeps the test fast

	hash, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, h.Compare(hash, "correct horse battery staple"))
	assert.Error(t, h.Compare(hash, "wrong password"))
}

func TestBcryptCostClamped(t *testing.T) {
	h := NewBcryptPasswordHasherWithCost(-3)

	hash, err := h.Hash("whatever input")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestBcryptHashesDiffer(t *testing.T) {
	h := NewBcryptPasswordHasherWithCost(4)

	a, err := h.Hash("same input")
	require.NoError(t, err)
	b, err := h.Hash("same input")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "bcrypt salts every hash")
}
