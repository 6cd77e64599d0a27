package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Abcdefg1!", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "Abcdefg1!", hash)
	assert.True(t, CheckPasswordHash("Abcdefg1!", hash))
	assert.False(t, CheckPasswordHash("Abcdefg1?", hash))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("Abcdefg1!", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
