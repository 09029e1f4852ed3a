package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	ok, err := CheckPassword(hash, "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPassword_BrokenHash(t *testing.T) {
	t.Parallel()

	ok, err := CheckPassword("not-a-bcrypt-hash", "x")
	assert.Error(t, err)
	assert.False(t, ok)
}
