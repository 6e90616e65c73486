package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("trampolin123")
	require.NoError(t, err)

	assert.NotEqual(t, "trampolin123", hash)
	assert.True(t, CheckPasswordHash("trampolin123", hash))
	assert.False(t, CheckPasswordHash("trampolin124", hash))
}

func TestRandomPassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		pw, err := RandomPassword(10)
		require.NoError(t, err)
		require.Len(t, pw, 10)
		for _, c := range pw {
			assert.True(t, strings.ContainsRune(passwordAlphabet, c))
		}
		assert.False(t, seen[pw], "generated passwords should not repeat")
		seen[pw] = true
	}
}
