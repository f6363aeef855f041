package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("Rahasia123")
	require.NoError(t, err)
	require.NotEqual(t, "Rahasia123", hash)
	require.True(t, CheckPasswordHash("Rahasia123", hash))
	require.False(t, CheckPasswordHash("rahasia123", hash))
}
