package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateBase64Key(t *testing.T) {
	key, err := GenerateBase64Key(TokenKeySize)
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(key)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	_, err = GenerateBase64Key(16)
	require.Error(t, err)
}
