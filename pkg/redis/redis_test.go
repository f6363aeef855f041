package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Sistem-Absensi-RFID/config"
)

func TestNewClientRequiresAddr(t *testing.T) {
	_, err := NewClient(config.RedisConfig{}, zap.NewNop())
	require.Error(t, err)
}

func TestBlacklistRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	c, err := NewClient(config.RedisConfig{Addr: addr}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	jti := uuid.NewString()

	listed, err := c.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	require.False(t, listed)

	require.NoError(t, c.BlacklistToken(ctx, jti, time.Minute))
	listed, err = c.IsBlacklisted(ctx, jti)
	require.NoError(t, err)
	require.True(t, listed)

	// an already expired token is not stored
	expired := uuid.NewString()
	require.NoError(t, c.BlacklistToken(ctx, expired, 0))
	listed, err = c.IsBlacklisted(ctx, expired)
	require.NoError(t, err)
	require.False(t, listed)
}
