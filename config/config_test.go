package config

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		MongoString:  "mongodb://localhost:27017",
		PasetoSecret: base64.URLEncoding.EncodeToString(make([]byte, 32)),
		TokenTTL:     1,
		Timezone:     "Asia/Kolkata",
		NotifyAt:     "16:39",
		NotifyQueue:  16,
	}
}

func TestValidateResolvesLocation(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.Location)
	require.Equal(t, "Asia/Kolkata", cfg.Location.String())
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := map[string]func(c *AppConfig){
		"no mongo":      func(c *AppConfig) { c.MongoString = "" },
		"short secret":  func(c *AppConfig) { c.PasetoSecret = base64.StdEncoding.EncodeToString([]byte("short")) },
		"not base64":    func(c *AppConfig) { c.PasetoSecret = "%%%" },
		"bad timezone":  func(c *AppConfig) { c.Timezone = "Mars/Olympus" },
		"bad notify at": func(c *AppConfig) { c.NotifyAt = "4pm" },
		"zero queue":    func(c *AppConfig) { c.NotifyQueue = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestDecodeSecretAcceptsUnpaddedStd(t *testing.T) {
	raw := make([]byte, 32)
	raw[0] = 0xfb
	got, err := DecodeSecret(base64.RawStdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Equal(t, raw, got)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	require.Nil(t, splitList(""))
}
