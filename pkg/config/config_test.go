package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader("server:\n  addr: \":9090\"\n"))
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, DefaultBasePath, cfg.Server.BasePath)
	require.Equal(t, DefaultTimeout, cfg.Backend.Timeout)
	require.Equal(t, DefaultStorageDriver, cfg.Storage.Driver)
	require.Equal(t, DefaultWarmInterval, cfg.Cache.WarmInterval)
	require.True(t, cfg.Backend.Mock())
	require.Equal(t, time.UTC, cfg.Location())
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("server:\n  port: 80\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "port")
}

func TestDecodeParsesDurationsAndBackend(t *testing.T) {
	doc := `
backend:
  url: https://api.example.com/
  api_key: secret
  timeout: 3s
cache:
  stats_ttl: 1h
  warm_interval: 30s
log:
  level: debug
`
	cfg, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.Backend.URL)
	require.False(t, cfg.Backend.Mock())
	require.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	require.Equal(t, time.Hour, cfg.Cache.StatsTTL)
	require.Equal(t, 30*time.Second, cfg.Cache.WarmInterval)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"base path": "server:\n  base_path: admin\n",
		"timezone":  "server:\n  timezone: Mars/Olympus\n",
		"backend":   "backend:\n  url: ftp://example.com\n",
		"log level": "log:\n  level: loud\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charts:\n  theme: westeros\n"), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "westeros", cfg.Charts.Theme)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestNewLoggerUsesLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "warn"
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}
