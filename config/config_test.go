package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ykhdr/dictcrack/internal/config"
	"github.com/ykhdr/dictcrack/internal/hashcrack/strategy"
)

func TestLoadCLIConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.kdl")
	require.NoError(t, os.WriteFile(path, []byte(`
crack {
    algorithm "sha256"
    strategy "parallel"
    workers 3
}
`), 0o600))

	cfg, err := LoadCLIConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "sha256", cfg.Crack.Algorithm)
	assert.Equal(t, "parallel", cfg.Crack.Strategy)
	assert.Equal(t, strategy.Options{Workers: 3, BatchSize: strategy.DefaultBatchSize}, cfg.Crack.StrategyOptions())
}

func TestLoadCLIConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.kdl")

	cfg, err := LoadCLIConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultCLIConfig(), cfg)

	_, err = LoadCLIConfig(path, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultDaemonConfig(t *testing.T) {
	cfg := DefaultDaemonConfig()
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.False(t, cfg.AmqpConfig.Enabled())
	assert.False(t, cfg.MongoDBConfig.Enabled())
	assert.False(t, cfg.ConsulConfig.Enabled())
	assert.NotEmpty(t, cfg.ServerConfig.WordlistDir)
}

func TestLoadShippedDaemonConfig(t *testing.T) {
	cfg, err := config.Load[DaemonConfig]("config.kdl", *DefaultDaemonConfig())
	require.NoError(t, err)
	assert.Equal(t, "sha1", cfg.Crack.Algorithm)
	assert.Equal(t, "parallel", cfg.Crack.Strategy)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerConfig.Addr)
	assert.Equal(t, 64, cfg.DispatcherConfig.QueueSize)
	assert.Equal(t, 5*time.Second, cfg.DispatcherConfig.DispatchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.DispatcherConfig.RequestTimeout)
	assert.True(t, cfg.AmqpConfig.Enabled())
	assert.Equal(t, "crack.tasks", cfg.AmqpConfig.Consumer.Queue)
	assert.True(t, cfg.MongoDBConfig.Enabled())
	assert.True(t, cfg.ConsulConfig.Enabled())
}

func TestCLIConfigPathDiffersFromDaemon(t *testing.T) {
	assert.NotEqual(t, config.DefaultConfigPath, DefaultCLIConfigPath)
}
