package config_test

import (
	"testing"

	"media-offload/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "media", cfg.Storage.Bucket)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "uploads/", cfg.Offload.Prefix)
	assert.Equal(t, 100, cfg.Offload.BatchSize)
	assert.Equal(t, 25, cfg.Offload.OrphanDisplayLimit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "other-bucket")
	t.Setenv("OFFLOAD_PREFIX", "media/")
	t.Setenv("OFFLOAD_BATCH_SIZE", "50")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "other-bucket", cfg.Storage.Bucket)
	assert.Equal(t, "media/", cfg.Offload.Prefix)
	assert.Equal(t, 50, cfg.Offload.BatchSize)
}
