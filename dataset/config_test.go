package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.InDelta(t, 0.1, c.TestRatio(), 1e-9)
	assert.Equal(t, "kernel", c.KernelLabel)
	assert.Equal(t, int64(42), c.Seed)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"empty image dir", func(c *Config) { c.ImageDir = "" }},
		{"blank output", func(c *Config) { c.OutputDir = "  " }},
		{"empty label", func(c *Config) { c.KernelLabel = "" }},
		{"negative class", func(c *Config) { c.ClassIndex = -1 }},
		{"ext without dot", func(c *Config) { c.ImageExt = "jpg" }},
		{"negative ratio", func(c *Config) { c.WithRatios(-0.1, 0.1) }},
		{"ratios over one", func(c *Config) { c.WithRatios(0.8, 0.3) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)

			_, err := NewPreparer(c, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestConfigManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cm := NewConfigManager(path)

	// 未加载时返回默认值
	assert.Equal(t, DefaultConfig(), cm.GetConfig())
	assert.Equal(t, DefaultVisualizeOptions(), cm.GetVisualizeOptions())
	assert.Equal(t, DefaultTrainConfig(), cm.GetTrainConfig())

	require.NoError(t, cm.CreateDefaultConfig())
	assert.FileExists(t, path)

	cm.GetConfig().WithRatios(0.7, 0.2).WithSeed(7)
	cm.GetTrainConfig().Epochs = 5
	require.NoError(t, cm.SaveConfig())

	loaded := NewConfigManager(path)
	require.NoError(t, loaded.LoadConfig())
	assert.Equal(t, 0.7, loaded.GetConfig().TrainRatio)
	assert.Equal(t, 0.2, loaded.GetConfig().ValRatio)
	assert.Equal(t, int64(7), loaded.GetConfig().Seed)
	assert.Equal(t, 5, loaded.GetTrainConfig().Epochs)
	assert.Equal(t, "green", loaded.GetVisualizeOptions().LineColor)
}

func TestConfigManagerPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "dataset:\n  image_dir: photos\n  seed: 3\n")

	cm := NewConfigManager(path)
	require.NoError(t, cm.LoadConfig())
	assert.Equal(t, "photos", cm.GetConfig().ImageDir)
	assert.Equal(t, int64(3), cm.GetConfig().Seed)
	assert.Equal(t, "annotations.xml", cm.GetConfig().AnnotationsPath)
	assert.Equal(t, 100, cm.GetTrainConfig().Epochs)
}

func TestConfigManagerErrors(t *testing.T) {
	dir := t.TempDir()

	missing := NewConfigManager(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, missing.LoadConfig())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("dataset: [1, 2"), 0644))
	assert.Error(t, NewConfigManager(bad).LoadConfig())

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("dataset:\n  train_ratio: 0.95\n"), 0644))
	assert.ErrorIs(t, NewConfigManager(invalid).LoadConfig(), ErrInvalidConfig)
}
