package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/vcollage/pkg/compositor"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, compositor.DefaultParams(), p)
	assert.Equal(t, 300, cfg.Preview.MaxWidth)
	assert.Equal(t, 1000, cfg.Preview.MaxHeight)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Collage.Width = 0 }},
		{"negative border", func(c *Config) { c.Collage.BorderWidth = -2 }},
		{"unknown color", func(c *Config) { c.Collage.BorderColor = "Purple" }},
		{"nearest resampler", func(c *Config) { c.Collage.Resampler = "nearest" }},
		{"zero preview", func(c *Config) { c.Preview.MaxWidth = 0 }},
		{"bad format", func(c *Config) { c.Output.Format = "gif" }},
		{"bad quality", func(c *Config) { c.Output.Quality = 101 }},
		{"bad upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero max width", func(c *Config) { c.Collage.MaxWidth = 0 }},
		{"width above max width", func(c *Config) { c.Collage.MaxWidth = c.Collage.Width - 1 }},
		{"negative session ttl", func(c *Config) { c.Server.SessionTTL = -time.Minute }},
		{"ttl without sweep interval", func(c *Config) { c.Server.SweepInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vcollage.yaml")
	content := `
collage:
  width: 640
  border_width: 12
  border_color: black
  resampler: nfnt-lanczos3
output:
  format: png
server:
  port: "9090"
  read_timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, compositor.Params{Width: 640, BorderWidth: 12, BorderColor: compositor.Black}, p)
	assert.Equal(t, "nfnt-lanczos3", cfg.Collage.Resampler)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	// untouched keys keep their defaults
	assert.Equal(t, 90, cfg.Output.Quality)
	assert.Equal(t, compositor.DefaultLimits(), cfg.Limits())
	assert.Equal(t, time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, 300, cfg.Preview.MaxWidth)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collage:\n  border_color: Orange\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VCOLLAGE_COLLAGE_WIDTH", "512")
	t.Setenv("VCOLLAGE_COLLAGE_BORDER_COLOR", "Cyan")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Collage.Width)
	assert.Equal(t, "Cyan", cfg.Collage.BorderColor)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestSaveToFile(t *testing.T) {
	cfg := Default()
	cfg.Collage.Width = 777
	cfg.Collage.BorderColor = "Magenta"
	cfg.Output.Lossless = true

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 777, loaded.Collage.Width)
	assert.Equal(t, "Magenta", loaded.Collage.BorderColor)
	assert.True(t, loaded.Output.Lossless)
	assert.Equal(t, cfg.Server.WriteTimeout, loaded.Server.WriteTimeout)
}

func TestSetupLogger(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(new(logrus.TextFormatter))

	require.NoError(t, LogConfig{Level: "debug", Format: "json"}.SetupLogger())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	assert.Error(t, LogConfig{Level: "nope"}.SetupLogger())
}
