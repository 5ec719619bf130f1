// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "computer-use", cfg.Logger.ServiceName)

	assert.Equal(t, "claude-sonnet-4-5", cfg.Model.Name)
	assert.Equal(t, 4096, cfg.Model.MaxTokens)
	assert.Equal(t, 120*time.Second, cfg.Model.Timeout)

	assert.Equal(t, 1920, cfg.Display.Width)
	assert.Equal(t, 1080, cfg.Display.Height)
	assert.Equal(t, 80, cfg.Display.CaptureQuality)
	assert.Equal(t, 10*time.Second, cfg.Display.CaptureTimeout)

	assert.Equal(t, "about:blank", cfg.Browser.StartURL)
	assert.Equal(t, 100*time.Millisecond, cfg.Browser.ActionPause)
	assert.True(t, cfg.Browser.MacKeymap)

	assert.Equal(t, 10, cfg.Agent.MaxIterations)
	assert.True(t, cfg.Agent.ConfirmActions)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewDefaultConfig()
		cfg.Model.APIKey = "sk-test"
		return cfg
	}

	t.Run("defaults with api key are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := valid()
		cfg.Model.APIKey = ""
		assert.ErrorContains(t, cfg.Validate(), "API key")
	})

	t.Run("empty model name", func(t *testing.T) {
		cfg := valid()
		cfg.Model.Name = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive display dimensions", func(t *testing.T) {
		cfg := valid()
		cfg.Display.Width = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive iteration budget", func(t *testing.T) {
		cfg := valid()
		cfg.Agent.MaxIterations = 0
		assert.Error(t, cfg.Validate())
	})
}
