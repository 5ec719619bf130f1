// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Model   ModelConfig   `mapstructure:"model" yaml:"model"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Agent   AgentConfig   `mapstructure:"agent" yaml:"agent"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ModelConfig configures the Anthropic model transport.
type ModelConfig struct {
	// APIKey is resolved from the config file or the ANTHROPIC_API_KEY
	// environment variable.
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	Name      string        `mapstructure:"name" yaml:"name"`
	MaxTokens int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// DisplayConfig describes the coordinate space the model reasons in and the
// dispatcher validates against. The same dimensions are advertised in the
// tool schema, so both ends of the loop agree on bounds.
type DisplayConfig struct {
	Width          int           `mapstructure:"width" yaml:"width"`
	Height         int           `mapstructure:"height" yaml:"height"`
	CaptureQuality int           `mapstructure:"capture_quality" yaml:"capture_quality"`
	CaptureTimeout time.Duration `mapstructure:"capture_timeout" yaml:"capture_timeout"`
}

// BrowserConfig configures the CDP-backed device surface.
type BrowserConfig struct {
	Headless    bool          `mapstructure:"headless" yaml:"headless"`
	StartURL    string        `mapstructure:"start_url" yaml:"start_url"`
	ActionPause time.Duration `mapstructure:"action_pause" yaml:"action_pause"`
	MacKeymap   bool          `mapstructure:"mac_keymap" yaml:"mac_keymap"`
}

// AgentConfig configures the conversation orchestrator.
type AgentConfig struct {
	MaxIterations  int  `mapstructure:"max_iterations" yaml:"max_iterations"`
	ConfirmActions bool `mapstructure:"confirm_actions" yaml:"confirm_actions"`
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "computer-use")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// Model defaults
	v.SetDefault("model.name", "claude-sonnet-4-5")
	v.SetDefault("model.max_tokens", 4096)
	v.SetDefault("model.timeout", "120s")

	// Display defaults
	v.SetDefault("display.width", 1920)
	v.SetDefault("display.height", 1080)
	v.SetDefault("display.capture_quality", 80)
	v.SetDefault("display.capture_timeout", "10s")

	// Browser defaults
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.start_url", "about:blank")
	v.SetDefault("browser.action_pause", "100ms")
	v.SetDefault("browser.mac_keymap", true)

	// Agent defaults
	v.SetDefault("agent.max_iterations", 10)
	v.SetDefault("agent.confirm_actions", true)
}

// NewDefaultConfig returns a Config populated with the viper defaults only.
// Used by tests and as a fallback when no config file is present.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Unmarshalling pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks invariants that the rest of the application relies on.
func (c *Config) Validate() error {
	if c.Model.APIKey == "" {
		return fmt.Errorf("model API key is required (set model.api_key or ANTHROPIC_API_KEY)")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("display dimensions must be positive, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Agent.MaxIterations <= 0 {
		return fmt.Errorf("agent.max_iterations must be positive, got %d", c.Agent.MaxIterations)
	}
	return nil
}
