// Package config provides configuration management for the trading application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Session     SessionConfig `mapstructure:"session"`
	Server      ServerConfig  `mapstructure:"server"`
	UI          UIConfig      `mapstructure:"ui"`
	Advice      AdviceConfig  `mapstructure:"advice"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// SessionConfig holds simulated trading session configuration.
type SessionConfig struct {
	TickInterval       time.Duration `mapstructure:"tick_interval"`
	NiftyOpen          float64       `mapstructure:"nifty_open"`
	BankNiftyOpen      float64       `mapstructure:"bank_nifty_open"`
	NiftyVolatility    float64       `mapstructure:"nifty_volatility"`
	BankNiftyVolatility float64      `mapstructure:"bank_nifty_volatility"`
	DriftMax           float64       `mapstructure:"drift_max"`
	Seed               int64         `mapstructure:"seed"` // 0 means time-derived
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// AdviceConfig holds advice provider configuration.
type AdviceConfig struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/algotrader"
	}
	return filepath.Join(home, ".config", "algotrader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// Set defaults
	v.SetDefault("session.tick_interval", "2s")
	v.SetDefault("session.nifty_open", 23500.0)
	v.SetDefault("session.bank_nifty_open", 50000.0)
	v.SetDefault("session.nifty_volatility", 0.0001)
	v.SetDefault("session.bank_nifty_volatility", 0.00018)
	v.SetDefault("session.drift_max", 0.00005)
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("advice.model", "gpt-4o")
	v.SetDefault("advice.temperature", 0.7)
	v.SetDefault("advice.max_tokens", 4096)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	// OpenAI credentials
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}

	// Server address
	if v := os.Getenv("ALGOTRADER_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Session.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if c.Session.NiftyOpen <= 0 || c.Session.BankNiftyOpen <= 0 {
		return fmt.Errorf("seed opening prices must be positive")
	}
	if c.Session.NiftyVolatility <= 0 || c.Session.BankNiftyVolatility <= 0 {
		return fmt.Errorf("volatility parameters must be positive")
	}
	if c.Session.DriftMax < 0 {
		return fmt.Errorf("drift_max must be non-negative")
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.Advice.Temperature < 0 || c.Advice.Temperature > 2 {
		return fmt.Errorf("advice temperature must be between 0 and 2")
	}
	if c.Advice.MaxTokens <= 0 {
		return fmt.Errorf("advice max_tokens must be positive")
	}
	return nil
}

// HasOpenAIKey reports whether an OpenAI API key is configured.
func (c *Config) HasOpenAIKey() bool {
	return c.Credentials.OpenAI.APIKey != ""
}
