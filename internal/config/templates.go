package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Algotrader Configuration

[session]
# Interval between simulated price ticks (e.g., "2s", "500ms")
tick_interval = "2s"
# Opening price for NIFTY 50
nifty_open = 23500.0
# Opening price for BANK NIFTY
bank_nifty_open = 50000.0
# Per-tick volatility for NIFTY 50
nifty_volatility = 0.0001
# Per-tick volatility for BANK NIFTY
bank_nifty_volatility = 0.00018
# Maximum absolute session drift per tick
drift_max = 0.00005
# Random seed for the session; 0 derives the seed from the clock
seed = 0

[server]
# Address the HTTP server listens on
listen_addr = ":8080"
# Grace period for in-flight requests on shutdown (e.g., "10s")
shutdown_timeout = "10s"

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[advice]
# LLM model to use for trade ideas
model = "gpt-4o"
# Temperature for LLM responses (0.0 - 2.0)
temperature = 0.7
# Maximum tokens for LLM responses
max_tokens = 4096
`

const credentialsTemplate = `# Algotrader Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[openai]
api_key = ""
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
