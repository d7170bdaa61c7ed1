// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the service.
type Config struct {
	// HTTP listen address.
	HTTPAddr string

	// Solana JSON-RPC endpoint.
	RPCURL string

	// Base58-encoded private key backing the local signing provider.
	WalletKey string

	// Upper bound on a single confirmation wait.
	ConfirmTimeout time.Duration

	// Interval between finalization status polls.
	PollInterval time.Duration

	// Interval between periodic balance refreshes. Zero disables them.
	RefreshInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:        envOr("SOLMINT_HTTP_ADDR", ":8080"),
		RPCURL:          envOr("SOLMINT_RPC_URL", "https://api.devnet.solana.com"),
		WalletKey:       os.Getenv("SOLMINT_WALLET_KEY"),
		ConfirmTimeout:  durationOr("SOLMINT_CONFIRM_TIMEOUT", 90*time.Second),
		PollInterval:    durationOr("SOLMINT_POLL_INTERVAL", 2*time.Second),
		RefreshInterval: durationOr("SOLMINT_REFRESH_INTERVAL", 30*time.Second),
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("SOLMINT_RPC_URL is required")
	}
	if c.WalletKey == "" {
		return fmt.Errorf("SOLMINT_WALLET_KEY is required")
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("SOLMINT_CONFIRM_TIMEOUT must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
