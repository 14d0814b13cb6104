package sapapi

import (
	"fmt"
	"time"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":5000"

// Config holds configuration for the sap-api component.
type Config struct {
	// Addr is the TCP address the HTTP server listens on.
	Addr string `json:"addr" yaml:"addr"`

	// Metrics exposes /metrics when a registry is attached.
	Metrics bool `json:"metrics" yaml:"metrics"`

	// ReadHeaderTimeout bounds how long a client may take to send headers.
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Addr:              DefaultAddr,
		Metrics:           true,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Validate verifies the configuration is consistent.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.ReadHeaderTimeout < 0 {
		return fmt.Errorf("read_header_timeout must not be negative")
	}
	return nil
}
