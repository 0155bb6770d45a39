// Package config defines the tool's settings file and its loader. Settings
// live in a small YAML file; the API token is taken from the environment so
// it never has to be written to disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Environment variables consulted at load time. They override the file.
const (
	EnvEndpoint = "SITEWRIGHT_ENDPOINT"
	EnvToken    = "SITEWRIGHT_TOKEN"
)

// Config is the parsed settings file.
type Config struct {
	API      APIConfig    `mapstructure:"api"`
	Tunnel   TunnelConfig `mapstructure:"tunnel"`
	Defaults Defaults     `mapstructure:"defaults"`
}

// APIConfig locates and authenticates against the management API.
type APIConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// Token is normally supplied via SITEWRIGHT_TOKEN rather than the file.
	Token string `mapstructure:"token"`
}

// TunnelConfig tunes remote tunnel sessions.
type TunnelConfig struct {
	// RemotePort is the fixed port the remote tunnel endpoint listens on.
	RemotePort int `mapstructure:"remote_port"`
	// ReadyTimeout bounds readiness polling after the tunnel opens.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
	// SettleDelay is the pause between the connect command and the login
	// credential.
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// Defaults pre-fills wizard answers and the terminal shell.
type Defaults struct {
	Location string `mapstructure:"location"`
	Shell    string `mapstructure:"shell"`
}

// DefaultPath returns the per-user settings file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sitewright", "config.yaml")
}

func (c *Config) applyDefaults() {
	if c.Tunnel.RemotePort == 0 {
		c.Tunnel.RemotePort = 2222
	}
	if c.Tunnel.ReadyTimeout == 0 {
		c.Tunnel.ReadyTimeout = 60 * time.Second
	}
	if c.Tunnel.SettleDelay == 0 {
		c.Tunnel.SettleDelay = 3 * time.Second
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.API.Endpoint = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.API.Token = v
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint is required (or set %s)", EnvEndpoint)
	}
	if c.API.Token == "" {
		return fmt.Errorf("api token is required (set %s)", EnvToken)
	}
	if c.Tunnel.RemotePort < 1 || c.Tunnel.RemotePort > 65535 {
		return fmt.Errorf("tunnel.remote_port %d out of range", c.Tunnel.RemotePort)
	}
	if c.Tunnel.ReadyTimeout < 0 {
		return fmt.Errorf("tunnel.ready_timeout must not be negative")
	}
	if c.Tunnel.SettleDelay < 0 {
		return fmt.Errorf("tunnel.settle_delay must not be negative")
	}
	return nil
}
