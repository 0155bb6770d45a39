package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvToken, "")

	path := writeConfig(t, `
api:
  endpoint: https://api.example.net
  token: file-token
tunnel:
  remote_port: 2223
  ready_timeout: 90s
  settle_delay: 1s
defaults:
  location: westeurope
  shell: /bin/zsh
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.net", cfg.API.Endpoint)
	assert.Equal(t, "file-token", cfg.API.Token)
	assert.Equal(t, 2223, cfg.Tunnel.RemotePort)
	assert.Equal(t, 90*time.Second, cfg.Tunnel.ReadyTimeout)
	assert.Equal(t, time.Second, cfg.Tunnel.SettleDelay)
	assert.Equal(t, "westeurope", cfg.Defaults.Location)
	assert.Equal(t, "/bin/zsh", cfg.Defaults.Shell)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvToken, "")

	path := writeConfig(t, `
api:
  endpoint: https://api.example.net
  token: file-token
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2222, cfg.Tunnel.RemotePort)
	assert.Equal(t, 60*time.Second, cfg.Tunnel.ReadyTimeout)
	assert.Equal(t, 3*time.Second, cfg.Tunnel.SettleDelay)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvEndpoint, "https://override.example.net")
	t.Setenv(EnvToken, "env-token")

	path := writeConfig(t, `
api:
  endpoint: https://api.example.net
  token: file-token
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example.net", cfg.API.Endpoint)
	assert.Equal(t, "env-token", cfg.API.Token)
}

func TestLoad_MissingEndpointFails(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvToken, "tok")

	path := writeConfig(t, "tunnel:\n  remote_port: 2222\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.endpoint is required")
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	t.Setenv(EnvEndpoint, "https://api.example.net")
	t.Setenv(EnvToken, "tok")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_BadPortRejected(t *testing.T) {
	t.Setenv(EnvEndpoint, "https://api.example.net")
	t.Setenv(EnvToken, "tok")

	path := writeConfig(t, "tunnel:\n  remote_port: 70000\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Setenv(EnvEndpoint, "https://api.example.net")
	t.Setenv(EnvToken, "tok")

	path := writeConfig(t, "api: [\n")

	_, err := Load(path)
	require.Error(t, err)
}
