package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
dbname = "booking"
user = "booking"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, BackendEmbedded, cfg.Backend.Mode)
	assert.Equal(t, 1800, cfg.Wizard.SessionTTL)
	assert.Equal(t, 60, cfg.Wizard.SubmitTimeout)
	assert.Empty(t, cfg.Wizard.TrustedProxies)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "wizard:session:", cfg.Redis.SessionPrefix)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("REDIS_PASSWORD", "redis-env")

	path := writeConfig(t, `
[database]
host = "localhost"
dbname = "booking"
password = "from-file"

[redis]
enabled = true
addr = "localhost:6379"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "redis-env", cfg.Redis.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=from-env")
}

func TestLoad_RemoteBackend(t *testing.T) {
	path := writeConfig(t, `
[backend]
mode = "remote"
url = "http://booking-backend:8080"
timeout = 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.Backend.Mode)
	assert.Equal(t, 3, cfg.Backend.Timeout)
}

func TestLoad_TrustedProxies(t *testing.T) {
	path := writeConfig(t, `
[backend]
mode = "remote"
url = "http://booking-backend:8080"

[wizard]
trusted_proxies = ["10.0.0.0/8", "192.168.1.10"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.Wizard.TrustedProxies)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"embedded without database", `[backend]
mode = "embedded"`},
		{"remote without url", `[backend]
mode = "remote"`},
		{"unknown mode", `[backend]
mode = "grpc"`},
		{"redis without addr", `[backend]
mode = "remote"
url = "http://x"
[redis]
enabled = true`},
		{"bad trusted proxy", `[backend]
mode = "remote"
url = "http://x"
[wizard]
trusted_proxies = ["10.0.0.0/8", "proxy.local"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
