package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat.yaml"), []byte(body), 0o600))
	t.Setenv("VIPER_CONFIG_NAME", "chat")
	t.Setenv("VIPER_CONFIG_PATH", dir)
	return dir
}

func TestNewViperProvider_FileAndEnv(t *testing.T) {
	writeConfig(t, `
server:
  http_port: 8181
auth:
  secret_key: from-file
app:
  websocket_message_buffer_size: 7
`)
	t.Setenv("ALUMNI_CHAT_AUTH_SECRET_KEY", "from-env")
	t.Setenv("ALUMNI_CHAT_APP_CLOSE_SUPERSEDED_CONNECTIONS", "true")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := NewViperProvider(ctx, zaptest.NewLogger(t))
	require.NoError(t, err)

	cfg := p.Get()
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
	assert.Equal(t, "from-env", cfg.Auth.SecretKey)
	assert.Equal(t, 7, cfg.App.WebsocketMessageBufferSize)
	assert.True(t, cfg.App.CloseSupersededConnections)

	// keys absent from the file fall back to defaults
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 10080, cfg.Auth.AccessTokenExpireMinutes)
	assert.Equal(t, "drop_oldest", cfg.App.WebsocketBackpressureDropPolicy)
	assert.Equal(t, "chat.messages", cfg.NATS.SubjectPrefix)
}

func TestNewViperProvider_NoFileUsesEnv(t *testing.T) {
	t.Setenv("VIPER_CONFIG_NAME", "does-not-exist")
	t.Setenv("VIPER_CONFIG_PATH", t.TempDir())
	t.Setenv("ALUMNI_CHAT_AUTH_SECRET_KEY", "s3cret")
	t.Setenv("ALUMNI_CHAT_DATABASE_DRIVER", "postgres")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := NewViperProvider(ctx, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", p.Get().Auth.SecretKey)
	assert.Equal(t, "postgres", p.Get().Database.Driver)
	assert.Equal(t, 8080, p.Get().Server.HTTPPort)
}

func TestNewViperProvider_Invalid(t *testing.T) {
	writeConfig(t, `
auth:
  secret_key: ""
`)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := NewViperProvider(ctx, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret_key")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults plus secret", mutate: func(c *Config) {}},
		{name: "rsa algorithm", mutate: func(c *Config) { c.Auth.Algorithm = "RS256" }, wantErr: "auth.algorithm"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver"},
		{name: "unknown drop policy", mutate: func(c *Config) { c.App.WebsocketBackpressureDropPolicy = "drop_newest" }, wantErr: "drop_policy"},
		{name: "zero buffer", mutate: func(c *Config) { c.App.WebsocketMessageBufferSize = 0 }, wantErr: "buffer_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Auth.SecretKey = "secret"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
