package config

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test. envconfig treats a set but
// empty variable as a value, so defaults only apply to unset keys.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{"PORT", "CONTEXT_TIMEOUT", "EMAIL_PROVIDER", "SES_INSECURE_SKIP_VERIFY"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "noop", cfg.EmailProvider)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	unsetenv(t, "SES_INSECURE_SKIP_VERIFY")
	t.Setenv("PORT", "9090")
	t.Setenv("CONTEXT_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	unsetenv(t, "CONTEXT_TIMEOUT")
	unsetenv(t, "SES_INSECURE_SKIP_VERIFY")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		level     string
		wantJSON  bool
		debugSeen bool
	}{
		{"production json", "production", "info", true, false},
		{"development text", "development", "info", false, false},
		{"debug level", "development", "debug", false, true},
		{"unknown level falls back to info", "development", "loud", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.env, tt.level, &buf)
			logger.Debug("debug line")
			logger.Info("info line")
			out := buf.String()
			assert.Contains(t, out, "info line")
			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug line")))
			if tt.wantJSON {
				assert.Contains(t, out, `"msg":"info line"`)
			} else {
				assert.Contains(t, out, "msg=\"info line\"")
			}
		})
	}
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
}
