package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(wd))
	})
}

func writeConfig(t *testing.T, contents string) {
	t.Helper()
	viper.Reset()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644))
	chdir(t, dir)
}

func TestLoadValidConfig(t *testing.T) {
	writeConfig(t, `
TOKEN: "abc123"
anonymous_channel_id: "123456789"
audit_channel_id: "987654321"
confirm_timeout_seconds: 120
log_level: debug
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.Token)
	assert.Equal(t, "123456789", cfg.AnonymousChannelID)
	assert.Equal(t, "987654321", cfg.AuditChannelID)
	assert.Equal(t, 2*time.Minute, cfg.ConfirmTimeout())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadAppliesDefaults(t *testing.T) {
	writeConfig(t, `
TOKEN: "abc123"
anonymous_channel_id: "123456789"
audit_channel_id: "987654321"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.ConfirmTimeout())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name: "missing token",
			contents: `
anonymous_channel_id: "123456789"
audit_channel_id: "987654321"
`,
		},
		{
			name: "non-numeric channel id",
			contents: `
TOKEN: "abc123"
anonymous_channel_id: "not-a-channel"
audit_channel_id: "987654321"
`,
		},
		{
			name: "missing audit channel",
			contents: `
TOKEN: "abc123"
anonymous_channel_id: "123456789"
`,
		},
		{
			name: "timeout out of range",
			contents: `
TOKEN: "abc123"
anonymous_channel_id: "123456789"
audit_channel_id: "987654321"
confirm_timeout_seconds: 2
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.contents)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFailsWithoutConfigFile(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())
	_, err := Load()
	assert.Error(t, err)
}
