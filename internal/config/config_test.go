package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	withHome(t)
	require.NoError(t, Load())

	s := Current()
	assert.Equal(t, 72, s.MaxHeader)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Empty(t, s.Rules)
	assert.Zero(t, s.LargeThreshold)
	assert.False(t, s.NoVerify)
	assert.False(t, s.Body)
}

func TestSetThenLoad(t *testing.T) {
	home := withHome(t)
	require.NoError(t, Load())

	require.NoError(t, Set(KeyLargeThreshold, "120"))
	require.NoError(t, Set(KeyNoVerify, "true"))
	require.NoError(t, Set(KeyRules, "/tmp/rules.yaml"))

	assert.FileExists(t, filepath.Join(home, ".commitx", "config.yaml"))

	viper.Reset()
	require.NoError(t, Load())
	s := Current()
	assert.Equal(t, 120, s.LargeThreshold)
	assert.True(t, s.NoVerify)
	assert.Equal(t, "/tmp/rules.yaml", s.Rules)
	assert.Equal(t, "120", Get(KeyLargeThreshold))
}

func TestSet_Rejects(t *testing.T) {
	withHome(t)
	require.NoError(t, Load())

	tests := []struct {
		key, value string
	}{
		{"mirror", "x"},
		{KeyMaxHeader, "many"},
		{KeyMaxHeader, "-1"},
		{KeyBody, "maybe"},
		{KeyLogLevel, "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.Error(t, Set(tt.key, tt.value))
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	withHome(t)
	require.NoError(t, Load())
	require.NoError(t, Set(KeyMaxHeader, "60"))

	t.Setenv("COMMITX_MAX_HEADER", "50")
	viper.Reset()
	require.NoError(t, Load())
	assert.Equal(t, 50, Current().MaxHeader)
}

func TestLoad_BrokenFile(t *testing.T) {
	home := withHome(t)
	dir := filepath.Join(home, ".commitx")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("max_header: [\n"), 0o644))

	assert.Error(t, Load())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"body", "large_threshold", "log_level", "max_header", "no_verify", "rules"}, Keys())
}
