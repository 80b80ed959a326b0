package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("MONEYCTL_TEST_DIR", "/tmp/moneyctl-test")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty path",
			input:    "",
			expected: "",
		},
		{
			name:     "plain path unchanged",
			input:    "/var/data/cache.db",
			expected: "/var/data/cache.db",
		},
		{
			name:     "tilde alone",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde prefix",
			input:    "~/state/credentials.json",
			expected: filepath.Join(home, "state", "credentials.json"),
		},
		{
			name:     "environment variable",
			input:    "$MONEYCTL_TEST_DIR/cache.db",
			expected: "/tmp/moneyctl-test/cache.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPath(tt.input))
		})
	}
}

func TestDataFilePath(t *testing.T) {
	t.Run("honors XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

		path, err := DataFilePath("cache.db")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg-data", "moneyctl", "cache.db"), path)
	})

	t.Run("falls back to .local/share", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")

		home, err := os.UserHomeDir()
		require.NoError(t, err)

		path, err := DataFilePath("credentials.json")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".local", "share", "moneyctl", "credentials.json"), path)
	})
}
