package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lwb-ingest/internal/core/domain"
)

func TestConfigCmd_Use(t *testing.T) {
	assert.Equal(t, "config", configCmd.Use)
	assert.Contains(t, configSetCmd.Long, "manifest.secret")
	assert.Contains(t, configSetCmd.Long, "storage.backend")
}

func TestConfigShow_WarnsWithoutSecret(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Secret: (not set)")
	assert.Contains(t, out, "SQLite (local file)")
	assert.Contains(t, out, "config set manifest.secret")
}

func TestConfigSetThenShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "set", "manifest.secret", "super-secret-value")
	require.NoError(t, err)
	assert.Contains(t, out, "Set manifest.secret")

	_, err = execute("config", "set", "storage.backend", "memory")
	require.NoError(t, err)

	out, err = execute("config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret: supe...alue")
	assert.NotContains(t, out, "super-secret-value")
	assert.Contains(t, out, "In-memory")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestConfigSet_InvalidInput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("config", "set", "no.such.key", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute("config", "set", "server.burst", "lots")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigPath(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("config", "path")

	require.NoError(t, err)
	assert.Equal(t, ":memory:", strings.TrimSpace(out))
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short secret", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long secret", input: "sk-1234567890abcdef", expected: "sk-1...cdef"},
		{name: "Empty secret", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskSecret(tt.input))
		})
	}
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://lwb:xxxxx@db:5432/lwb", redactURL("postgres://lwb:hunter2@db:5432/lwb"))
	assert.Equal(t, "redis://localhost:6379", redactURL("redis://localhost:6379"))
	assert.Equal(t, "not a url", redactURL("not a url"))
}
