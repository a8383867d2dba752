package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwtatc/filesize/internal/ui"
	"github.com/wwtatc/filesize/pkg/config"
)

func setupConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("FILESIZE_CONFIG_PATH", path)
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := config.Load()
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewConfigCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSetThenGet(t *testing.T) {
	path := setupConfig(t)

	out, _, err := execute(t, "set", "output", "JSON")
	require.NoError(t, err)
	assert.Equal(t, "✓ Set output = json\n", out)

	out, _, err = execute(t, "get", "output")
	require.NoError(t, err)
	assert.Equal(t, "json\n", out)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "output: json")
}

func TestSet_KebabCaseKey(t *testing.T) {
	setupConfig(t)

	_, _, err := execute(t, "set", "log-level", "Debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", viper.GetString("loglevel"))
}

func TestSet_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"set", "colour", "blue"}},
		{"unknown format", []string{"set", "output", "xml"}},
		{"unknown level", []string{"set", "log-level", "loud"}},
		{"non-bool telemetry", []string{"set", "telemetry", "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupConfig(t)

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)

			var uiErr *ui.UIError
			require.ErrorAs(t, err, &uiErr)
			assert.Equal(t, ui.ErrorTypeValidation, uiErr.Type)
			assert.False(t, viper.IsSet(config.NormalizeKey(tt.args[1])))
		})
	}
}

func TestSet_UnknownKeyListsValidKeys(t *testing.T) {
	setupConfig(t)

	_, stderr, err := execute(t, "set", "colour", "blue")
	require.Error(t, err)
	assert.Contains(t, stderr, "'colour' is not a recognized configuration key")
	for _, key := range config.GetUserFacingKeys() {
		assert.Contains(t, stderr, "  "+key+" - ")
	}
}

func TestGet_Unset(t *testing.T) {
	setupConfig(t)

	_, _, err := execute(t, "get", "output")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestList(t *testing.T) {
	setupConfig(t)

	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "No configuration found\n", out)

	_, _, err = execute(t, "set", "telemetry", "false")
	require.NoError(t, err)
	_, _, err = execute(t, "set", "output", "yaml")
	require.NoError(t, err)

	out, _, err = execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "output: yaml\ntelemetry: false\n", out)
}

func TestTelemetry(t *testing.T) {
	setupConfig(t)
	t.Setenv("FILESIZE_TELEMETRY_DISABLED", "")

	out, _, err := execute(t, "telemetry", "status")
	require.NoError(t, err)
	assert.Equal(t, "Telemetry: enabled\n", out)

	out, _, err = execute(t, "telemetry", "disable")
	require.NoError(t, err)
	assert.Equal(t, "✓ Telemetry disabled\n", out)

	out, _, err = execute(t, "telemetry", "status")
	require.NoError(t, err)
	assert.Equal(t, "Telemetry: disabled\n", out)

	out, _, err = execute(t, "telemetry", "enable")
	require.NoError(t, err)
	assert.Equal(t, "✓ Telemetry enabled\n", out)
}

func TestEdit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the true/false shell utilities as the editor")
	}

	t.Run("valid file", func(t *testing.T) {
		path := setupConfig(t)
		require.NoError(t, os.WriteFile(path, []byte("output: json\nloglevel: debug\ntelemetry: false\n"), 0o600))
		t.Setenv("EDITOR", "true")

		out, stderr, err := execute(t, "edit")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Opening "+path+" with true")
		assert.Equal(t, "✓ Config is valid\n", out)
		assert.Equal(t, "json", viper.GetString("output"))
	})

	t.Run("invalid values are reported", func(t *testing.T) {
		path := setupConfig(t)
		require.NoError(t, os.WriteFile(path, []byte("output: xml\ncolour: blue\nloglevel: info\n"), 0o600))
		t.Setenv("EDITOR", "true")

		out, _, err := execute(t, "edit")
		require.Error(t, err)
		assert.Empty(t, out)

		var uiErr *ui.UIError
		require.ErrorAs(t, err, &uiErr)
		assert.Equal(t, ui.ErrorTypeConfiguration, uiErr.Type)
		assert.Contains(t, err.Error(), `unknown key "colour"`)
		assert.Contains(t, err.Error(), "output: invalid output format: xml")
		assert.NotContains(t, err.Error(), "loglevel")
	})

	t.Run("editor failure", func(t *testing.T) {
		setupConfig(t)
		t.Setenv("EDITOR", "false")

		_, _, err := execute(t, "edit")
		var uiErr *ui.UIError
		require.ErrorAs(t, err, &uiErr)
		assert.Equal(t, ui.ErrorTypeInternal, uiErr.Type)
	})
}
