package bugsnag

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUserCancellation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context", context.Canceled, true},
		{"wrapped context", fmt.Errorf("run: %w", context.Canceled), true},
		{"ui cancel", errors.New("cancelled by user"), true},
		{"other", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUserCancellation(tt.err))
		})
	}
}

func TestInitialize_DisabledWithoutKey(t *testing.T) {
	t.Setenv("FILESIZE_CONFIG_PATH", filepath.Join(t.TempDir(), "config.yaml"))
	initialized, enabled = false, false
	t.Cleanup(func() { initialized, enabled = false, false })

	assert.NoError(t, Initialize())
	assert.False(t, IsEnabled())

	// Must not panic or send anything
	NotifyError(context.Background(), errors.New("boom"))
}

func TestInitialize_TelemetryDisabled(t *testing.T) {
	t.Setenv("FILESIZE_CONFIG_PATH", filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv("FILESIZE_TELEMETRY_DISABLED", "true")

	prevKey := BugsnagAPIKey
	BugsnagAPIKey = "0123456789abcdef0123456789abcdef"
	initialized, enabled = false, false
	t.Cleanup(func() {
		BugsnagAPIKey = prevKey
		initialized, enabled = false, false
	})

	assert.NoError(t, Initialize())
	assert.False(t, IsEnabled())
}

func TestNotifyOnPanic_Repanics(t *testing.T) {
	initialized, enabled = true, false
	t.Cleanup(func() { initialized, enabled = false, false })

	assert.PanicsWithValue(t, "boom", func() {
		defer NotifyOnPanic(context.Background())
		panic("boom")
	})
}
