// Package bugsnag reports crashes and internal errors of the filesize CLI.
// Reporting is off unless an API key is injected at build time and telemetry is enabled.
package bugsnag

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/bugsnag/bugsnag-go/v2"

	"github.com/wwtatc/filesize/internal/version"
	"github.com/wwtatc/filesize/pkg/config"
)

// Build-time variables that can be set via ldflags
// Example: go build -ldflags "-X github.com/wwtatc/filesize/pkg/bugsnag.BugsnagAPIKey=your-key"
var (
	// BugsnagAPIKey is the API key for error reporting, injected at compile time.
	// If not set during build, error reporting is disabled.
	BugsnagAPIKey = ""

	// DefaultReleaseStage can be overridden at compile time via ldflags.
	DefaultReleaseStage = "prod"
)

var (
	initialized bool
	enabled     bool
)

// Initialize configures the Bugsnag client. Calling it again is a no-op.
func Initialize() error {
	if initialized {
		return nil
	}
	initialized = true

	cfg, _ := config.Load() // Proceed with defaults if config is unavailable
	if cfg != nil && !cfg.IsTelemetryEnabled() {
		return nil
	}

	apiKey := BugsnagAPIKey
	if envKey := os.Getenv("BUGSNAG_API_KEY"); envKey != "" && apiKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil
	}

	releaseStage := os.Getenv("FILESIZE_ENV")
	if releaseStage == "" {
		releaseStage = DefaultReleaseStage
	}

	bugsnag.Configure(bugsnag.Configuration{
		APIKey:              apiKey,
		ReleaseStage:        releaseStage,
		AppVersion:          version.Version,
		AppType:             "cli",
		ProjectPackages:     []string{"main", "github.com/wwtatc/filesize*"},
		NotifyReleaseStages: []string{"prod", "dev"},
		PanicHandler:        func() {}, // Panics are reported by NotifyOnPanic
		Synchronous:         true,      // The process exits right after reporting
	})

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, _ *bugsnag.Configuration) error {
		event.MetaData.Add("system", "os_type", runtime.GOOS)
		event.MetaData.Add("system", "os_arch", runtime.GOARCH)
		event.MetaData.Add("system", "go_version", runtime.Version())
		return nil
	})

	enabled = true
	return nil
}

// IsEnabled returns whether error reporting is active
func IsEnabled() bool {
	return enabled
}

// NotifyError reports an unexpected failure
func NotifyError(ctx context.Context, err error) {
	NotifyWithMetadata(ctx, err, bugsnag.SeverityError, nil)
}

// NotifyWithMetadata reports an error with extra tabs of metadata.
// User cancellations are never reported.
func NotifyWithMetadata(ctx context.Context, err error, severity any, metadata bugsnag.MetaData) {
	if !initialized {
		_ = Initialize()
	}
	if !enabled || err == nil || IsUserCancellation(err) {
		return
	}

	rawData := []any{ctx, severity}
	if metadata != nil {
		rawData = append(rawData, metadata)
	}
	_ = bugsnag.Notify(err, rawData...)
}

// NotifyOnPanic reports a panic and re-panics. Defer it at the top of main.
func NotifyOnPanic(ctx context.Context) {
	if r := recover(); r != nil {
		var err error
		switch x := r.(type) {
		case string:
			err = fmt.Errorf("panic: %s", x)
		case error:
			err = fmt.Errorf("panic: %w", x)
		default:
			err = fmt.Errorf("panic: %v", r)
		}

		NotifyError(ctx, err)
		panic(r)
	}
}

// SetCommandContext tags later reports with the command that was running
func SetCommandContext(command string, args []string) {
	if !enabled {
		return
	}

	bugsnag.OnBeforeNotify(func(event *bugsnag.Event, _ *bugsnag.Configuration) error {
		event.MetaData.Add("command", "name", command)
		if len(args) > 0 {
			event.MetaData.Add("command", "args", strings.Join(args, " "))
		}
		return nil
	})
}

// IsUserCancellation identifies errors caused by the user quitting
func IsUserCancellation(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") ||
		strings.Contains(errStr, "cancelled by user")
}
