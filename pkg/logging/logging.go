// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-isatty"
)

// Setup installs the default slog logger at the given level.
//
// When a TUI owns the terminal (interactive) and stderr has not been redirected,
// logs go to a timestamped file in the temp dir so they do not tear the prompt
// rendering. Otherwise they go to stderr, which respects `2>` redirection.
//
// Returns the log file path, or "" when logging to stderr.
func Setup(isInteractive bool, level slog.Level) (string, error) {
	output := io.Writer(os.Stderr)
	logFilePath := ""

	if isInteractive && isatty.IsTerminal(os.Stderr.Fd()) {
		logFilePath = filepath.Join(os.TempDir(),
			fmt.Sprintf("filesize-debug-%s.log", time.Now().Format("2006-01-02T15-04-05")))

		logFile, err := os.OpenFile(logFilePath, //nolint:gosec // Log file in temp directory
			os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			return "", err
		}
		output = logFile
	}

	install(output, level)
	return logFilePath, nil
}

// Disable discards all log output. Used when --verbose is not set.
func Disable() {
	install(io.Discard, slog.LevelError+1)
}

// SetupForTesting routes slog to w for the duration of the test.
func SetupForTesting(t *testing.T, w io.Writer, level slog.Level) {
	original := slog.Default()
	install(w, level)
	t.Cleanup(func() {
		slog.SetDefault(original)
	})
}

func install(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
