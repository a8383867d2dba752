package ui

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// DisplayConfigContextKey is the key used to store DisplayConfig in context
type DisplayConfigContextKey struct{}

// GetDisplayConfigContextKey returns the key used to store DisplayConfig in context
func GetDisplayConfigContextKey() DisplayConfigContextKey {
	return DisplayConfigContextKey{}
}

// DisplayConfig contains display-related configuration
type DisplayConfig struct {
	DisableAnimation bool
	IsInteractive    bool
}

// SimpleOutput reports whether the plain line-oriented console protocol should be used
func (d DisplayConfig) SimpleOutput() bool {
	return !d.IsInteractive || d.DisableAnimation
}

// terminalState is what NewDisplayConfig learns from the flags and the process' file descriptors
type terminalState struct {
	stdinIsTTY         bool
	stdoutIsTTY        bool
	stderrSameAsStdout bool
	noColor            bool
	verbose            bool
}

// resolve decides the display mode. The TUI needs a terminal on both ends because it reads keystrokes.
func (s terminalState) resolve() DisplayConfig {
	disableAnimation := s.noColor

	// Verbose logs would interleave with the TUI only when stderr and stdout share a device
	verboseForcesSimpleOutput := s.verbose && s.stderrSameAsStdout

	return DisplayConfig{
		DisableAnimation: disableAnimation,
		IsInteractive:    s.stdinIsTTY && s.stdoutIsTTY && !disableAnimation && !verboseForcesSimpleOutput,
	}
}

// NewDisplayConfig extracts display options from persistent flags and TTY detection
func NewDisplayConfig(cmd *cobra.Command, verbose bool) (DisplayConfig, error) {
	noColor, _ := cmd.Flags().GetBool("no-color")
	noAnsi, _ := cmd.Flags().GetBool("no-ansi")

	state := terminalState{
		stdinIsTTY:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTTY: isatty.IsTerminal(os.Stdout.Fd()),
		noColor:     noColor || noAnsi,
		verbose:     verbose,
	}

	if stat1, err1 := os.Stdout.Stat(); err1 == nil {
		if stat2, err2 := os.Stderr.Stat(); err2 == nil {
			state.stderrSameAsStdout = os.SameFile(stat1, stat2)
		}
	}

	opts := state.resolve()

	slog.Debug("Display options determined",
		"command", cmd.Name(),
		"no-color", state.noColor,
		"verbose", verbose,
		"stdin-is-tty", state.stdinIsTTY,
		"stdout-is-tty", state.stdoutIsTTY,
		"stderr-same-as-stdout", state.stderrSameAsStdout,
		"is-interactive", opts.IsInteractive,
		"simple-output", opts.SimpleOutput(),
	)

	return opts, nil
}

// GetDisplayConfigFromContext retrieves DisplayConfig from the command context
func GetDisplayConfigFromContext(cmd *cobra.Command) (DisplayConfig, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return DisplayConfig{}, fmt.Errorf("command context is nil")
	}

	opts, ok := ctx.Value(GetDisplayConfigContextKey()).(DisplayConfig)
	if !ok {
		return DisplayConfig{}, fmt.Errorf("display options not found in context")
	}

	return opts, nil
}
