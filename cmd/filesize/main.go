package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/wwtatc/filesize/internal/commands"
	"github.com/wwtatc/filesize/internal/ui"
	"github.com/wwtatc/filesize/pkg/bugsnag"
)

func main() {
	if err := bugsnag.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error tracking: %v\n", err)
	}

	defer bugsnag.NotifyOnPanic(context.Background())

	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(handleError(rootCmd.Usage, err))
	}
}

// handleError prints err unless it was already shown, and returns the exit status
func handleError(usage func() error, err error) int {
	var uiErr *ui.UIError
	if errors.As(err, &uiErr) {
		if uiErr.Type == ui.ErrorTypeInternal {
			bugsnag.NotifyError(context.Background(), err)
		}
		if !uiErr.SilentExit {
			fmt.Fprintf(os.Stderr, "Error: %s\n", uiErr.Error())
		}
		return 1
	}

	// Usage is silenced on the command tree, so print it here for mistakes in the invocation
	if isUsageError(err) {
		_ = usage()
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	return 1
}

// isUsageError reports whether cobra rejected the command line itself
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
	} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
