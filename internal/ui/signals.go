package ui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// SignalCancelMsg is sent to the program when SIGINT or SIGTERM arrives
type SignalCancelMsg struct {
	Signal os.Signal
}

// SetupSignalHandling forwards SIGINT/SIGTERM to p as a SignalCancelMsg.
// A second signal, or the model not quitting within shutdownTimeout, force-exits with 130.
// NOTE: call before p.Run(), since it alters the program config.
// Close the returned channel once p.Run() returns.
func SetupSignalHandling(p *tea.Program, shutdownTimeout time.Duration) chan<- struct{} {
	if shutdownTimeout == 0 {
		shutdownTimeout = 100 * time.Millisecond
	}
	tea.WithoutSignalHandler()(p)

	sigChan := make(chan os.Signal, 1)
	doneCh := make(chan struct{})
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		var sig os.Signal
		select {
		case sig = <-sigChan:
		case <-doneCh:
			return
		}
		p.Send(SignalCancelMsg{Signal: sig})

		timer := time.NewTimer(shutdownTimeout)
		defer timer.Stop()

		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\nForce quitting...\n")
			os.Exit(130)
		case <-timer.C:
			fmt.Fprintf(os.Stderr, "\nTimeout trying to clean up, force quitting...\n")
			os.Exit(130)
		case <-doneCh:
			return
		}
	}()
	return doneCh
}
