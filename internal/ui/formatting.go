package ui

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatCount formats an integer with thousands separators (3497984 -> "3,497,984")
func FormatCount(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatGiB formats a GiB value with three decimals and thousands separators
func FormatGiB(gib float64) string {
	return numberPrinter.Sprintf("%.3f", gib)
}

// Pluralize returns singular when n is 1 and plural otherwise
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// FormatError formats an error message with styling
// NOTE: Adds a new line manually. Use strings.TrimSpace if you want to strip it.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	// Bubbletea can overwrite the last line on exit, hence the trailing newline
	// https://github.com/charmbracelet/bubbletea/issues/304
	return ErrorStyle.Render(fmt.Sprintf("✗ %s", err.Error())) + "\n"
}
