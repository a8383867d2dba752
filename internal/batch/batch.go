// Package batch runs the allocator over a comma-separated list of file counts
// and renders the results.
package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wwtatc/filesize/internal/alloc"
)

// ErrInvalidInput marks input that is not syntactically numeric. It aborts the whole batch.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputMessage is the user-facing text for ErrInvalidInput.
const InvalidInputMessage = "Invalid input. Please enter numeric values."

// Entry is the outcome for one file count: either an allocation or a per-item error.
type Entry struct {
	NumFiles   int
	Allocation alloc.Allocation
	Err        error
}

// OK reports whether the entry produced an allocation.
func (e Entry) OK() bool {
	return e.Err == nil
}

// Warning returns the inline message printed for a skipped entry.
func (e Entry) Warning() string {
	switch {
	case e.Err == nil:
		return ""
	case errors.Is(e.Err, alloc.ErrInvalidFileCount):
		return fmt.Sprintf("Invalid number of files: %d. Must be greater than 0.", e.NumFiles)
	case errors.Is(e.Err, alloc.ErrSizeOverflow):
		return fmt.Sprintf("Size for %d file(s) is too large to represent.", e.NumFiles)
	default:
		return fmt.Sprintf("Could not allocate %d file(s): %s", e.NumFiles, e.Err)
	}
}

// Report holds every entry of one batch in input order.
type Report struct {
	Volume  alloc.Volume
	Entries []Entry
}

// Allocations returns the successful entries.
func (r *Report) Allocations() []alloc.Allocation {
	var out []alloc.Allocation
	for _, e := range r.Entries {
		if e.OK() {
			out = append(out, e.Allocation)
		}
	}
	return out
}

// Warnings returns the messages for skipped entries.
func (r *Report) Warnings() []string {
	var out []string
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e.Warning())
		}
	}
	return out
}

// ParseFileCounts splits s on commas and parses every trimmed token as an integer.
// Any malformed token fails the whole list.
func ParseFileCounts(s string) ([]int, error) {
	tokens := strings.Split(s, ",")
	counts := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: file count %d (%q) is not an integer", ErrInvalidInput, i+1, tok)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

// Run parses both raw inputs and evaluates the batch.
func Run(volumeInput, countsInput string) (*Report, error) {
	v, err := alloc.ParseVolume(volumeInput)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	counts, err := ParseFileCounts(countsInput)
	if err != nil {
		return nil, err
	}

	return Evaluate(v, counts), nil
}

// Evaluate allocates v once per count. Counts that cannot be allocated become warning entries.
func Evaluate(v alloc.Volume, counts []int) *Report {
	report := &Report{
		Volume:  v,
		Entries: make([]Entry, 0, len(counts)),
	}

	for _, n := range counts {
		a, err := alloc.AllocateVolume(v, n)
		if err != nil {
			slog.Debug("Skipping file count", "files", n, "error", err)
			report.Entries = append(report.Entries, Entry{NumFiles: n, Err: err})
			continue
		}

		slog.Debug("Allocated", "volume_gib", v.String(), "files", n, "mib", a.MiB)
		report.Entries = append(report.Entries, Entry{NumFiles: n, Allocation: a})
	}

	return report
}
