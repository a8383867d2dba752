// Package measure derives a data volume from files on disk.
package measure

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wwtatc/filesize/internal/alloc"
)

// ErrNoMatches is returned when a pattern matches no regular files.
var ErrNoMatches = errors.New("no files matched")

// Result is the set of matched files and their combined size.
type Result struct {
	Pattern string
	Files   []string
	Bytes   int64
}

// Volume returns the combined size as an exact GiB volume.
func (r Result) Volume() alloc.Volume {
	return alloc.VolumeFromBytes(r.Bytes)
}

// Glob sums the sizes of every regular file in fsys matching pattern.
// Patterns use doublestar syntax: "**/*.parquet", "logs/*.{gz,zst}", "data/" (whole directory).
func Glob(fsys fs.FS, pattern string) (Result, error) {
	p := normalizePattern(pattern)
	if p == "" {
		return Result{}, fmt.Errorf("empty pattern")
	}
	if !doublestar.ValidatePattern(p) {
		return Result{}, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	matches, err := doublestar.Glob(fsys, p, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return Result{}, fmt.Errorf("failed to match %q: %w", pattern, err)
	}

	res := Result{Pattern: p}
	for _, name := range matches {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return Result{}, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		res.Files = append(res.Files, name)
		res.Bytes += info.Size()
	}

	if len(res.Files) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNoMatches, pattern)
	}

	slog.Debug("Measured volume", "pattern", p, "files", len(res.Files), "bytes", res.Bytes)
	return res, nil
}

// normalizePattern makes a user pattern relative to the fs root.
func normalizePattern(pattern string) string {
	p := filepath.ToSlash(strings.TrimSpace(pattern))
	p = strings.TrimPrefix(p, "./")

	// "dir/" means everything below dir
	if strings.HasSuffix(p, "/") {
		p += "**"
	}
	if p == "." {
		p = "**"
	}
	return p
}
