package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects how a report is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every supported output format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a user-supplied format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid output format: %s (supported: text, json, yaml, toml)", s)
}

// WriteText writes the report in the console layout:
//
//	For 3 file(s):
//	  3.336 GiB per file
//	  3416 MiB per file
//	  3497984 KiB per file
//
// Each block is preceded by a blank line. Skipped entries print a single warning line.
func WriteText(w io.Writer, r *Report) error {
	for _, e := range r.Entries {
		if !e.OK() {
			if _, err := fmt.Fprintln(w, e.Warning()); err != nil {
				return err
			}
			continue
		}

		a := e.Allocation
		_, err := fmt.Fprintf(w, "\nFor %d file(s):\n  %.3f GiB per file\n  %d MiB per file\n  %d KiB per file\n",
			a.NumFiles, a.GiB(), a.MiB, a.KiB())
		if err != nil {
			return err
		}
	}
	return nil
}

// Document is the structured form of a report used by the json, yaml and toml encoders.
type Document struct {
	VolumeGiB string          `json:"volume_gib" yaml:"volume_gib" toml:"volume_gib"`
	Results   []DocumentEntry `json:"results" yaml:"results" toml:"results"`
}

// DocumentEntry is one file count. Size fields are absent when Error is set.
type DocumentEntry struct {
	Files int      `json:"files" yaml:"files" toml:"files"`
	GiB   *float64 `json:"gib,omitempty" yaml:"gib,omitempty" toml:"gib,omitempty"`
	MiB   *int64   `json:"mib,omitempty" yaml:"mib,omitempty" toml:"mib,omitempty"`
	KiB   *int64   `json:"kib,omitempty" yaml:"kib,omitempty" toml:"kib,omitempty"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// NewDocument converts a report into its structured form.
func NewDocument(r *Report) Document {
	doc := Document{
		VolumeGiB: r.Volume.String(),
		Results:   make([]DocumentEntry, 0, len(r.Entries)),
	}

	for _, e := range r.Entries {
		if !e.OK() {
			doc.Results = append(doc.Results, DocumentEntry{Files: e.NumFiles, Error: e.Warning()})
			continue
		}

		gib, mib, kib := e.Allocation.GiB(), e.Allocation.MiB, e.Allocation.KiB()
		doc.Results = append(doc.Results, DocumentEntry{
			Files: e.NumFiles,
			GiB:   &gib,
			MiB:   &mib,
			KiB:   &kib,
		})
	}

	return doc
}

// Encode writes the report in the given format.
func Encode(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, r)

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(r))

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(r)); err != nil {
			return err
		}
		return enc.Close()

	case FormatTOML:
		return toml.NewEncoder(w).Encode(NewDocument(r))

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
