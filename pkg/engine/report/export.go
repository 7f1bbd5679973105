// Package report renders campus frames for files, terminals and browsers.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

// Format is an output encoding for a frame.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// BaseName is the file stem used for exported artifacts.
const BaseName = "campus_snapshot"

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatCSV, FormatJSON, FormatYAML, FormatHTML}
}

// ExportFormats lists the formats written by an export run.
func ExportFormats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatYAML, FormatHTML}
}

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatCSV, FormatJSON, FormatYAML, FormatHTML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, csv, json, yaml or html)", s)
	}
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns the artifact name for f, e.g. campus_snapshot.csv.
func Filename(f Format) string {
	return BaseName + "." + f.Ext()
}

// Encode writes frame to w in format f. HTML output produced here does not
// auto-refresh; use RenderHTML for the live dashboard.
func Encode(w io.Writer, f Format, frame campus.Frame) error {
	switch f {
	case FormatText:
		return WriteText(w, frame)
	case FormatCSV:
		return WriteCSV(w, frame)
	case FormatJSON:
		return WriteJSON(w, frame)
	case FormatYAML:
		return WriteYAML(w, frame)
	case FormatHTML:
		return RenderHTML(w, frame, 0)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteCSV writes the Traffic & Mobility table, one row per zone.
func WriteCSV(w io.Writer, frame campus.Frame) error {
	cw := csv.NewWriter(w)

	header := []string{"Zone", "Footfall", "Occupancy", "Power", "Risk"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range frame.Snapshot {
		record := []string{
			r.Zone.String(),
			strconv.Itoa(r.Footfall),
			strconv.Itoa(r.Occupancy),
			strconv.Itoa(r.Power),
			r.Risk.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the whole frame as indented JSON.
func WriteJSON(w io.Writer, frame campus.Frame) error {
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteYAML writes the whole frame as YAML.
func WriteYAML(w io.Writer, frame campus.Frame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(frame); err != nil {
		return err
	}
	return enc.Close()
}
