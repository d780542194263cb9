// Package formatter provides output formatting utilities for the CLI.
package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents an output format type
type Format string

const (
	// FormatText is the default, human-readable format
	FormatText Format = "text"
	// FormatJSON outputs data as JSON
	FormatJSON Format = "json"
	// FormatYAML outputs data as YAML
	FormatYAML Format = "yaml"
	// FormatCSV outputs tabular data as CSV
	FormatCSV Format = "csv"
)

// ParseFormat parses a format string into a Format type. "table" is accepted as
// an alias of text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "table", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Output handles formatted output for the CLI
type Output struct {
	format Format
	writer io.Writer
}

// New creates a new Output formatter
func New(w io.Writer, format Format) *Output {
	return &Output{
		format: format,
		writer: w,
	}
}

// Format returns the configured format.
func (o *Output) Format() Format {
	return o.format
}

// PrintJSON outputs data as formatted JSON
func (o *Output) PrintJSON(data any) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// PrintYAML outputs data as YAML
func (o *Output) PrintYAML(data any) error {
	encoder := yaml.NewEncoder(o.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}
	return nil
}

// PrintStructured outputs data in the configured structured format. Text has no
// structured form and is reported as an error.
func (o *Output) PrintStructured(data any) error {
	switch o.format {
	case FormatJSON:
		return o.PrintJSON(data)
	case FormatYAML:
		return o.PrintYAML(data)
	default:
		return fmt.Errorf("format %q is not a structured format", o.format)
	}
}

// PrintTable outputs data as a formatted table
func (o *Output) PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow(o.writer, headers, widths)
	printSeparator(o.writer, widths)
	for _, row := range rows {
		printRow(o.writer, row, widths)
	}
}

// PrintCSV outputs data as CSV
func (o *Output) PrintCSV(headers []string, rows [][]string) error {
	w := csv.NewWriter(o.writer)
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// Print outputs tabular data in the configured format; data is what the
// structured formats encode.
func (o *Output) Print(headers []string, rows [][]string, data any) error {
	switch o.format {
	case FormatJSON, FormatYAML:
		return o.PrintStructured(data)
	case FormatCSV:
		return o.PrintCSV(headers, rows)
	default:
		o.PrintTable(headers, rows)
		return nil
	}
}

func printRow(w io.Writer, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			_, _ = fmt.Fprintf(w, " | ")
		}
		width := 10
		if i < len(widths) {
			width = widths[i]
		}
		_, _ = fmt.Fprintf(w, "%-*s", width, cell)
	}
	_, _ = fmt.Fprintln(w)
}

func printSeparator(w io.Writer, widths []int) {
	for i, width := range widths {
		if i > 0 {
			_, _ = fmt.Fprintf(w, "-+-")
		}
		_, _ = fmt.Fprintf(w, "%s", strings.Repeat("-", width))
	}
	_, _ = fmt.Fprintln(w)
}
