package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table is a header plus rows of cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Tabular is implemented by command results that have a table rendering.
type Tabular interface {
	Table() Table
}

// OutputWriter handles different output formats
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(writer io.Writer, format OutputFormat) *OutputWriter {
	return &OutputWriter{
		writer: writer,
		format: format,
	}
}

// Format returns the concrete output format.
func (ow *OutputWriter) Format() OutputFormat {
	return ow.format
}

// WriteData writes data in the configured format. Table output requires data
// to implement Tabular.
func (ow *OutputWriter) WriteData(data any) error {
	switch ow.format {
	case OutputFormatJSON:
		return ow.writeJSON(data)
	case OutputFormatTable:
		tab, ok := data.(Tabular)
		if !ok {
			return ow.writeJSON(data)
		}
		return ow.writeTable(tab.Table())
	default:
		return fmt.Errorf("unsupported output format: %s", ow.format)
	}
}

// writeJSON writes data as JSON
func (ow *OutputWriter) writeJSON(data any) error {
	encoder := json.NewEncoder(ow.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (ow *OutputWriter) writeTable(t Table) error {
	w := tabwriter.NewWriter(ow.writer, 0, 0, 2, ' ', 0)
	if len(t.Header) > 0 {
		fmt.Fprintln(w, strings.Join(t.Header, "\t"))
		rule := make([]string, len(t.Header))
		for i, h := range t.Header {
			rule[i] = strings.Repeat("-", len(h))
		}
		fmt.Fprintln(w, strings.Join(rule, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}
