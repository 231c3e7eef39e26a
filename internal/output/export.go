package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoData is returned when an export is asked to write an empty data set.
var ErrNoData = errors.New("no data to export")

// Formats lists the values accepted by Render.
var Formats = []string{"table", "csv", "json", "yaml"}

// WriteCSV writes headers and rows to a new CSV file at path.
func WriteCSV(path string, headers []string, rows [][]any) error {
	return writeFile(path, func(w io.Writer) error {
		return encodeCSV(w, headers, rows)
	})
}

// WriteDictsCSV writes maps to a CSV file. Keys outside columns are ignored
// and missing keys are written as empty cells. When columns is nil the keys
// of the first row are used, in sorted order.
func WriteDictsCSV(path string, data []map[string]any, columns []string) error {
	if len(data) == 0 {
		return ErrNoData
	}
	if columns == nil {
		columns = sortedKeys(data[0])
	}
	return WriteCSV(path, columns, dictRows(data, columns))
}

// WriteJSON writes v as indented JSON. time.Time values are encoded as RFC 3339.
func WriteJSON(path string, v any, indent int) error {
	return writeFile(path, func(w io.Writer) error {
		return encodeJSON(w, v, indent)
	})
}

// WriteYAML writes v as a YAML document.
func WriteYAML(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		return encodeYAML(w, v)
	})
}

// Render writes rows to w in the named format: table, csv, json or yaml.
// JSON and YAML output is a list of header-keyed objects.
func Render(w io.Writer, format string, headers []string, rows [][]any) error {
	switch strings.ToLower(format) {
	case "", "table":
		Table(w, headers, rows, DefaultMinWidth)
		return nil
	case "csv":
		return encodeCSV(w, headers, rows)
	case "json":
		return encodeJSON(w, records(headers, rows), 2)
	case "yaml":
		return encodeYAML(w, records(headers, rows))
	}
	return fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(Formats, ", "))
}

func records(headers []string, rows [][]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]any, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

func encodeCSV(w io.Writer, headers []string, rows [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = fmt.Sprint(cell)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeJSON(w io.Writer, v any, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
