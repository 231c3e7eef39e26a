package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultMinWidth is the minimum column width used by the CLI.
const DefaultMinWidth = 10

// KV is one labelled line of a Summary.
type KV struct {
	Label string
	Value any
}

// Table writes headers and rows as a " | " separated table with a dashed
// rule under the header. Cells past the last header are printed unpadded.
func Table(w io.Writer, headers []string, rows [][]any, minWidth int) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(minWidth, runewidth.StringWidth(h))
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(fmt.Sprint(cell)))
			}
		}
	}

	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	header := formatRow(cells, widths)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(header)))

	for _, row := range rows {
		fmt.Fprintln(w, formatRow(row, widths))
	}
}

func formatRow(row []any, widths []int) string {
	parts := make([]string, len(row))
	for i, cell := range row {
		s := fmt.Sprint(cell)
		if i < len(widths) {
			s += strings.Repeat(" ", widths[i]-runewidth.StringWidth(s))
		}
		parts[i] = s
	}
	return strings.Join(parts, " | ")
}

// DictTable writes a table from a slice of maps. When columns is nil the
// keys of the first row are used, in sorted order.
func DictTable(w io.Writer, data []map[string]any, columns []string) {
	if len(data) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}
	if columns == nil {
		columns = sortedKeys(data[0])
	}
	Table(w, columns, dictRows(data, columns), DefaultMinWidth)
}

func dictRows(data []map[string]any, columns []string) [][]any {
	rows := make([][]any, len(data))
	for i, d := range data {
		row := make([]any, len(columns))
		for j, col := range columns {
			if v, ok := d[col]; ok {
				row[j] = v
			} else {
				row[j] = ""
			}
		}
		rows[i] = row
	}
	return rows
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary writes a titled block of aligned "label : value" lines.
func Summary(w io.Writer, title string, items []KV) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("=", runewidth.StringWidth(title)))

	width := 0
	for _, it := range items {
		width = max(width, runewidth.StringWidth(it.Label))
	}
	for _, it := range items {
		fmt.Fprintf(w, "  %s : %v\n", runewidth.FillRight(it.Label, width), it.Value)
	}
}
