package summary

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"csvviz/internal/features/dataset"
)

// WriteOverview prints the row count, column count and column names.
func WriteOverview(w io.Writer, t *dataset.Table) error {
	_, err := fmt.Fprintf(w, "数据概览:\n  行数: %d\n  列数: %d\n  列名: %s\n",
		t.NumRows(), t.NumColumns(), strings.Join(t.Names(), ", "))
	return err
}

// WriteReport prints the overview followed by the statistics table.
func WriteReport(w io.Writer, t *dataset.Table) error {
	if err := WriteOverview(w, t); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n统计摘要:\n%s\n", Describe(t).String()); err != nil {
		return err
	}
	return nil
}

// String lays the description out as an aligned text table.
func (d *Description) String() string {
	indexWidth := 0
	for _, label := range d.Index {
		indexWidth = max(indexWidth, width(label))
	}

	columns := make([][]string, len(d.Columns))
	widths := make([]int, len(d.Columns))
	for i, name := range d.Columns {
		columns[i] = formatColumn(d.Cells[i])
		widths[i] = width(name)
		for _, cell := range columns[i] {
			widths[i] = max(widths[i], width(cell))
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", indexWidth))
	for i, name := range d.Columns {
		sb.WriteString("  ")
		sb.WriteString(padLeft(name, widths[i]))
	}
	for row, label := range d.Index {
		sb.WriteString("\n")
		sb.WriteString(padRight(label, indexWidth))
		for i := range d.Columns {
			sb.WriteString("  ")
			sb.WriteString(padLeft(columns[i][row], widths[i]))
		}
	}
	return sb.String()
}

// formatColumn renders a column's cells with one shared float format.
func formatColumn(cells []any) []string {
	var finite []float64
	allFloat := true
	for _, c := range cells {
		v, ok := c.(float64)
		if !ok {
			allFloat = false
			continue
		}
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	scientific := false
	for _, v := range finite {
		a := math.Abs(v)
		if a > 1e6 || (a > 0 && a < 1e-6) {
			scientific = true
			break
		}
	}

	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case float64:
			out[i] = formatFloat(v, scientific)
		case string:
			out[i] = v
		default:
			out[i] = fmt.Sprint(v)
		}
	}

	if allFloat && !scientific {
		trimZeros(out)
	}
	return out
}

func formatFloat(v float64, scientific bool) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case scientific:
		return fmt.Sprintf("%.6e", v)
	default:
		return fmt.Sprintf("%.6f", v)
	}
}

// trimZeros drops trailing zeros while every decimal cell ends in one,
// keeping at least one digit after the point.
func trimZeros(cells []string) {
	for {
		decimals := 0
		for _, s := range cells {
			if !strings.Contains(s, ".") {
				continue
			}
			decimals++
			if !strings.HasSuffix(s, "0") || strings.HasSuffix(s, ".0") {
				return
			}
		}
		if decimals == 0 {
			return
		}
		for i, s := range cells {
			if strings.Contains(s, ".") {
				cells[i] = s[:len(s)-1]
			}
		}
	}
}

func width(s string) int {
	return utf8.RuneCountInString(s)
}

func padLeft(s string, n int) string {
	if w := width(s); w < n {
		return strings.Repeat(" ", n-w) + s
	}
	return s
}

func padRight(s string, n int) string {
	if w := width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
