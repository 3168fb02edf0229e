package summary

import (
	"math"
	"sort"
	"strconv"

	"csvviz/internal/features/dataset"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Description is a statistics table: one row per statistic, one column per
// described table column. Cells are either float64 or string.
type Description struct {
	Index   []string
	Columns []string
	Cells   [][]any // [column][row]
}

var numericIndex = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
var categoricalIndex = []string{"count", "unique", "top", "freq"}

// Describe summarizes the numeric columns of t. A table without numeric
// columns gets count/unique/top/freq for every column instead.
func Describe(t *dataset.Table) *Description {
	numeric := t.NumericColumns()
	if len(numeric) > 0 {
		d := &Description{Index: numericIndex}
		for _, c := range numeric {
			d.Columns = append(d.Columns, c.Name)
			d.Cells = append(d.Cells, numericStats(c.Valid()))
		}
		return d
	}

	d := &Description{Index: categoricalIndex}
	for _, c := range t.Columns {
		d.Columns = append(d.Columns, c.Name)
		d.Cells = append(d.Cells, categoricalStats(c.Raw))
	}
	return d
}

func numericStats(values []float64) []any {
	nan := math.NaN()
	n := len(values)
	if n == 0 {
		return []any{0.0, nan, nan, nan, nan, nan, nan, nan}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	std := nan
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	return []any{
		float64(n),
		stat.Mean(values, nil),
		std,
		floats.Min(values),
		Quantile(sorted, 0.25),
		Quantile(sorted, 0.50),
		Quantile(sorted, 0.75),
		floats.Max(values),
	}
}

// Quantile interpolates linearly between the closest ranks of sorted:
// position p*(n-1), the same convention as numpy's default.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	diff := sorted[hi] - sorted[lo]
	if math.IsInf(diff, 0) {
		return sorted[lo]*(1-frac) + sorted[hi]*frac
	}
	return sorted[lo] + diff*frac
}

func categoricalStats(raw []string) []any {
	counts := make(map[string]int)
	var order []string
	present := 0
	for _, cell := range raw {
		if dataset.IsMissing(cell) {
			continue
		}
		present++
		if counts[cell] == 0 {
			order = append(order, cell)
		}
		counts[cell]++
	}

	if present == 0 {
		return []any{"0", "0", math.NaN(), math.NaN()}
	}

	top := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[top] {
			top = v
		}
	}

	return []any{
		strconv.Itoa(present),
		strconv.Itoa(len(order)),
		top,
		strconv.Itoa(counts[top]),
	}
}
