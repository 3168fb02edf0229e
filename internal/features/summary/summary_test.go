package summary

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"csvviz/internal/features/dataset"

	"github.com/stretchr/testify/require"
)

func readTable(t *testing.T, input string) *dataset.Table {
	t.Helper()
	table, err := dataset.Read(strings.NewReader(input))
	require.NoError(t, err)
	return table
}

func TestDescribe_NumericStats(t *testing.T) {
	table := readTable(t, "a,label\n1,x\n2,y\n3,z\n4,w\n")

	d := Describe(table)
	require.Equal(t, []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}, d.Index)
	require.Equal(t, []string{"a"}, d.Columns)

	cells := d.Cells[0]
	require.Equal(t, 4.0, cells[0])
	require.Equal(t, 2.5, cells[1])
	require.InDelta(t, 1.2909944487358056, cells[2].(float64), 1e-12)
	require.Equal(t, 1.0, cells[3])
	require.InDelta(t, 1.75, cells[4].(float64), 1e-12)
	require.InDelta(t, 2.5, cells[5].(float64), 1e-12)
	require.InDelta(t, 3.25, cells[6].(float64), 1e-12)
	require.Equal(t, 4.0, cells[7])
}

func TestDescribe_SingleAndEmptyColumns(t *testing.T) {
	table := readTable(t, "a,b\n7,\n")

	d := Describe(table)
	require.Equal(t, []string{"a", "b"}, d.Columns)

	a := d.Cells[0]
	require.Equal(t, 1.0, a[0])
	require.Equal(t, 7.0, a[1])
	require.True(t, math.IsNaN(a[2].(float64)))

	b := d.Cells[1]
	require.Equal(t, 0.0, b[0])
	for _, v := range b[1:] {
		require.True(t, math.IsNaN(v.(float64)))
	}
}

func TestDescribe_Categorical(t *testing.T) {
	table := readTable(t, "city,kind\nOslo,a\nRome,b\nOslo,b\n")

	d := Describe(table)
	require.Equal(t, []string{"count", "unique", "top", "freq"}, d.Index)
	require.Equal(t, []any{"3", "2", "Oslo", "2"}, d.Cells[0])
	require.Equal(t, []any{"3", "2", "b", "2"}, d.Cells[1])
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	require.InDelta(t, 3.25, Quantile(sorted, 0.25), 1e-12)
	require.InDelta(t, 5.5, Quantile(sorted, 0.5), 1e-12)
	require.InDelta(t, 7.75, Quantile(sorted, 0.75), 1e-12)
	require.Equal(t, 10.0, Quantile(sorted, 1))
	require.True(t, math.IsNaN(Quantile(nil, 0.5)))

	wide := []float64{-1e308, 1e308}
	require.InEpsilon(t, -5e307, Quantile(wide, 0.25), 1e-12)
	require.Equal(t, 0.0, Quantile(wide, 0.5))
	require.InEpsilon(t, 5e307, Quantile(wide, 0.75), 1e-12)
}

func TestDescription_String(t *testing.T) {
	table := readTable(t, "a\n1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")

	want := strings.Join([]string{
		"              a",
		"count  10.00000",
		"mean    5.50000",
		"std     3.02765",
		"min     1.00000",
		"25%     3.25000",
		"50%     5.50000",
		"75%     7.75000",
		"max    10.00000",
	}, "\n")
	require.Equal(t, want, Describe(table).String())
}

func TestDescription_StringScientificAndNaN(t *testing.T) {
	d := &Description{
		Index:   []string{"count", "max"},
		Columns: []string{"big", "empty"},
		Cells: [][]any{
			{2.0, 5e7},
			{0.0, math.NaN()},
		},
	}

	want := strings.Join([]string{
		"                big  empty",
		"count  2.000000e+00    0.0",
		"max    5.000000e+07    NaN",
	}, "\n")
	require.Equal(t, want, d.String())
}

func TestWriteReport(t *testing.T) {
	table := readTable(t, "a,b,c\n1,2,3\n4,5,6\n")

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, table))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "数据概览:\n  行数: 2\n  列数: 3\n  列名: a, b, c\n\n统计摘要:\n"))
	require.Contains(t, out, "count")
	require.True(t, strings.HasSuffix(out, "\n"))
}
