package commands

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csvviz/internal/features/charts"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func abcTable() string {
	var sb strings.Builder
	sb.WriteString("a,b,c\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&sb, "%d,%d,%.1f\n", i, 11-i, float64(i)*0.5)
	}
	return sb.String()
}

// captureStderr runs fn with os.Stderr redirected to a file and returns
// what was written.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	defer f.Close()

	orig := os.Stderr
	os.Stderr = f
	defer func() { os.Stderr = orig }()

	fn()

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	return string(data)
}

func pngFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	return matches
}

func TestRun_NoArgumentsPrintsUsage(t *testing.T) {
	out, err := run(t)
	require.ErrorIs(t, err, ErrUsage)
	require.True(t, IsReported(err))
	require.Equal(t, "用法: csvviz <data.csv> [chart_type]\nchart_type: bar, line, pie, scatter, hist\n", out)
}

func TestRun_BarChart(t *testing.T) {
	input := writeCSV(t, "data.csv", abcTable())
	want := filepath.Join(filepath.Dir(input), "data_bar.png")

	out, err := run(t, input, "bar")
	require.NoError(t, err)

	require.Contains(t, out, "行数: 10")
	require.Contains(t, out, "列数: 3")
	require.Contains(t, out, "列名: a, b, c")
	require.Contains(t, out, "统计摘要:")
	require.True(t, strings.HasSuffix(out, "\n图表已保存: "+want+"\n"))

	f, err := os.Open(want)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 1500, img.Bounds().Dx())
	require.Equal(t, 900, img.Bounds().Dy())
}

func TestRun_DefaultKindIsBar(t *testing.T) {
	input := writeCSV(t, "sales.csv", abcTable())

	out, err := run(t, input)
	require.NoError(t, err)
	require.Contains(t, out, "sales_bar.png")
	require.FileExists(t, filepath.Join(filepath.Dir(input), "sales_bar.png"))
}

func TestRun_EachRenderedKind(t *testing.T) {
	for _, kind := range []string{"line", "hist", "scatter"} {
		t.Run(kind, func(t *testing.T) {
			input := writeCSV(t, "data.csv", abcTable())

			_, err := run(t, input, kind)
			require.NoError(t, err)
			require.Equal(t, []string{filepath.Join(filepath.Dir(input), "data_"+kind+".png")}, pngFiles(t, filepath.Dir(input)))
		})
	}
}

func TestRun_NoChartKinds(t *testing.T) {
	for _, kind := range []string{"pie", "donut", "BAR"} {
		t.Run(kind, func(t *testing.T) {
			input := writeCSV(t, "data.csv", abcTable())

			out, err := run(t, input, kind)
			require.NoError(t, err)
			require.Contains(t, out, "行数: 10")
			require.Contains(t, out, "count")
			require.NotContains(t, out, "图表已保存")
			require.Empty(t, pngFiles(t, filepath.Dir(input)))
		})
	}
}

func TestRun_NoNumericColumns(t *testing.T) {
	for _, kind := range []string{"bar", "line", "hist", "scatter"} {
		t.Run(kind, func(t *testing.T) {
			input := writeCSV(t, "names.csv", "name,city\nAda,London\nLinus,Helsinki\nAda,Paris\n")

			out, err := run(t, input, kind)
			require.NoError(t, err)
			require.Contains(t, out, "unique")
			require.Contains(t, out, "Ada")
			require.Empty(t, pngFiles(t, filepath.Dir(input)))
		})
	}
}

func TestRun_ScatterNeedsTwoNumericColumns(t *testing.T) {
	input := writeCSV(t, "one.csv", "a,label\n1,x\n2,y\n3,z\n")

	out, err := run(t, input, "scatter")
	require.NoError(t, err)
	require.Contains(t, out, "列数: 2")
	require.Empty(t, pngFiles(t, filepath.Dir(input)))
}

func TestRun_OverwritesOutput(t *testing.T) {
	input := writeCSV(t, "data.csv", abcTable())

	_, err := run(t, input, "hist")
	require.NoError(t, err)
	_, err = run(t, input, "hist")
	require.NoError(t, err)

	require.Len(t, pngFiles(t, filepath.Dir(input)), 1)
}

func TestRun_ExtraArgumentsIgnored(t *testing.T) {
	input := writeCSV(t, "data.csv", abcTable())

	_, err := run(t, input, "line", "extra")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(filepath.Dir(input), "data_line.png"))
}

func TestRun_Flags(t *testing.T) {
	input := writeCSV(t, "data.csv", abcTable())

	_, err := run(t, input, "bar", "--dpi", "72")
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(filepath.Dir(input), "data_bar.png"))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, 720, cfg.Width)
	require.Equal(t, 432, cfg.Height)
}

func TestRun_LogFile(t *testing.T) {
	input := writeCSV(t, "data.csv", abcTable())
	logPath := filepath.Join(t.TempDir(), "csvviz.log")

	_, err := run(t, input, "pie", "--log-file", logPath, "--log-level", "debug")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "No renderer for chart kind")
}

func TestRun_InvalidConfig(t *testing.T) {
	input := writeCSV(t, "data.csv", abcTable())

	out, err := run(t, input, "--bins", "0")
	require.Error(t, err)
	require.False(t, IsReported(err))
	require.Contains(t, err.Error(), "failed to load config")
	require.Empty(t, out)
}

func TestRun_MissingFile(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
	require.False(t, IsReported(err))
	require.Empty(t, out)
}

func TestRun_MalformedFile(t *testing.T) {
	input := writeCSV(t, "bad.csv", "a,b\n1,2\n3,4,5\n")

	_, err := run(t, input)
	require.Error(t, err)
	require.Contains(t, err.Error(), "expected 2 fields, saw 3")
	require.Empty(t, pngFiles(t, filepath.Dir(input)))
}

func TestRun_LoadFailureLeavesStderrToMain(t *testing.T) {
	var err error
	stderr := captureStderr(t, func() {
		_, err = run(t, filepath.Join(t.TempDir(), "missing.csv"))
	})
	require.Error(t, err)
	require.False(t, IsReported(err))
	require.Empty(t, stderr)
}

func TestRun_HistRangeTooWide(t *testing.T) {
	input := writeCSV(t, "huge.csv", "a\n-1e308\n1e308\n")

	var (
		out string
		err error
	)
	stderr := captureStderr(t, func() {
		out, err = run(t, input, "hist")
	})
	require.Error(t, err)
	require.False(t, IsReported(err))
	require.Contains(t, err.Error(), "too wide")
	require.Contains(t, out, "行数: 2")
	require.Empty(t, stderr)
	require.Empty(t, pngFiles(t, filepath.Dir(input)))
}

func TestIsReported(t *testing.T) {
	require.True(t, IsReported(ErrUsage))
	require.True(t, IsReported(fmt.Errorf("wrapped: %w", &charts.MissingCapabilityError{Capability: "png", Err: errors.New("x")})))
	require.False(t, IsReported(errors.New("other")))
}

func TestParseInvocation(t *testing.T) {
	inv, err := parseInvocation([]string{"x.csv"})
	require.NoError(t, err)
	require.Equal(t, Invocation{InputPath: "x.csv", Kind: charts.Bar}, inv)

	inv, err = parseInvocation([]string{"x.csv", "scatter"})
	require.NoError(t, err)
	require.Equal(t, charts.Scatter, inv.Kind)

	_, err = parseInvocation(nil)
	require.ErrorIs(t, err, ErrUsage)
}
