package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChartPath(t *testing.T) {
	tests := []struct {
		input string
		kind  string
		want  string
	}{
		{input: "data.csv", kind: "bar", want: "data_bar.png"},
		{input: "dir/sales.2024.csv", kind: "hist", want: "dir/sales.2024_hist.png"},
		{input: "data", kind: "line", want: "data_line.png"},
		{input: "v1.2/data", kind: "scatter", want: "v1.2/data_scatter.png"},
		{input: "/tmp/x.CSV", kind: "bar", want: "/tmp/x_bar.png"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, filepath.FromSlash(tt.want), ChartPath(filepath.FromSlash(tt.input), tt.kind))
		})
	}
}

func TestSaveChart_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_bar.png")

	require.NoError(t, SaveChart(path, []byte("first version")))
	require.NoError(t, SaveChart(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}

func TestSaveChart_Errors(t *testing.T) {
	dir := t.TempDir()

	err := SaveChart(filepath.Join(dir, "empty.png"), nil)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "empty.png"))
	require.True(t, os.IsNotExist(statErr))

	err = SaveChart(filepath.Join(dir, "missing", "x.png"), []byte("png"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to save chart")
}
