package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("csvviz", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(newFlags(t))
	require.NoError(t, err)

	require.Equal(t, 150.0, cfg.Chart.DPI)
	require.Equal(t, 10.0, cfg.Chart.Width)
	require.Equal(t, 6.0, cfg.Chart.Height)
	require.Equal(t, 20, cfg.Chart.HistBins)
	require.Equal(t, 5, cfg.Chart.MaxSeries)
	require.Empty(t, cfg.Chart.FontPath)
	require.Empty(t, cfg.Log.File)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_NilFlags(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	require.Equal(t, 150.0, cfg.Chart.DPI)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("CSVVIZ_DPI", "72")
	t.Setenv("CSVVIZ_BINS", "8")
	t.Setenv("CSVVIZ_CHART_MAX_SERIES", "2")
	t.Setenv("CSVVIZ_LOG_LEVEL", "DEBUG")

	cfg, err := LoadConfig(newFlags(t))
	require.NoError(t, err)

	require.Equal(t, 72.0, cfg.Chart.DPI)
	require.Equal(t, 8, cfg.Chart.HistBins)
	require.Equal(t, 2, cfg.Chart.MaxSeries)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CSVVIZ_BINS", "8")

	cfg, err := LoadConfig(newFlags(t, "--bins", "12", "--width", "4", "--font", " /tmp/font.ttf "))
	require.NoError(t, err)

	require.Equal(t, 12, cfg.Chart.HistBins)
	require.Equal(t, 4.0, cfg.Chart.Width)
	require.Equal(t, "/tmp/font.ttf", cfg.Chart.FontPath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "zero dpi", args: []string{"--dpi", "0"}, want: "chart.dpi"},
		{name: "negative height", args: []string{"--height=-1"}, want: "chart size"},
		{name: "zero bins", args: []string{"--bins", "0"}, want: "chart.hist_bins"},
		{name: "zero series", args: []string{"--max-series", "0"}, want: "chart.max_series"},
		{name: "huge", args: []string{"--dpi", "10000"}, want: "too large"},
		{name: "level", args: []string{"--log-level", "loud"}, want: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(newFlags(t, tt.args...))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
