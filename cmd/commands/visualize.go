package commands

// Visualization pipeline: load the CSV, print the overview and the
// statistics table, render the selected chart and save it beside the input

import (
	"errors"
	"fmt"
	"io"

	"csvviz/internal/features/charts"
	"csvviz/internal/features/dataset"
	"csvviz/internal/features/summary"
	"csvviz/internal/infra/config"
	storage "csvviz/internal/infra/fs"
	logging "csvviz/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrUsage is returned when the data file argument is missing.
var ErrUsage = errors.New("missing data file argument")

// Invocation is what the positional arguments ask for.
type Invocation struct {
	InputPath string
	Kind      charts.Kind
}

// parseInvocation reads <data-file> [chart_type]; extra arguments are ignored.
func parseInvocation(args []string) (Invocation, error) {
	if len(args) < 1 {
		return Invocation{}, ErrUsage
	}
	inv := Invocation{InputPath: args[0], Kind: charts.DefaultKind}
	if len(args) > 1 {
		inv.Kind = charts.Kind(args[1])
	}
	return inv, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "用法: csvviz <data.csv> [chart_type]")
	fmt.Fprintf(w, "chart_type: %s\n", charts.KindList())
}

func printInstallHint(w io.Writer, err *charts.MissingCapabilityError) {
	fmt.Fprintf(w, "需要图表渲染支持 (%s): 请重新安装完整构建的 csvviz\n", err.Capability)
}

func runVisualize(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	inv, err := parseInvocation(args)
	if err != nil {
		printUsage(out)
		return err
	}

	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Init(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	if err := charts.CheckCapabilities(); err != nil {
		var capErr *charts.MissingCapabilityError
		if errors.As(err, &capErr) {
			printInstallHint(out, capErr)
		}
		logging.LogError("Chart rendering unavailable", zap.Error(err))
		return err
	}

	logging.LogInfo("Loading table", zap.String("path", inv.InputPath), zap.String("kind", string(inv.Kind)))

	table, err := dataset.Load(inv.InputPath)
	if err != nil {
		logging.LogWarn("Failed to load data file", zap.String("path", inv.InputPath), zap.Error(err))
		return err
	}

	if err := summary.WriteReport(out, table); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fig, err := charts.Build(inv.Kind, table, chartOptions(cfg))
	if err != nil {
		logging.LogWarn("Failed to render chart", zap.String("kind", string(inv.Kind)), zap.Error(err))
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if fig == nil {
		logging.LogInfo("No chart produced", zap.String("kind", string(inv.Kind)),
			zap.Int("numeric_columns", len(table.NumericColumns())))
		return nil
	}

	data, err := fig.PNG()
	if err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}

	outputPath := storage.ChartPath(inv.InputPath, string(inv.Kind))
	if err := storage.SaveChart(outputPath, data); err != nil {
		logging.LogWarn("Failed to save chart", zap.String("path", outputPath), zap.Error(err))
		return err
	}

	fmt.Fprintf(out, "\n图表已保存: %s\n", outputPath)
	return nil
}

func chartOptions(cfg *config.Config) charts.Options {
	return charts.Options{
		DPI:       cfg.Chart.DPI,
		Width:     cfg.Chart.Width,
		Height:    cfg.Chart.Height,
		HistBins:  cfg.Chart.HistBins,
		MaxSeries: cfg.Chart.MaxSeries,
		FontPath:  cfg.Chart.FontPath,
	}
}
