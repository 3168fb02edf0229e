package commands

// Root command for Cobra CLI
// csvviz <data-file> [chart_type]: prints a summary of the CSV file and
// renders one chart of its numeric columns next to it

import (
	"errors"

	"csvviz/internal/features/charts"
	"csvviz/internal/infra/config"

	"github.com/spf13/cobra"
)

var rootCmd = NewRootCommand()

// NewRootCommand builds a fresh command tree; tests use it to avoid
// sharing flag state.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csvviz <data-file> [chart_type]",
		Short: "Summarize a CSV file and chart its numeric columns",
		Long: `csvviz loads a CSV file, prints its size, column names and descriptive
statistics, and renders one chart of the numeric columns to
<data-file without extension>_<chart_type>.png.

chart_type: ` + charts.KindList() + ` (default ` + string(charts.DefaultKind) + `)`,
		Version:       "1.0.0",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runVisualize,
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}

// IsReported reports whether the user has already been shown a message
// for err, so main only needs to set the exit status.
func IsReported(err error) bool {
	var capErr *charts.MissingCapabilityError
	return errors.Is(err, ErrUsage) || errors.As(err, &capErr)
}
