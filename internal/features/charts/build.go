package charts

import (
	"fmt"
	"math"
	"strings"

	"csvviz/internal/features/dataset"
	logging "csvviz/internal/infra/log"

	"go.uber.org/zap"
)

// Kind selects the chart type. Any string is a Kind; only some render.
type Kind string

const (
	Bar     Kind = "bar"
	Line    Kind = "line"
	Pie     Kind = "pie"
	Scatter Kind = "scatter"
	Hist    Kind = "hist"
)

// DefaultKind is used when no chart type is given.
const DefaultKind = Bar

// Kinds lists the chart types shown in the usage text.
var Kinds = []Kind{Bar, Line, Pie, Scatter, Hist}

// KindList joins Kinds for display.
func KindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Options controls figure geometry and chart parameters.
type Options struct {
	DPI       float64
	Width     float64 // inches
	Height    float64 // inches
	HistBins  int
	MaxSeries int
	FontPath  string
}

// DefaultOptions is a 10x6 inch figure at 150 DPI.
func DefaultOptions() Options {
	return Options{
		DPI:       150,
		Width:     10,
		Height:    6,
		HistBins:  20,
		MaxSeries: 5,
	}
}

// Build renders the chart of the given kind from t's numeric columns.
// It returns nil without error when the kind draws nothing for this
// table: no numeric columns, scatter with fewer than two, or a kind
// without a renderer (pie included).
func Build(kind Kind, t *dataset.Table, opts Options) (*Figure, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		logging.LogDebug("No numeric columns, skipping chart", zap.String("kind", string(kind)))
		return nil, nil
	}

	var spec axesSpec
	switch kind {
	case Bar:
		spec = barSpec(numeric[:min(len(numeric), opts.MaxSeries)], t.NumRows())
	case Line:
		spec = lineSpec(numeric[:min(len(numeric), opts.MaxSeries)], t.NumRows())
	case Hist:
		spec = histSpec(numeric[0], opts.HistBins)
	case Scatter:
		if len(numeric) < 2 {
			logging.LogDebug("Scatter needs two numeric columns, skipping chart", zap.Int("numeric", len(numeric)))
			return nil, nil
		}
		spec = scatterSpec(numeric[0], numeric[1])
	default:
		logging.LogDebug("No renderer for chart kind, skipping chart", zap.String("kind", string(kind)))
		return nil, nil
	}

	if !spec.x.finite() || !spec.y.finite() {
		err := fmt.Errorf("%s chart: data range is too wide to plot", kind)
		logging.LogWarn("Chart axes overflow", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	fonts, err := loadFonts(opts.FontPath, opts.DPI)
	if err != nil {
		return nil, err
	}

	fig := newFigure(kind, opts, fonts)
	fig.render(spec)

	w, h := fig.Size()
	logging.LogInfo("Chart rendered",
		zap.String("kind", string(fig.Kind)),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("series", len(spec.legend)))

	return fig, nil
}

func (o Options) validate() error {
	if o.DPI <= 0 || o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid figure size %vx%v in at %v dpi", o.Width, o.Height, o.DPI)
	}
	if o.HistBins <= 0 || o.MaxSeries <= 0 {
		return fmt.Errorf("hist bins and max series must be positive")
	}
	if w, h := math.Round(o.Width*o.DPI), math.Round(o.Height*o.DPI); w < 1 || h < 1 {
		return fmt.Errorf("figure of %vx%v px is empty", w, h)
	}
	return nil
}
