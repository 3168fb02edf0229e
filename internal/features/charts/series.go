package charts

import (
	"math"

	"csvviz/internal/features/dataset"
)

const (
	barGroupWidth  = 0.5 // fraction of one x unit taken by a bar group
	maxIndexLabels = 40
	dataMargin     = 0.05
)

func valuesOf(cols []*dataset.Column) [][]float64 {
	out := make([][]float64, len(cols))
	for i, c := range cols {
		out[i] = c.Values
	}
	return out
}

func legendOf(cols []*dataset.Column, kind handleKind) []legendEntry {
	entries := make([]legendEntry, len(cols))
	for i, c := range cols {
		entries[i] = legendEntry{label: c.Name, color: seriesColor(i), kind: kind}
	}
	return entries
}

// barSpec draws one group of bars per row, one bar per column.
func barSpec(cols []*dataset.Column, rows int) axesSpec {
	r, ok := dataRange(valuesOf(cols)...)
	if ok {
		r = axisRange{min: math.Min(0, r.min), max: math.Max(0, r.max)}
	}
	y := withMargins(r, dataMargin, true)

	return axesSpec{
		x:        axisRange{min: -0.5, max: float64(rows) - 0.5},
		y:        y,
		xTicks:   indexTicks(rows, maxIndexLabels),
		yTicks:   niceTicks(y, maxValueTicks),
		xRotated: true,
		legend:   legendOf(cols, handlePatch),
		draw: func(f *Figure) {
			barW := barGroupWidth / float64(len(cols))
			zero := f.Y(0)
			for j, c := range cols {
				f.dc.SetColor(seriesColor(j))
				for i, v := range c.Values {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						continue
					}
					x0 := f.X(float64(i) - barGroupWidth/2 + float64(j)*barW)
					x1 := f.X(float64(i) - barGroupWidth/2 + float64(j+1)*barW)
					top := f.Y(v)
					f.dc.DrawRectangle(x0, math.Min(top, zero), x1-x0, math.Abs(zero-top))
					f.dc.Fill()
				}
			}
		},
	}
}

// lineSpec draws one polyline per column against the row index; missing
// values break the line.
func lineSpec(cols []*dataset.Column, rows int) axesSpec {
	x := nonSingular(axisRange{min: 0, max: float64(rows - 1)})
	r, _ := dataRange(valuesOf(cols)...)
	y := withMargins(r, dataMargin, false)

	return axesSpec{
		x:      x,
		y:      y,
		xTicks: integerTicks(niceTicks(x, maxValueTicks)),
		yTicks: niceTicks(y, maxValueTicks),
		legend: legendOf(cols, handleLine),
		draw: func(f *Figure) {
			dc := f.dc
			dc.SetLineWidth(f.pt(seriesWidth))
			dc.SetLineCapRound()
			dc.SetLineJoinRound()
			for j, c := range cols {
				dc.SetColor(seriesColor(j))
				open := false
				for i, v := range c.Values {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						open = false
						continue
					}
					if open {
						dc.LineTo(f.X(float64(i)), f.Y(v))
					} else {
						dc.NewSubPath()
						dc.MoveTo(f.X(float64(i)), f.Y(v))
						open = true
					}
				}
				dc.Stroke()
			}
		},
	}
}

// integerTicks drops fractional positions; row indexes are whole numbers.
func integerTicks(ticks []tick) []tick {
	out := ticks[:0]
	for _, t := range ticks {
		if t.value == math.Trunc(t.value) {
			out = append(out, tick{value: t.value, label: formatTick(t.value, 0)})
		}
	}
	return out
}

// histSpec draws the bucket counts of one column.
func histSpec(col *dataset.Column, bins int) axesSpec {
	h := NewHistogram(col.Values, bins)

	x := withMargins(axisRange{min: h.Edges[0], max: h.Edges[len(h.Edges)-1]}, dataMargin, false)
	y := axisRange{min: 0, max: 1}
	if m := h.MaxCount(); m > 0 {
		y = withMargins(axisRange{min: 0, max: float64(m)}, dataMargin, true)
	}

	return axesSpec{
		x:      x,
		y:      y,
		xTicks: niceTicks(x, maxValueTicks),
		yTicks: niceTicks(y, maxValueTicks),
		yLabel: "Frequency",
		draw: func(f *Figure) {
			f.dc.SetColor(seriesColor(0))
			zero := f.Y(0)
			for i, n := range h.Counts {
				if n == 0 {
					continue
				}
				x0 := f.X(h.Edges[i])
				x1 := f.X(h.Edges[i+1])
				top := f.Y(float64(n))
				f.dc.DrawRectangle(x0, top, x1-x0, zero-top)
				f.dc.Fill()
			}
		},
	}
}

// scatterSpec plots column ys against xs, skipping rows missing either.
func scatterSpec(xs, ys *dataset.Column) axesSpec {
	var px, py []float64
	for i := range xs.Values {
		xv, yv := xs.Values[i], ys.Values[i]
		if math.IsNaN(xv) || math.IsNaN(yv) || math.IsInf(xv, 0) || math.IsInf(yv, 0) {
			continue
		}
		px = append(px, xv)
		py = append(py, yv)
	}

	xr, _ := dataRange(px)
	yr, _ := dataRange(py)
	x := withMargins(xr, dataMargin, false)
	y := withMargins(yr, dataMargin, false)

	return axesSpec{
		x:      x,
		y:      y,
		xTicks: niceTicks(x, maxValueTicks),
		yTicks: niceTicks(y, maxValueTicks),
		xLabel: xs.Name,
		yLabel: ys.Name,
		draw: func(f *Figure) {
			f.dc.SetColor(seriesColor(0))
			radius := f.pt(markerRadius)
			for i := range px {
				f.dc.DrawCircle(f.X(px[i]), f.Y(py[i]), radius)
				f.dc.Fill()
			}
		},
	}
}
