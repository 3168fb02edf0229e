package charts

import (
	"math"
	"strconv"
)

type axisRange struct {
	min, max float64
}

func (r axisRange) span() float64 {
	return r.max - r.min
}

// finite reports whether the range and its span fit in a float64.
func (r axisRange) finite() bool {
	s := r.span()
	return !math.IsNaN(s) && !math.IsInf(s, 0)
}

type tick struct {
	value float64
	label string
}

// dataRange returns the finite extent of values; ok is false when there
// is nothing finite.
func dataRange(values ...[]float64) (r axisRange, ok bool) {
	r = axisRange{min: math.Inf(1), max: math.Inf(-1)}
	for _, vs := range values {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			r.min = math.Min(r.min, v)
			r.max = math.Max(r.max, v)
			ok = true
		}
	}
	if !ok {
		return axisRange{min: 0, max: 1}, false
	}
	return r, true
}

// nonSingular widens a zero-width range around its value.
func nonSingular(r axisRange) axisRange {
	if r.span() > 0 {
		return r
	}
	delta := math.Abs(r.min) * 0.05
	if delta == 0 {
		delta = 0.5
	}
	return axisRange{min: r.min - delta, max: r.max + delta}
}

// withMargins pads the range by frac of its span on each side, except
// for a side pinned at zero.
func withMargins(r axisRange, frac float64, stickyZero bool) axisRange {
	r = nonSingular(r)
	pad := r.span() * frac
	if !(stickyZero && r.min == 0) {
		r.min -= pad
	}
	if !(stickyZero && r.max == 0) {
		r.max += pad
	}
	return r
}

var tickSteps = []float64{1, 2, 2.5, 5, 10}

// niceTicks picks at most maxTicks+1 evenly spaced round values inside r.
func niceTicks(r axisRange, maxTicks int) []tick {
	if !r.finite() || r.span() <= 0 || maxTicks < 1 {
		return nil
	}

	raw := r.span() / float64(maxTicks)
	scale := math.Pow(10, math.Floor(math.Log10(raw)))
	step := tickSteps[len(tickSteps)-1] * scale
	for _, s := range tickSteps {
		if s*scale >= raw {
			step = s * scale
			break
		}
	}

	first := math.Ceil(r.min/step-1e-9) * step
	decimals := tickDecimals(step)

	var ticks []tick
	for i := 0; ; i++ {
		v := first + float64(i)*step
		if v > r.max+step*1e-9 {
			break
		}
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		ticks = append(ticks, tick{value: v, label: formatTick(v, decimals)})
	}
	return ticks
}

// tickDecimals is the number of decimals needed to tell steps apart.
func tickDecimals(step float64) int {
	d := 0
	for d < 10 {
		scaled := step * math.Pow(10, float64(d))
		if math.Abs(scaled-math.Round(scaled)) < 1e-6*scaled {
			break
		}
		d++
	}
	return d
}

func formatTick(v float64, decimals int) string {
	if a := math.Abs(v); a >= 1e6 || (a > 0 && a < 1e-4) {
		return strconv.FormatFloat(v, 'g', 4, 64)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// indexTicks labels integer positions 0..n-1, thinned to every k-th so
// at most maxTicks labels are drawn.
func indexTicks(n, maxTicks int) []tick {
	if n <= 0 {
		return nil
	}
	every := 1
	if maxTicks > 0 && n > maxTicks {
		every = int(math.Ceil(float64(n) / float64(maxTicks)))
	}
	var ticks []tick
	for i := 0; i < n; i += every {
		ticks = append(ticks, tick{value: float64(i), label: strconv.Itoa(i)})
	}
	return ticks
}
