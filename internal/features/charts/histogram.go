package charts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Histogram holds equal-width bucket edges and the count of values in each
// bucket. Bucket i covers [Edges[i], Edges[i+1]); the last one also
// includes its right edge.
type Histogram struct {
	Edges  []float64
	Counts []int
}

// NewHistogram buckets the finite values. A constant input is centred in
// [v-0.5, v+0.5]; no finite input gives [0, 1] with empty buckets.
func NewHistogram(values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}

	r, ok := dataRange(values)
	if !ok {
		r = axisRange{min: 0, max: 1}
	} else if r.span() == 0 {
		r = axisRange{min: r.min - 0.5, max: r.max + 0.5}
	}

	h := Histogram{
		Edges:  bucketEdges(r, bins),
		Counts: make([]int, bins),
	}

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		h.Counts[h.bucket(v)]++
	}
	return h
}

// bucketEdges splits r into bins equal parts. A range wider than the
// largest float64 is interpolated from its ends so every edge stays finite.
func bucketEdges(r axisRange, bins int) []float64 {
	edges := make([]float64, bins+1)
	if !math.IsInf(r.span(), 0) {
		return floats.Span(edges, r.min, r.max)
	}
	for i := range edges {
		t := float64(i) / float64(bins)
		edges[i] = r.min*(1-t) + r.max*t
	}
	edges[bins] = r.max
	return edges
}

// bucket finds i with Edges[i] <= v < Edges[i+1]; values outside the edges
// go to the outer buckets and the maximum to the last one.
func (h Histogram) bucket(v float64) int {
	i := sort.SearchFloat64s(h.Edges, v)
	if i == len(h.Edges) || h.Edges[i] > v {
		i--
	}
	return max(0, min(i, len(h.Counts)-1))
}

// total is the number of values counted.
func (h Histogram) total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// MaxCount is the largest bucket count.
func (h Histogram) MaxCount() int {
	m := 0
	for _, c := range h.Counts {
		m = max(m, c)
	}
	return m
}
