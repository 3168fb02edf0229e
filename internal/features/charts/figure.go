package charts

import (
	"bytes"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
)

// Sizes in points, converted to pixels with the figure DPI.
const (
	fontSize      = 10.0
	tickLength    = 3.5
	tickPad       = 3.5
	labelPad      = 4.0
	edgePad       = 1.08 * fontSize
	axesLineWidth = 0.8
	seriesWidth   = 1.5
	markerRadius  = 3.0
	legendPad     = 0.4 * fontSize
	legendHandle  = 2.0 * fontSize
	maxValueTicks = 8
)

// tab10 colors, cycled per series.
var palette = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

func seriesColor(i int) color.RGBA {
	return palette[i%len(palette)]
}

type handleKind int

const (
	handlePatch handleKind = iota
	handleLine
)

type legendEntry struct {
	label string
	color color.Color
	kind  handleKind
}

// axesSpec is everything a chart decides before layout: ranges, ticks,
// labels, legend, and a callback that draws the data.
type axesSpec struct {
	x, y           axisRange
	xTicks, yTicks []tick
	xRotated       bool // x tick labels drawn vertically
	xLabel, yLabel string
	legend         []legendEntry
	draw           func(f *Figure)
}

// Figure is a rendered chart held in memory until encoded.
type Figure struct {
	Kind Kind

	dc    *gg.Context
	fonts *fontSet
	dpi   float64

	width, height            float64 // pixels
	left, top, right, bottom float64 // plot area, pixels
	spec                     axesSpec
}

func newFigure(kind Kind, opts Options, fonts *fontSet) *Figure {
	w := int(math.Round(opts.Width * opts.DPI))
	h := int(math.Round(opts.Height * opts.DPI))
	return &Figure{
		Kind:   kind,
		dc:     gg.NewContext(w, h),
		fonts:  fonts,
		dpi:    opts.DPI,
		width:  float64(w),
		height: float64(h),
	}
}

// pt converts points to pixels.
func (f *Figure) pt(v float64) float64 {
	return v * f.dpi / 72
}

// X maps a data x value to a pixel column.
func (f *Figure) X(v float64) float64 {
	return f.left + (v-f.spec.x.min)/f.spec.x.span()*(f.right-f.left)
}

// Y maps a data y value to a pixel row.
func (f *Figure) Y(v float64) float64 {
	return f.bottom - (v-f.spec.y.min)/f.spec.y.span()*(f.bottom-f.top)
}

// Size returns the image size in pixels.
func (f *Figure) Size() (int, int) {
	return int(f.width), int(f.height)
}

// render lays out the axes for spec and draws everything.
func (f *Figure) render(spec axesSpec) {
	spec.x = nonSingular(spec.x)
	spec.y = nonSingular(spec.y)
	f.spec = spec

	dc := f.dc
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(f.fonts.face(fontSize))

	f.layout()

	dc.Push()
	dc.DrawRectangle(f.left, f.top, f.right-f.left, f.bottom-f.top)
	dc.Clip()
	if spec.draw != nil {
		spec.draw(f)
	}
	dc.ResetClip()
	dc.Pop()

	f.drawAxes()
	f.drawLegend()
}

// layout sizes the margins so tick labels and axis labels fit.
func (f *Figure) layout() {
	dc := f.dc
	_, textH := dc.MeasureString("0")

	yTickW := 0.0
	for _, t := range f.spec.yTicks {
		w, _ := dc.MeasureString(t.label)
		yTickW = math.Max(yTickW, w)
	}

	xTickExtent := 0.0
	lastXTickW := 0.0
	for _, t := range f.spec.xTicks {
		w, _ := dc.MeasureString(t.label)
		if f.spec.xRotated {
			xTickExtent = math.Max(xTickExtent, w)
		} else {
			xTickExtent = textH
			lastXTickW = w
		}
	}

	left := f.pt(edgePad) + yTickW + f.pt(tickPad+tickLength)
	if f.spec.yLabel != "" {
		left += textH + f.pt(labelPad)
	}
	bottom := f.pt(edgePad) + xTickExtent + f.pt(tickPad+tickLength)
	if f.spec.xLabel != "" {
		bottom += textH + f.pt(labelPad)
	}
	right := f.pt(edgePad) + lastXTickW/2

	f.left = left
	f.top = f.pt(edgePad) + textH/2
	f.right = f.width - right
	f.bottom = f.height - bottom

	// keep a usable plot area on tiny figures
	if f.right-f.left < f.width/4 {
		f.left, f.right = f.width*0.15, f.width*0.95
	}
	if f.bottom-f.top < f.height/4 {
		f.top, f.bottom = f.height*0.05, f.height*0.85
	}
}

func (f *Figure) drawAxes() {
	dc := f.dc
	dc.SetColor(color.Black)
	dc.SetLineWidth(f.pt(axesLineWidth))
	dc.DrawRectangle(f.left, f.top, f.right-f.left, f.bottom-f.top)
	dc.Stroke()

	tickLen := f.pt(tickLength)
	pad := f.pt(tickPad)

	for _, t := range f.spec.yTicks {
		y := f.Y(t.value)
		if y < f.top-0.5 || y > f.bottom+0.5 {
			continue
		}
		dc.DrawLine(f.left-tickLen, y, f.left, y)
		dc.Stroke()
		dc.DrawStringAnchored(t.label, f.left-tickLen-pad, y, 1, 0.35)
	}

	for _, t := range f.spec.xTicks {
		x := f.X(t.value)
		if x < f.left-0.5 || x > f.right+0.5 {
			continue
		}
		dc.DrawLine(x, f.bottom, x, f.bottom+tickLen)
		dc.Stroke()
		y := f.bottom + tickLen + pad
		if f.spec.xRotated {
			dc.Push()
			dc.RotateAbout(gg.Radians(-90), x, y)
			dc.DrawStringAnchored(t.label, x, y, 1, 0.35)
			dc.Pop()
		} else {
			dc.DrawStringAnchored(t.label, x, y, 0.5, 1)
		}
	}

	if f.spec.xLabel != "" {
		dc.DrawStringAnchored(f.spec.xLabel, (f.left+f.right)/2, f.height-f.pt(edgePad), 0.5, 0)
	}
	if f.spec.yLabel != "" {
		x := f.pt(edgePad)
		y := (f.top + f.bottom) / 2
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), x, y)
		dc.DrawStringAnchored(f.spec.yLabel, x, y, 0.5, 1)
		dc.Pop()
	}
}

// drawLegend boxes the entries in the upper right corner of the plot.
func (f *Figure) drawLegend() {
	entries := f.spec.legend
	if len(entries) == 0 {
		return
	}
	dc := f.dc

	pad := f.pt(legendPad)
	handleW := f.pt(legendHandle)
	_, rowH := dc.MeasureString("0")
	rowH *= 1.4

	labelW := 0.0
	for _, e := range entries {
		w, _ := dc.MeasureString(e.label)
		labelW = math.Max(labelW, w)
	}

	boxW := pad + handleW + pad + labelW + pad
	boxH := pad + rowH*float64(len(entries)) + pad
	x0 := f.right - pad - boxW
	y0 := f.top + pad

	dc.DrawRoundedRectangle(x0, y0, boxW, boxH, pad/2)
	dc.SetRGBA(1, 1, 1, 0.8)
	dc.FillPreserve()
	dc.SetRGB(0.8, 0.8, 0.8)
	dc.SetLineWidth(f.pt(axesLineWidth))
	dc.Stroke()

	for i, e := range entries {
		cy := y0 + pad + rowH*(float64(i)+0.5)
		hx := x0 + pad
		dc.SetColor(e.color)
		switch e.kind {
		case handleLine:
			dc.SetLineWidth(f.pt(seriesWidth))
			dc.DrawLine(hx, cy, hx+handleW, cy)
			dc.Stroke()
		default:
			dc.DrawRectangle(hx, cy-rowH*0.3, handleW, rowH*0.6)
			dc.Fill()
		}
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(e.label, hx+handleW+pad, cy, 0, 0.35)
	}
}

// EncodePNG writes the figure as PNG carrying its DPI.
func (f *Figure) EncodePNG(w io.Writer) error {
	return encodePNG(w, f.dc.Image(), f.dpi)
}

// PNG returns the encoded image.
func (f *Figure) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
