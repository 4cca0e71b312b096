package figure

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// AxisInfo is the numeric description of one axis: its data range, the
// visible extent of its border line and its tick positions. Everything in
// it is independent of the output format.
type AxisInfo struct {
	Min, Max           float64
	SpineVisible       bool
	SpineMin, SpineMax float64
	Ticks              []float64
}

// Axes describes both axes of a figure.
type Axes struct {
	X, Y AxisInfo
}

// axisSide selects which border line a spine draws.
type axisSide int

const (
	bottom axisSide = iota
	left
)

// spine draws an axis border line limited to [lo, hi] in data coordinates.
// The library's own axis line always spans the full axis, so it is hidden
// and replaced by a spine wherever a figure needs clipped borders.
type spine struct {
	side   axisSide
	lo, hi float64
	style  draw.LineStyle
}

// Plot implements plot.Plotter. c is the data canvas; the spine sits just
// outside it, where the hidden axis line would be.
func (s spine) Plot(c draw.Canvas, p *plot.Plot) {
	switch s.side {
	case bottom:
		y := c.Min.Y - p.X.Padding
		c.StrokeLine2(s.style, c.X(p.X.Norm(s.lo)), y, c.X(p.X.Norm(s.hi)), y)
	case left:
		x := c.Min.X - p.Y.Padding
		c.StrokeLine2(s.style, x, c.Y(p.Y.Norm(s.lo)), x, c.Y(p.Y.Norm(s.hi)))
	}
}

// uprightTick draws one x tick label horizontally just below its tick, on
// an axis whose other tick labels are rotated.
type uprightTick struct {
	value float64
	text  string
	style text.Style
}

// detachFirstTick empties the label of the first tick and returns it as an
// uprightTick.
func detachFirstTick(ticks plot.ConstantTicks, sty text.Style) uprightTick {
	u := uprightTick{value: ticks[0].Value, text: ticks[0].Label, style: sty}
	ticks[0].Label = ""
	return u
}

func (u uprightTick) draw(p *plot.Plot, data draw.Canvas) {
	sty := u.style
	sty.Rotation = 0
	sty.XAlign = text.XCenter
	sty.YAlign = text.YTop
	x := data.X(p.X.Norm(u.value))
	y := data.Min.Y - p.X.Padding - p.X.Tick.Length
	data.FillText(sty, vg.Point{X: x, Y: y}, u.text)
}

// hideAxisLine removes the library-drawn border of ax.
func hideAxisLine(ax *plot.Axis) {
	ax.LineStyle.Width = 0
	ax.LineStyle.Color = color.Transparent
}

// constantTicks places major ticks exactly at values, keeping their order.
func constantTicks(values ...float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: tickLabel(v)}
	}
	return ticks
}

// steppedTicks places ticks at lo, lo+step, ..., hi.
func steppedTicks(lo, hi, step float64) plot.ConstantTicks {
	n := int(math.Round((hi-lo)/step)) + 1
	values := make([]float64, n)
	for i := range values {
		values[i] = lo + float64(i)*step
	}
	return constantTicks(values...)
}

// tickLabel formats a tick value compactly: whole numbers above 100,
// otherwise at most three decimals.
func tickLabel(v float64) string {
	if math.Abs(v) >= 100 {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// tickValues returns the major tick positions ax will draw.
func tickValues(ax *plot.Axis) []float64 {
	var out []float64
	for _, t := range ax.Tick.Marker.Ticks(ax.Min, ax.Max) {
		if t.IsMinor() {
			continue
		}
		out = append(out, t.Value)
	}
	return out
}

// addMargins widens the axis range by frac of its span on both sides.
func addMargins(ax *plot.Axis, frac float64) {
	span := ax.Max - ax.Min
	ax.Min -= frac * span
	ax.Max += frac * span
}

// styleAxis applies the shared axis cosmetics.
func styleAxis(ax *plot.Axis, s Style) {
	ax.Label.TextStyle.Font = s.textFont()
	ax.Tick.Label.Font = s.textFont()
	ax.LineStyle.Width = s.AxisWidth
	ax.Tick.LineStyle.Width = s.AxisWidth
	ax.Tick.Length = s.TickLength
	ax.Padding = 0
}

func axisLineStyle(s Style) draw.LineStyle {
	return draw.LineStyle{Color: color.Black, Width: s.AxisWidth}
}

// axisInfo reads back the numeric configuration of an axis.
func axisInfo(ax *plot.Axis, sp *spine) AxisInfo {
	info := AxisInfo{
		Min:   ax.Min,
		Max:   ax.Max,
		Ticks: tickValues(ax),
	}
	switch {
	case sp != nil:
		info.SpineVisible = true
		info.SpineMin, info.SpineMax = sp.lo, sp.hi
	case ax.LineStyle.Width > 0:
		info.SpineVisible = true
		info.SpineMin, info.SpineMax = ax.Min, ax.Max
	}
	return info
}

var _ plot.Plotter = spine{}
