package figure

import (
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/kneefig/pkg/errors"
)

// LabelPlacement is the outcome of re-centering one axis label on the
// midpoint of its first and last tick. A skipped placement carries the
// LABEL_POSITION error explaining why; it never aborts rendering.
type LabelPlacement struct {
	Axis   string  // "x" or "y"
	Value  float64 // data coordinate of the label centre when placed
	Placed bool
	Reason error
}

// centerLabel computes where the label of ax should be centered. It only
// tolerates the two situations that make the step meaningless: no label
// text, or fewer than two ticks to take a midpoint of.
func centerLabel(name string, ax *plot.Axis) LabelPlacement {
	lp := LabelPlacement{Axis: name}
	if strings.TrimSpace(ax.Label.Text) == "" {
		lp.Reason = errors.New(errors.ErrCodeLabelPosition, "%s axis has no label", name)
		return lp
	}
	ticks := tickValues(ax)
	if len(ticks) < 2 {
		lp.Reason = errors.New(errors.ErrCodeLabelPosition, "%s axis has %d ticks, need 2", name, len(ticks))
		return lp
	}
	lp.Value = (ticks[0] + ticks[len(ticks)-1]) / 2
	lp.Placed = true
	return lp
}

// centeredLabel draws an axis label at a data coordinate after the plot
// has been drawn. The library still lays out its own copy of the label,
// made transparent, so the space reserved for it stays the same.
type centeredLabel struct {
	axis  string
	value float64
	text  string
	style text.Style
}

// detachLabel makes the library-drawn label of ax invisible and returns a
// copy to be drawn at lp.Value instead.
func detachLabel(ax *plot.Axis, lp LabelPlacement) centeredLabel {
	cl := centeredLabel{
		axis:  lp.Axis,
		value: lp.Value,
		text:  ax.Label.Text,
		style: ax.Label.TextStyle,
	}
	ax.Label.TextStyle.Color = color.Transparent
	return cl
}

// draw renders the label. area is the canvas the plot was drawn on and
// data its data canvas.
func (cl centeredLabel) draw(p *plot.Plot, area, data draw.Canvas) {
	sty := cl.style
	if sty.Color == nil {
		sty.Color = color.Black
	}
	switch cl.axis {
	case "x":
		sty.XAlign = text.XCenter
		sty.YAlign = text.YBottom
		x := data.X(p.X.Norm(cl.value))
		area.FillText(sty, vg.Point{X: x, Y: area.Min.Y}, cl.text)
	case "y":
		sty.Rotation = math.Pi / 2
		sty.XAlign = text.XCenter
		sty.YAlign = text.YTop
		y := data.Y(p.Y.Norm(cl.value))
		area.FillText(sty, vg.Point{X: area.Min.X, Y: y}, cl.text)
	}
}
