package figure

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/trial"
)

// Legend entries of the torque-speed figure, in drawing order.
const (
	legendMotorTorque = "Motor Torque"
	legendTorqueLimit = "Torque Limit"
	legendRatedTorque = "Rated Torque"
	legendRMSTorque   = "RMS Motor Torque"
)

// buildMotorTorque draws |motor torque| against motor speed in RPM together
// with the operating envelope: the voltage-limited torque curve and the
// rated and RMS torque reference lines.
func (b *builder) buildMotorTorque(f *Figure, t *trial.Trial) error {
	if err := b.envelope.Validate(); err != nil {
		return err
	}
	s := b.style
	pal := s.Palette
	env := b.envelope

	rpm := trial.RPM(t.MotorSpeed)
	tau := trial.Abs(t.MotorTorque)
	measured, err := newLine(rpm, tau, s.LineWidth, pal.Colors[0], false)
	if err != nil {
		return err
	}
	limSpeed, limTau := env.LimitCurve()
	limit, err := newLine(limSpeed, limTau, s.LineWidth, pal.Colors[1], false)
	if err != nil {
		return err
	}
	ratedSpeed, ratedTau := env.RatedLine()
	rated, err := newLine(ratedSpeed, ratedTau, s.LineWidth, pal.Colors[2], true)
	if err != nil {
		return err
	}
	rmsSpeed, rmsTau := env.RMSLine(t.MotorTorqueRMS)
	rms, err := newLine(rmsSpeed, rmsTau, s.LineWidth, pal.Colors[3], true)
	if err != nil {
		return err
	}

	p := f.plot
	p.Add(measured, limit, rated, rms)
	addMargins(&p.X, 0.05)
	addMargins(&p.Y, 0.05)

	maxRPM := trial.Max(rpm)
	maxTau := trial.Max(tau)
	xTicks := constantTicks(0, maxRPM, env.MaxLimitSpeed())
	p.Y.Tick.Marker = constantTicks(0, env.RatedTorque, maxTau, env.PeakTorque)

	// All x tick labels but the first are rotated.
	f.upright = append(f.upright, detachFirstTick(xTicks, p.X.Tick.Label))
	p.X.Tick.Marker = xTicks
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YTop

	// No plot-box border on any side.
	hideAxisLine(&p.X)
	hideAxisLine(&p.Y)

	leg := plot.NewLegend()
	leg.TextStyle.Font = s.textFont()
	leg.ThumbnailWidth = 3 * s.FontSize
	leg.Top = true
	leg.Left = true
	leg.Add(legendMotorTorque, measured)
	leg.Add(legendTorqueLimit, limit)
	leg.Add(legendRatedTorque, rated)
	leg.Add(legendRMSTorque, rms)
	f.legend = &leg
	f.legendH = legendHeight(leg, 4)

	b.recenterLabels(f)
	return nil
}

// legendHeight is the band needed below the plot for n legend entries.
func legendHeight(leg plot.Legend, n int) vg.Length {
	row := leg.TextStyle.Height(legendRMSTorque)
	return vg.Length(n)*row + vg.Length(n+1)*leg.Padding + row/2
}

// newLine builds a line series from parallel slices.
func newLine(xs, ys []float64, width vg.Length, c color.Color, dashed bool) (*plotter.Line, error) {
	if len(xs) != len(ys) {
		return nil, errors.New(errors.ErrCodeInternal, "series has %d x values and %d y values", len(xs), len(ys))
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataFormat, err, "build series")
	}
	line.LineStyle.Width = width
	line.LineStyle.Color = c
	if dashed {
		line.LineStyle.Dashes = []vg.Length{2 * width, width}
	}
	return line, nil
}
