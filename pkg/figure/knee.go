package figure

import (
	"github.com/matzehuels/kneefig/pkg/trial"
)

// timeSeries is the fixed geometry of a knee time-series figure.
type timeSeries struct {
	xMin, xMax         float64 // axis bounds
	yMin, yMax         float64
	xSpineLo, xSpineHi float64 // visible border extent
	ySpineLo, ySpineHi float64
	xStep, yStep       float64 // tick spacing, starting at the spine start
	colorIndex         int
}

var kneeTorqueGeometry = timeSeries{
	xMin: -5, xMax: 105,
	yMin: -55, yMax: 155,
	xSpineLo: 0, xSpineHi: 100,
	ySpineLo: -50, ySpineHi: 150,
	xStep: 25, yStep: 50,
	colorIndex: 0,
}

var kneeSpeedGeometry = timeSeries{
	xMin: -5, xMax: 105,
	yMin: -1.6, yMax: 1.6,
	xSpineLo: 0, xSpineHi: 100,
	ySpineLo: -1.5, ySpineHi: 1.5,
	xStep: 25, yStep: 1.5,
	colorIndex: 1,
}

// buildKneeTorque draws knee torque (N·m) against time.
func (b *builder) buildKneeTorque(f *Figure, t *trial.Trial) error {
	return b.buildTimeSeries(f, t.Time, t.KneeTorque, kneeTorqueGeometry)
}

// buildKneeSpeed draws knee angular speed, converted to rev/s, against time.
func (b *builder) buildKneeSpeed(f *Figure, t *trial.Trial) error {
	return b.buildTimeSeries(f, t.Time, trial.RevPerSec(t.KneeSpeed), kneeSpeedGeometry)
}

func (b *builder) buildTimeSeries(f *Figure, xs, ys []float64, g timeSeries) error {
	s := b.style
	line, err := newLine(xs, ys, s.LineWidth, s.Palette.Colors[g.colorIndex], false)
	if err != nil {
		return err
	}

	p := f.plot
	p.Add(line)

	// Fixed bounds, set after Add so the data range does not widen them.
	p.X.Min, p.X.Max = g.xMin, g.xMax
	p.Y.Min, p.Y.Max = g.yMin, g.yMax
	p.X.Tick.Marker = steppedTicks(g.xSpineLo, g.xSpineHi, g.xStep)
	p.Y.Tick.Marker = steppedTicks(g.ySpineLo, g.ySpineHi, g.yStep)

	hideAxisLine(&p.X)
	hideAxisLine(&p.Y)
	f.xSpine = &spine{side: bottom, lo: g.xSpineLo, hi: g.xSpineHi, style: axisLineStyle(s)}
	f.ySpine = &spine{side: left, lo: g.ySpineLo, hi: g.ySpineHi, style: axisLineStyle(s)}
	p.Add(*f.xSpine, *f.ySpine)
	return nil
}
