package figure

import (
	"bytes"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps" // register output formats
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
	_ "gonum.org/v1/plot/vg/vgtex"

	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/motor"
	"github.com/matzehuels/kneefig/pkg/trial"
)

// AxisLabels holds the label text of both axes.
type AxisLabels struct {
	X string `json:"x" toml:"x" yaml:"x"`
	Y string `json:"y" toml:"y" yaml:"y"`
}

// DefaultLabels returns the axis labels of each figure.
func DefaultLabels() map[Kind]AxisLabels {
	return map[Kind]AxisLabels{
		MotorTorque: {X: "Motor Speed (RPM)", Y: "Motor Torque (N-m)"},
		KneeTorque:  {X: "Time (s)", Y: "Knee Torque (N-m)"},
		KneeSpeed:   {X: "Time (s)", Y: "Knee Speed (rev/s)"},
	}
}

// Option configures figure building.
type Option func(*builder)

type builder struct {
	style    Style
	envelope motor.Envelope
	labels   map[Kind]AxisLabels
	logger   *log.Logger
}

// WithStyle sets the cosmetic parameters.
func WithStyle(s Style) Option { return func(b *builder) { b.style = s } }

// WithEnvelope replaces the motor operating envelope.
func WithEnvelope(e motor.Envelope) Option { return func(b *builder) { b.envelope = e } }

// WithLogger sets the logger used for skipped cosmetic steps.
func WithLogger(l *log.Logger) Option { return func(b *builder) { b.logger = l } }

// WithAxisLabels overrides the axis labels of one figure. An empty label
// leaves that axis unlabeled.
func WithAxisLabels(k Kind, l AxisLabels) Option {
	return func(b *builder) { b.labels[k] = l }
}

func newBuilder(opts ...Option) builder {
	b := builder{
		style:    DefaultStyle(),
		envelope: motor.Default(),
		labels:   DefaultLabels(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Figure is a built figure, ready to be drawn in any format.
type Figure struct {
	Kind Kind

	// Labels reports the label re-centering outcome of each axis. Figures
	// without re-centering leave it empty.
	Labels []LabelPlacement

	plot     *plot.Plot
	legend   *plot.Legend
	legendH  vg.Length
	xSpine   *spine
	ySpine   *spine
	centered []centeredLabel
	upright  []uprightTick
	style    Style
}

// Build constructs the figure of kind k from t, validating t first. It
// does no I/O.
func Build(k Kind, t *trial.Trial, opts ...Option) (*Figure, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeDataFormat, "trial has no samples")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	b := newBuilder(opts...)
	if err := b.style.Validate(); err != nil {
		return nil, err
	}

	f := &Figure{Kind: k, plot: plot.New(), style: b.style}
	styleAxis(&f.plot.X, b.style)
	styleAxis(&f.plot.Y, b.style)
	labels := b.labels[k]
	f.plot.X.Label.Text = labels.X
	f.plot.Y.Label.Text = labels.Y

	var err error
	switch k {
	case MotorTorque:
		err = b.buildMotorTorque(f, t)
	case KneeTorque:
		err = b.buildKneeTorque(f, t)
	case KneeSpeed:
		err = b.buildKneeSpeed(f, t)
	default:
		err = errors.New(errors.ErrCodeInvalidFigure, "unknown figure %q", k)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// recenterLabels moves both axis labels to the midpoint of their tick
// range where possible. Skipped axes keep the library placement.
func (b *builder) recenterLabels(f *Figure) {
	for _, ax := range []struct {
		name string
		axis *plot.Axis
	}{{"x", &f.plot.X}, {"y", &f.plot.Y}} {
		lp := centerLabel(ax.name, ax.axis)
		f.Labels = append(f.Labels, lp)
		if !lp.Placed {
			b.logger.Debug("Skipping label re-centering", "figure", f.Kind, "axis", ax.name,
				"code", errors.GetCode(lp.Reason), "reason", errors.UserMessage(lp.Reason))
			continue
		}
		f.centered = append(f.centered, detachLabel(ax.axis, lp))
	}
}

// Axes returns the numeric axis configuration of the figure.
func (f *Figure) Axes() Axes {
	return Axes{
		X: axisInfo(&f.plot.X, f.xSpine),
		Y: axisInfo(&f.plot.Y, f.ySpine),
	}
}

// Size returns the page size of the figure, including any legend band.
func (f *Figure) Size() (w, h vg.Length) {
	return f.style.Width, f.style.Height + f.legendH
}

// Render draws the figure in the given format ("pdf", "svg", "eps",
// "tex" or "png").
func (f *Figure) Render(format string) ([]byte, error) {
	if err := errors.ValidateFormat(format, ValidFormats); err != nil {
		return nil, err
	}
	w, h := f.Size()
	cw, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "create %s canvas", format)
	}
	f.draw(draw.New(cw))

	var buf bytes.Buffer
	if _, err := cw.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

func (f *Figure) draw(c draw.Canvas) {
	area := c
	if f.legend != nil {
		area = draw.Crop(c, 0, 0, f.legendH, 0)
		band := draw.Crop(c, 0, 0, 0, f.legendH-(c.Max.Y-c.Min.Y))
		f.legend.Draw(band)
	}
	f.plot.Draw(area)

	data := f.plot.DataCanvas(area)
	for _, cl := range f.centered {
		cl.draw(f.plot, area, data)
	}
	for _, u := range f.upright {
		u.draw(f.plot, data)
	}
}

// Render builds the figure of kind k and draws it in format.
func Render(k Kind, t *trial.Trial, format string, opts ...Option) ([]byte, error) {
	f, err := Build(k, t, opts...)
	if err != nil {
		return nil, err
	}
	return f.Render(format)
}
