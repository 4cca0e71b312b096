// Package figure draws the three running-trial figures with gonum/plot.
//
// The figures and their geometry are fixed:
//
//   - [MotorTorque]: motor torque against motor speed (RPM) with the
//     voltage-limited torque curve and the rated and RMS torque lines
//   - [KneeTorque]: knee torque against time
//   - [KneeSpeed]: knee angular speed (rev/s) against time
//
// Only cosmetics can change, through [WithStyle] and [WithAxisLabels]. The
// motor envelope comes from [motor.Default] unless replaced with
// [WithEnvelope].
//
// # Building and rendering
//
// [Build] turns a validated trial into a [Figure] without doing any I/O.
// [Figure.Axes] reports the numeric axis setup, which is identical between
// runs for the same input. [Figure.Render] draws the figure into one of
// the vector formats in [ValidFormats] (or PNG):
//
//	f, err := figure.Build(figure.KneeTorque, tr)
//	if err != nil {
//	    return err
//	}
//	pdf, err := f.Render(figure.FormatPDF)
//
// # Label placement
//
// The torque-speed figure centers each axis label on the midpoint of its
// first and last tick. When that is not possible (no label text, or fewer
// than two ticks) the step is skipped, the outcome is recorded in
// [Figure.Labels] with code LABEL_POSITION, and the label stays where the
// plotting library put it.
package figure
