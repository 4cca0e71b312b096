// Package motor describes the operating envelope of the knee drive motor.
//
// The envelope is hand-specified from the motor datasheet rather than
// measured: a peak torque, a rated (continuous) torque, and a piecewise
// linear voltage-limit curve giving the maximum torque available at each
// speed. Speeds are in RPM, torques in N·m.
package motor

import (
	"github.com/matzehuels/kneefig/pkg/errors"
)

// Datasheet values of the knee drive motor.
const (
	PeakTorque  = 4.5  // N·m
	RatedTorque = 1.43 // N·m

	// ReferenceSpan is the speed range (RPM) covered by the constant
	// rated-torque and RMS-torque reference lines.
	ReferenceSpan = 6000.0
)

// Point is one vertex of the limit curve.
type Point struct {
	Speed  float64 `json:"speed" toml:"speed" yaml:"speed"`    // RPM
	Torque float64 `json:"torque" toml:"torque" yaml:"torque"` // N·m
}

// Envelope is the motor operating envelope.
type Envelope struct {
	PeakTorque    float64
	RatedTorque   float64
	Limit         []Point
	ReferenceSpan float64
}

// Default returns the envelope of the knee drive motor: constant peak
// torque up to 3730 RPM, falling to rated torque at 5460 RPM and to zero at
// 5790 RPM.
func Default() Envelope {
	return Envelope{
		PeakTorque:  PeakTorque,
		RatedTorque: RatedTorque,
		Limit: []Point{
			{0, PeakTorque},
			{3730, PeakTorque},
			{5460, RatedTorque},
			{5790, 0},
		},
		ReferenceSpan: ReferenceSpan,
	}
}

// Validate checks that the envelope is drawable.
func (e Envelope) Validate() error {
	if len(e.Limit) < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "limit curve needs at least 2 points, got %d", len(e.Limit))
	}
	for i := 1; i < len(e.Limit); i++ {
		if e.Limit[i].Speed < e.Limit[i-1].Speed {
			return errors.New(errors.ErrCodeInvalidConfig, "limit curve speeds must not decrease (point %d)", i)
		}
	}
	if e.RatedTorque <= 0 || e.PeakTorque <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "torques must be positive")
	}
	if e.RatedTorque > e.PeakTorque {
		return errors.New(errors.ErrCodeInvalidConfig,
			"rated torque %.3g exceeds peak torque %.3g", e.RatedTorque, e.PeakTorque)
	}
	if e.ReferenceSpan <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "reference span must be positive")
	}
	return nil
}

// LimitCurve returns the limit curve as parallel speed and torque slices.
func (e Envelope) LimitCurve() (speed, torque []float64) {
	speed = make([]float64, len(e.Limit))
	torque = make([]float64, len(e.Limit))
	for i, p := range e.Limit {
		speed[i], torque[i] = p.Speed, p.Torque
	}
	return speed, torque
}

// MaxLimitSpeed returns the speed of the last limit-curve vertex.
func (e Envelope) MaxLimitSpeed() float64 {
	return e.Limit[len(e.Limit)-1].Speed
}

// RatedLine returns the constant rated-torque reference line. It does not
// depend on any recorded data.
func (e Envelope) RatedLine() (speed, torque []float64) {
	return e.constant(e.RatedTorque)
}

// RMSLine returns the constant reference line at the given RMS torque.
func (e Envelope) RMSLine(rms float64) (speed, torque []float64) {
	return e.constant(rms)
}

func (e Envelope) constant(tau float64) (speed, torque []float64) {
	return []float64{0, e.ReferenceSpan}, []float64{tau, tau}
}
