package trial

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/kneefig/pkg/errors"
)

// Channel keys as they appear in trial files.
const (
	KeyTime           = "time"
	KeyKneeTorque     = "knee_torque"
	KeyKneeSpeed      = "knee_speed"
	KeyMotorTorque    = "torque_motor"
	KeyMotorSpeed     = "motor_speed"
	KeyMotorTorqueRMS = "torque_motor_rms"
)

// Trial is one recorded running session. It is read-only once loaded.
type Trial struct {
	Time           []float64 `json:"time"`             // s
	KneeTorque     []float64 `json:"knee_torque"`      // N·m
	KneeSpeed      []float64 `json:"knee_speed"`       // rad/s
	MotorTorque    []float64 `json:"torque_motor"`     // N·m
	MotorSpeed     []float64 `json:"motor_speed"`      // rad/s
	MotorTorqueRMS float64   `json:"torque_motor_rms"` // N·m
}

// Len returns the common sample count of the vector channels.
func (t *Trial) Len() int {
	return len(t.Time)
}

// Channels returns the vector channels keyed by their file names, in a
// fixed order.
func (t *Trial) Channels() []NamedChannel {
	return []NamedChannel{
		{KeyTime, t.Time},
		{KeyKneeTorque, t.KneeTorque},
		{KeyKneeSpeed, t.KneeSpeed},
		{KeyMotorTorque, t.MotorTorque},
		{KeyMotorSpeed, t.MotorSpeed},
	}
}

// NamedChannel pairs a channel key with its samples.
type NamedChannel struct {
	Name    string
	Samples []float64
}

// Validate checks that all vector channels are non-empty, share one sample
// count and hold finite values, and that the RMS torque is finite.
func (t *Trial) Validate() error {
	channels := t.Channels()
	n := len(channels[0].Samples)
	for _, ch := range channels {
		if len(ch.Samples) == 0 {
			return errors.New(errors.ErrCodeDataFormat, "channel %q is empty", ch.Name)
		}
		if len(ch.Samples) != n {
			return errors.New(errors.ErrCodeDataFormat,
				"channel %q has %d samples, %q has %d", ch.Name, len(ch.Samples), channels[0].Name, n)
		}
		for i, v := range ch.Samples {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeDataFormat, "channel %q sample %d is not finite", ch.Name, i)
			}
		}
	}
	if math.IsNaN(t.MotorTorqueRMS) || math.IsInf(t.MotorTorqueRMS, 0) {
		return errors.New(errors.ErrCodeDataFormat, "%q is not finite", KeyMotorTorqueRMS)
	}
	return nil
}

// Summary holds headline numbers of a trial.
type Summary struct {
	Samples        int
	Duration       float64 // s
	MaxKneeTorque  float64 // N·m, absolute
	MaxKneeSpeed   float64 // rev/s, absolute
	MaxMotorTorque float64 // N·m, absolute
	MaxMotorRPM    float64
	MotorTorqueRMS float64
}

// Summarize computes the [Summary] of a validated trial.
func (t *Trial) Summarize() Summary {
	return Summary{
		Samples:        t.Len(),
		Duration:       floats.Max(t.Time) - floats.Min(t.Time),
		MaxKneeTorque:  Max(Abs(t.KneeTorque)),
		MaxKneeSpeed:   Max(Abs(RevPerSec(t.KneeSpeed))),
		MaxMotorTorque: Max(Abs(t.MotorTorque)),
		MaxMotorRPM:    Max(RPM(t.MotorSpeed)),
		MotorTorqueRMS: t.MotorTorqueRMS,
	}
}
