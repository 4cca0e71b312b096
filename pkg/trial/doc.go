// Package trial loads recorded prosthetic-knee running trials.
//
// A [Trial] is a set of time-aligned sensor channels recorded during one
// running session: time, knee torque and angular speed, motor torque and
// angular speed, plus the scalar RMS motor torque over the session. Channels
// are aligned by index; there are no timestamps beyond the time channel.
//
// # Loading
//
// [Load] picks a decoder from the file extension:
//
//   - .json: encoding/json
//   - .yaml, .yml: gopkg.in/yaml.v3
//   - .toml: github.com/BurntSushi/toml
//
// Channels may be flat arrays or the N×1 / 1×N nested arrays produced when
// exporting MATLAB matrices:
//
//	{"time": [[0.0], [0.01], [0.02]], "torque_motor_rms": [[1.21]], ...}
//
// Every load is followed by [Trial.Validate]; a trial with a missing,
// empty, non-finite or length-mismatched channel is rejected with a
// DATA_FORMAT error before anything is rendered.
//
// # Derived quantities
//
// [RPM], [RevPerSec], [Abs] and [Max] are the pure, elementwise unit
// conversions the figures are drawn from. They never modify their input.
package trial
