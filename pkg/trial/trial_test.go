package trial

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kneefig/pkg/errors"
)

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		file    string
		samples int
	}{
		{"knee_running.json", 21},
		{"knee_running.yaml", 5},
		{"knee_running.toml", 5},
		{"knee_running_nested.json", 4},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			tr, err := Load(filepath.Join("testdata", tt.file))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if tr.Len() != tt.samples {
				t.Errorf("Len() = %d, want %d", tr.Len(), tt.samples)
			}
			if tr.MotorTorqueRMS != 1.21 {
				t.Errorf("MotorTorqueRMS = %v, want 1.21", tr.MotorTorqueRMS)
			}
			if tr.KneeTorque[1] != 42.052 {
				t.Errorf("KneeTorque[1] = %v, want 42.052", tr.KneeTorque[1])
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	// A directory opens fine but cannot be read as a file.
	path := filepath.Join(t.TempDir(), "trial.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Errorf("Load(dir) error = %v, want IO_ERROR", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"knee_running.mat", "knee_running.csv", "knee_running"} {
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("Load(%q) error = %v, want INVALID_FORMAT", name, err)
		}
	}
}

func TestReadDataFormatErrors(t *testing.T) {
	const full = `"time": [0, 1, 2], "knee_torque": [1, 2, 3], "knee_speed": [1, 2, 3],
		"torque_motor": [1, 2, 3], "motor_speed": [1, 2, 3]`

	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "zero-length channels",
			input:   `{"time": [], "knee_torque": [], "knee_speed": [], "torque_motor": [], "motor_speed": [], "torque_motor_rms": 1}`,
			wantMsg: "is empty",
		},
		{
			name:    "mismatched lengths",
			input:   `{"time": [0, 1, 2], "knee_torque": [1, 2], "knee_speed": [1, 2, 3], "torque_motor": [1, 2, 3], "motor_speed": [1, 2, 3], "torque_motor_rms": 1}`,
			wantMsg: "has 2 samples",
		},
		{
			name:    "missing channel",
			input:   `{"time": [0, 1], "knee_torque": [1, 2], "torque_motor": [1, 2], "motor_speed": [1, 2], "torque_motor_rms": 1}`,
			wantMsg: "knee_speed",
		},
		{
			name:    "missing rms",
			input:   "{" + full + "}",
			wantMsg: "torque_motor_rms",
		},
		{
			name:    "null channel counts as missing",
			input:   `{` + full + `, "torque_motor_rms": 1, "time": null}`,
			wantMsg: "time",
		},
		{
			name:    "non-numeric sample",
			input:   `{"time": [0, "x", 2], "knee_torque": [1, 2, 3], "knee_speed": [1, 2, 3], "torque_motor": [1, 2, 3], "motor_speed": [1, 2, 3], "torque_motor_rms": 1}`,
			wantMsg: "expected a number",
		},
		{
			name:    "matrix with two columns",
			input:   `{"time": [[0, 1], [2, 3]], "knee_torque": [1, 2], "knee_speed": [1, 2], "torque_motor": [1, 2], "motor_speed": [1, 2], "torque_motor_rms": 1}`,
			wantMsg: "expected 1 column",
		},
		{
			name:    "rms is a vector",
			input:   `{` + full + `, "torque_motor_rms": [1, 2]}`,
			wantMsg: "single value",
		},
		{
			name:    "not json",
			input:   `time,knee_torque`,
			wantMsg: "decode json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), FormatJSON)
			if !errors.Is(err, errors.ErrCodeDataFormat) {
				t.Fatalf("Read() error = %v, want DATA_FORMAT", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Read() error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestReadYAMLNonFinite(t *testing.T) {
	input := `
time: [0, 1]
knee_torque: [.nan, 1]
knee_speed: [1, 2]
torque_motor: [1, 2]
motor_speed: [1, 2]
torque_motor_rms: 1
`
	_, err := Read(strings.NewReader(input), FormatYAML)
	if !errors.Is(err, errors.ErrCodeDataFormat) {
		t.Fatalf("Read() error = %v, want DATA_FORMAT", err)
	}
}

func TestValidate(t *testing.T) {
	good := &Trial{
		Time:        []float64{0, 1},
		KneeTorque:  []float64{1, 2},
		KneeSpeed:   []float64{1, 2},
		MotorTorque: []float64{1, 2},
		MotorSpeed:  []float64{1, 2},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	bad := *good
	bad.MotorTorqueRMS = math.Inf(1)
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeDataFormat) {
		t.Errorf("Validate() error = %v, want DATA_FORMAT", err)
	}
}

func TestRPMExact(t *testing.T) {
	speed := []float64{-123.456, 0, 1e-3, 424.736, -2 * math.Pi, 7.77777}
	orig := append([]float64(nil), speed...)

	got := RPM(speed)
	for i, v := range speed {
		want := math.Abs(v) * 60 / (2 * math.Pi)
		if got[i] != want {
			t.Errorf("RPM()[%d] = %v, want %v", i, got[i], want)
		}
	}
	for i := range speed {
		if speed[i] != orig[i] {
			t.Fatal("RPM() modified its input")
		}
	}
}

func TestRevPerSec(t *testing.T) {
	got := RevPerSec([]float64{2 * math.Pi, -math.Pi, 0})
	want := []float64{1, -0.5, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RevPerSec()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAbsAndMax(t *testing.T) {
	x := []float64{-3, 1, 2}
	if got := Max(Abs(x)); got != 3 {
		t.Errorf("Max(Abs(x)) = %v, want 3", got)
	}
	if x[0] != -3 {
		t.Error("Abs() modified its input")
	}
}

func TestSummarize(t *testing.T) {
	tr, err := Load(filepath.Join("testdata", "knee_running.json"))
	if err != nil {
		t.Fatal(err)
	}
	s := tr.Summarize()
	if s.Samples != 21 {
		t.Errorf("Samples = %d, want 21", s.Samples)
	}
	if s.Duration != 100 {
		t.Errorf("Duration = %v, want 100", s.Duration)
	}
	if s.MaxMotorTorque != 3.5282 {
		t.Errorf("MaxMotorTorque = %v, want 3.5282", s.MaxMotorTorque)
	}
	maxSpeed := 424.736
	if want := maxSpeed * 60 / (2 * math.Pi); s.MaxMotorRPM != want {
		t.Errorf("MaxMotorRPM = %v, want %v", s.MaxMotorRPM, want)
	}
}

func TestCanonicalIsStable(t *testing.T) {
	a, err := Load(filepath.Join("testdata", "knee_running.json"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(filepath.Join("testdata", "knee_running.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(Canonical(a)) != string(Canonical(b)) {
		t.Error("Canonical() differs for identical trials")
	}

	back, err := Read(strings.NewReader(string(Canonical(a))), FormatJSON)
	if err != nil {
		t.Fatalf("Read(Canonical()) error: %v", err)
	}
	if back.Len() != a.Len() {
		t.Errorf("round trip Len() = %d, want %d", back.Len(), a.Len())
	}
}

func TestDigest(t *testing.T) {
	a := &Trial{Time: []float64{0, 1}, KneeTorque: []float64{1, 2}, KneeSpeed: []float64{0, 0},
		MotorTorque: []float64{1, 1}, MotorSpeed: []float64{2, 2}, MotorTorqueRMS: 1}
	b := *a
	if a.Digest() != b.Digest() {
		t.Error("Digest() differs for identical trials")
	}
	if len(a.Digest()) != 64 {
		t.Errorf("Digest() length = %d, want 64", len(a.Digest()))
	}

	b.MotorTorqueRMS = 2
	if a.Digest() == b.Digest() {
		t.Error("Digest() unchanged after RMS changed")
	}
}
