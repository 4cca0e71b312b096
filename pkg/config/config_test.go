package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/motor"
)

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "style.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	s, err := cfg.FigureStyle()
	if err != nil {
		t.Fatalf("FigureStyle() error: %v", err)
	}
	if s.Width != 3*vg.Inch || s.Height != 2.5*vg.Inch {
		t.Errorf("size = %v×%v, want 3in×2.5in", s.Width, s.Height)
	}
	if s.FontSize != 9 {
		t.Errorf("FontSize = %v, want 9", s.FontSize)
	}
	if s.Font.Variant != "Serif" {
		t.Errorf("Font = %+v, want the serif face", s.Font)
	}
	if def := figure.DefaultStyle(); s.LineWidth != def.LineWidth {
		t.Errorf("LineWidth = %v, want default %v", s.LineWidth, def.LineWidth)
	}

	env, err := cfg.Envelope()
	if err != nil {
		t.Fatalf("Envelope() error: %v", err)
	}
	if env.RatedTorque != 1.5 || env.PeakTorque != motor.PeakTorque {
		t.Errorf("torques = %v/%v, want 1.5/%v", env.RatedTorque, env.PeakTorque, motor.PeakTorque)
	}
	if env.MaxLimitSpeed() != 6000 {
		t.Errorf("MaxLimitSpeed() = %v, want 6000", env.MaxLimitSpeed())
	}

	if want := []string{"pdf", "svg"}; !reflect.DeepEqual(cfg.Output.Formats, want) {
		t.Errorf("Formats = %v, want %v", cfg.Output.Formats, want)
	}
	if cfg.Output.Dir != "figures" {
		t.Errorf("Dir = %q, want figures", cfg.Output.Dir)
	}
	if got := cfg.Labels["knee-speed"].Y; got != "Knee Speed (rps)" {
		t.Errorf("knee-speed y label = %q", got)
	}
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "style.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	s, err := cfg.FigureStyle()
	if err != nil {
		t.Fatalf("FigureStyle() error: %v", err)
	}
	if s.LineWidth != 1.5 || s.AxisWidth != 0.8 {
		t.Errorf("widths = %v/%v, want 1.5/0.8", s.LineWidth, s.AxisWidth)
	}
	env, err := cfg.Envelope()
	if err != nil {
		t.Fatalf("Envelope() error: %v", err)
	}
	if env.PeakTorque != 5 {
		t.Errorf("PeakTorque = %v, want 5", env.PeakTorque)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join("testdata", "nope.toml"), errors.ErrCodeFileNotFound},
		{"bad palette", filepath.Join("testdata", "bad_palette.toml"), errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.ini")
	if err := os.WriteFile(path, []byte("width=3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(.ini) error = %v, want INVALID_CONFIG", err)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"unknown key", "[style]\ncolour = 1\n"},
		{"rated above peak", "[motor]\nrated_torque = 9\n"},
		{"unknown figure", "[labels.pressure]\nx = \"p\"\n"},
		{"bad format", "[output]\nformats = [\"gif\"]\n"},
		{"control char in dir", "[output]\ndir = \"out\\u0001\"\n"},
		{"zero width", "[style]\nwidth = 0\n"},
		{"unknown font", "[style]\nfont = \"comic\"\n"},
		{"syntax", "[style\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTOML([]byte(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ParseTOML() error = %v, want INVALID_CONFIG", err)
			}
		})
	}

	if _, err := ParseYAML([]byte("style:\n  colour: 1\n")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ParseYAML(unknown field) error = %v, want INVALID_CONFIG", err)
	}
}

func TestEmptyConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseYAML(nil)
	if err != nil {
		t.Fatalf("ParseYAML(nil) error: %v", err)
	}
	s, err := cfg.FigureStyle()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, figure.DefaultStyle()) {
		t.Error("empty config changed the style")
	}

	var nilCfg *Config
	if _, err := nilCfg.Envelope(); err != nil {
		t.Errorf("nil Envelope() error: %v", err)
	}
	if labels, err := nilCfg.AxisLabels(); err != nil || labels != nil {
		t.Errorf("nil AxisLabels() = %v, %v; want nil, nil", labels, err)
	}
}

func TestAxisLabelsMergeDefaults(t *testing.T) {
	cfg, err := ParseTOML([]byte("[labels.knee-torque]\ny = \"Torque\"\n"))
	if err != nil {
		t.Fatal(err)
	}

	labels, err := cfg.AxisLabels()
	if err != nil {
		t.Fatalf("AxisLabels() error: %v", err)
	}
	want := figure.AxisLabels{X: "Time (s)", Y: "Torque"}
	if got := labels[figure.KneeTorque]; got != want {
		t.Errorf("AxisLabels()[knee-torque] = %+v, want %+v", got, want)
	}
}
