// Package config loads the optional kneefig style file.
//
// A style file tunes cosmetics only: figure size, fonts, line widths, the
// color palette, axis label text, the motor envelope drawn on the
// torque-speed figure, and output defaults. It never adds figures. Unset
// fields keep their defaults.
//
// TOML and YAML are supported, chosen by file extension:
//
//	[style]
//	width = 3.0        # inches
//	font = "serif"     # sans-serif (default), serif or monospace
//	font_size = 9      # points
//	palette = ["#476A92", "#9EC0E7", ...]
//
//	[labels.knee-speed]
//	y = "Knee Speed (rev/s)"
//
//	[motor]
//	rated_torque = 1.5
//
//	[output]
//	dir = "figures"
//	formats = ["pdf", "svg"]
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/motor"
)

// Config is the decoded style file. Pointer fields are nil when unset.
type Config struct {
	Style  Style                        `toml:"style" yaml:"style"`
	Labels map[string]figure.AxisLabels `toml:"labels" yaml:"labels"`
	Motor  Motor                        `toml:"motor" yaml:"motor"`
	Output Output                       `toml:"output" yaml:"output"`
}

// Style overrides figure cosmetics.
type Style struct {
	Width     *float64 `toml:"width" yaml:"width"`           // inches
	Height    *float64 `toml:"height" yaml:"height"`         // inches
	Font      *string  `toml:"font" yaml:"font"`             // sans-serif, serif or monospace
	FontSize  *float64 `toml:"font_size" yaml:"font_size"`   // points
	LineWidth *float64 `toml:"line_width" yaml:"line_width"` // points
	AxisWidth *float64 `toml:"axis_width" yaml:"axis_width"` // points
	Palette   []string `toml:"palette" yaml:"palette"`       // 8 hex colors
}

// Motor overrides the motor operating envelope.
type Motor struct {
	PeakTorque    *float64      `toml:"peak_torque" yaml:"peak_torque"`
	RatedTorque   *float64      `toml:"rated_torque" yaml:"rated_torque"`
	ReferenceSpan *float64      `toml:"reference_span" yaml:"reference_span"`
	Limit         []motor.Point `toml:"limit" yaml:"limit"`
}

// Output sets defaults for where and how figures are written. Command-line
// flags take precedence.
type Output struct {
	Dir     string   `toml:"dir" yaml:"dir"`
	Formats []string `toml:"formats" yaml:"formats"`
}

// Load reads a style file, choosing the decoder by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		cfg, err = ParseTOML(data)
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"%s: unsupported config format %q (must be .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// ParseTOML decodes and validates a TOML style file.
func ParseTOML(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseYAML decodes and validates a YAML style file.
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every set field without building anything.
func (c *Config) Validate() error {
	if _, err := c.FigureStyle(); err != nil {
		return err
	}
	if _, err := c.Envelope(); err != nil {
		return err
	}
	if _, err := c.AxisLabels(); err != nil {
		return err
	}
	for _, f := range c.Output.Formats {
		if err := errors.ValidateFormat(f, figure.ValidFormats); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output")
		}
	}
	if c.Output.Dir != "" {
		if err := errors.ValidatePath(c.Output.Dir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output")
		}
	}
	return nil
}

// FigureStyle returns the default style with the configured overrides.
func (c *Config) FigureStyle() (figure.Style, error) {
	s := figure.DefaultStyle()
	if c == nil {
		return s, nil
	}
	setLength(&s.Width, c.Style.Width, vg.Inch)
	setLength(&s.Height, c.Style.Height, vg.Inch)
	if c.Style.Font != nil {
		f, err := figure.ParseFontFamily(*c.Style.Font)
		if err != nil {
			return s, err
		}
		s.Font = f
	}
	setLength(&s.FontSize, c.Style.FontSize, 1)
	setLength(&s.LineWidth, c.Style.LineWidth, 1)
	setLength(&s.AxisWidth, c.Style.AxisWidth, 1)
	if c.Style.Palette != nil {
		p, err := figure.ParsePalette(c.Style.Palette)
		if err != nil {
			return s, err
		}
		s.Palette = p
	}
	return s, s.Validate()
}

// Envelope returns the default motor envelope with the configured
// overrides.
func (c *Config) Envelope() (motor.Envelope, error) {
	e := motor.Default()
	if c == nil {
		return e, nil
	}
	if c.Motor.PeakTorque != nil {
		e.PeakTorque = *c.Motor.PeakTorque
	}
	if c.Motor.RatedTorque != nil {
		e.RatedTorque = *c.Motor.RatedTorque
	}
	if c.Motor.ReferenceSpan != nil {
		e.ReferenceSpan = *c.Motor.ReferenceSpan
	}
	if c.Motor.Limit != nil {
		e.Limit = c.Motor.Limit
	}
	return e, e.Validate()
}

// AxisLabels returns the label overrides per figure, each merged onto the
// figure's default labels.
func (c *Config) AxisLabels() (map[figure.Kind]figure.AxisLabels, error) {
	if c == nil || len(c.Labels) == 0 {
		return nil, nil
	}
	defaults := figure.DefaultLabels()
	out := make(map[figure.Kind]figure.AxisLabels, len(c.Labels))
	for name, l := range c.Labels {
		k, err := figure.ParseKind(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "labels")
		}
		merged := defaults[k]
		if l.X != "" {
			merged.X = l.X
		}
		if l.Y != "" {
			merged.Y = l.Y
		}
		out[k] = merged
	}
	return out, nil
}

// setLength overwrites dst with *v in unit when v is set.
func setLength(dst *vg.Length, v *float64, unit vg.Length) {
	if v != nil {
		*dst = vg.Length(*v) * unit
	}
}
