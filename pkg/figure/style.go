package figure

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/kneefig/pkg/errors"
)

// Palette holds the four series colors and their light variants.
type Palette struct {
	Colors [4]color.Color
	Light  [4]color.Color
}

// DefaultPaletteHex is the document color scheme, ordered as
// color0, color0light, color1, color1light, ...
var DefaultPaletteHex = []string{
	"#476A92", "#9EC0E7",
	"#BAD55E", "#E3F6A2",
	"#A0468F", "#EA9ADB",
	"#DFAE62", "#F8D6A3",
}

// ParsePalette builds a Palette from 8 hex colors in the order of
// [DefaultPaletteHex].
func ParsePalette(hex []string) (Palette, error) {
	var p Palette
	if len(hex) != 8 {
		return p, errors.New(errors.ErrCodeInvalidConfig, "palette needs 8 colors, got %d", len(hex))
	}
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return p, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette color %d", i)
		}
		if i%2 == 0 {
			p.Colors[i/2] = c
		} else {
			p.Light[i/2] = c
		}
	}
	return p, nil
}

// DefaultPalette returns the document color scheme.
func DefaultPalette() Palette {
	p, err := ParsePalette(DefaultPaletteHex)
	if err != nil {
		panic(err)
	}
	return p
}

// Font families accepted by [ParseFontFamily].
const (
	FontSans  = "sans-serif"
	FontSerif = "serif"
	FontMono  = "monospace"
)

var fontVariants = map[string]font.Variant{
	FontSans:  "Sans",
	FontSerif: "Serif",
	FontMono:  "Mono",
}

// ParseFontFamily returns the Liberation face for a generic family name.
func ParseFontFamily(name string) (font.Font, error) {
	v, ok := fontVariants[name]
	if !ok {
		return font.Font{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown font family %q (must be 'sans-serif', 'serif' or 'monospace')", name)
	}
	return font.Font{Typeface: "Liberation", Variant: v}, nil
}

// Style holds the cosmetic parameters shared by all figures.
type Style struct {
	Width      vg.Length // plot area, excluding any legend band
	Height     vg.Length
	Font       font.Font // face of all text; its size is ignored
	FontSize   vg.Length
	LineWidth  vg.Length // data series
	AxisWidth  vg.Length // spines and ticks
	TickLength vg.Length
	Palette    Palette
}

// DefaultStyle returns a 2×2 inch figure with 10pt text, sized for a
// two-column document.
func DefaultStyle() Style {
	return Style{
		Width:      2 * vg.Inch,
		Height:     2 * vg.Inch,
		Font:       font.Font{Typeface: "Liberation", Variant: "Sans"},
		FontSize:   vg.Points(10),
		LineWidth:  vg.Points(2),
		AxisWidth:  vg.Points(1),
		TickLength: vg.Points(3.5),
		Palette:    DefaultPalette(),
	}
}

// textFont is the font of every text element.
func (s Style) textFont() font.Font {
	f := s.Font
	f.Size = s.FontSize
	return f
}

// Validate checks that every length is positive and the palette is set.
func (s Style) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "figure size must be positive")
	}
	if !font.DefaultCache.Has(s.Font) {
		return errors.New(errors.ErrCodeInvalidConfig, "font %s %s is not available", s.Font.Typeface, s.Font.Variant)
	}
	if s.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be positive")
	}
	if s.LineWidth <= 0 || s.AxisWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "line widths must be positive")
	}
	for i, c := range s.Palette.Colors {
		if c == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "palette color %d is not set", i)
		}
	}
	return nil
}
