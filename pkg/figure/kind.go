package figure

import (
	"github.com/matzehuels/kneefig/pkg/errors"
)

// Kind identifies one of the fixed figures.
type Kind string

// The figures, in rendering order.
const (
	MotorTorque Kind = "motor-torque" // motor torque-speed curve with operating envelope
	KneeTorque  Kind = "knee-torque"  // knee torque vs. time
	KneeSpeed   Kind = "knee-speed"   // knee angular speed vs. time
)

var baseNames = map[Kind]string{
	MotorTorque: "knee_motor_torque",
	KneeTorque:  "knee_running_torque",
	KneeSpeed:   "knee_running_speed",
}

// Kinds returns all figures in the order they are rendered.
func Kinds() []Kind {
	return []Kind{MotorTorque, KneeTorque, KneeSpeed}
}

// ParseKind validates s and returns the matching Kind.
func ParseKind(s string) (Kind, error) {
	if err := errors.ValidateFigureName(s); err != nil {
		return "", err
	}
	k := Kind(s)
	if _, ok := baseNames[k]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFigure,
			"unknown figure %q (must be 'motor-torque', 'knee-torque' or 'knee-speed')", s)
	}
	return k, nil
}

// BaseName returns the output file name without extension.
func (k Kind) BaseName() string {
	return baseNames[k]
}

// FileName returns the output file name for the given format.
func (k Kind) FileName(format string) string {
	return k.BaseName() + "." + format
}

// Output formats.
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatEPS = "eps"
	FormatTeX = "tex"
	FormatPNG = "png"
)

// DefaultFormat is the format used when none is requested.
const DefaultFormat = FormatPDF

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF: true,
	FormatSVG: true,
	FormatEPS: true,
	FormatTeX: true,
	FormatPNG: true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatSVG:
		return "image/svg+xml"
	case FormatEPS:
		return "application/postscript"
	case FormatTeX:
		return "application/x-tex"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
