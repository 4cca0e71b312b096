package trial

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kneefig/pkg/errors"
)

// Format identifies a trial file encoding.
type Format string

// Supported trial file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var formatFromExt = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// FormatFromPath returns the trial format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatFromExt[ext]; ok {
		return f, nil
	}
	if ext == ".mat" {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"%s: MATLAB files are not read directly; export the channels to JSON, YAML or TOML", path)
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "%s: unsupported trial format %q", path, ext)
}

// document is the on-disk shape of a trial. Absent channels stay nil so
// they can be told apart from empty ones.
type document struct {
	Time           Channel `json:"time" yaml:"time" toml:"time"`
	KneeTorque     Channel `json:"knee_torque" yaml:"knee_torque" toml:"knee_torque"`
	KneeSpeed      Channel `json:"knee_speed" yaml:"knee_speed" toml:"knee_speed"`
	MotorTorque    Channel `json:"torque_motor" yaml:"torque_motor" toml:"torque_motor"`
	MotorSpeed     Channel `json:"motor_speed" yaml:"motor_speed" toml:"motor_speed"`
	MotorTorqueRMS Scalar  `json:"torque_motor_rms" yaml:"torque_motor_rms" toml:"torque_motor_rms"`
}

// Read decodes a trial in the given format from r and validates it.
//
// Read returns a DATA_FORMAT error if the content cannot be decoded, if a
// channel is absent, empty or non-finite, or if channel lengths disagree.
// Read does not close r.
func Read(r io.Reader, format Format) (*Trial, error) {
	var doc document
	if err := decode(r, format, &doc); err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeDataFormat, err, "decode %s", format)
	}

	missing := doc.missing()
	if len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeDataFormat, "missing channels: %s", strings.Join(missing, ", "))
	}

	t := &Trial{
		Time:           doc.Time,
		KneeTorque:     doc.KneeTorque,
		KneeSpeed:      doc.KneeSpeed,
		MotorTorque:    doc.MotorTorque,
		MotorSpeed:     doc.MotorSpeed,
		MotorTorqueRMS: doc.MotorTorqueRMS.Value,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads and validates the trial file at path.
func Load(path string) (*Trial, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "trial %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}

	t, err := Read(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteJSON encodes t as flat JSON arrays. The encoding is stable, so it
// doubles as the canonical form used for content hashing.
func WriteJSON(t *Trial, w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(t)
}

// Canonical returns the canonical JSON encoding of t.
func Canonical(t *Trial) []byte {
	var buf bytes.Buffer
	_ = WriteJSON(t, &buf)
	return buf.Bytes()
}

// Digest returns the hex SHA-256 of the canonical encoding of t.
func (t *Trial) Digest() string {
	sum := sha256.Sum256(Canonical(t))
	return hex.EncodeToString(sum[:])
}

func decode(r io.Reader, format Format, doc *document) error {
	switch format {
	case FormatJSON:
		return json.NewDecoder(r).Decode(doc)
	case FormatYAML:
		return yaml.NewDecoder(r).Decode(doc)
	case FormatTOML:
		_, err := toml.NewDecoder(r).Decode(doc)
		return err
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported trial format %q", format)
	}
}

func (d *document) missing() []string {
	var out []string
	check := func(name string, c Channel) {
		if c == nil {
			out = append(out, name)
		}
	}
	check(KeyTime, d.Time)
	check(KeyKneeTorque, d.KneeTorque)
	check(KeyKneeSpeed, d.KneeSpeed)
	check(KeyMotorTorque, d.MotorTorque)
	check(KeyMotorSpeed, d.MotorSpeed)
	if !d.MotorTorqueRMS.Present {
		out = append(out, KeyMotorTorqueRMS)
	}
	return out
}
