// Package pipeline runs the kneefig figure pipeline.
//
// One run is strictly sequential: load the trial, then render each
// requested figure in the fixed order of [figure.Kinds], writing every
// output file before starting the next figure. Context cancellation is
// honoured between figures; files already written stay on disk.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "knee_running.json",
//	    Formats: []string{"pdf", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, f := range result.Files {
//	    fmt.Println(f.Path)
//	}
//
// Single figures, as served by the preview server, go through
// [Runner.RenderFigure], which shares the artifact cache.
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kneefig/pkg/cache"
	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/motor"
	"github.com/matzehuels/kneefig/pkg/trial"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultInput is the trial file read when none is given.
	DefaultInput = "knee_running.json"

	// DefaultOutputDir is where figures are written when no directory is given.
	DefaultOutputDir = "."
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	Input     string        `json:"input"`
	OutputDir string        `json:"output_dir,omitempty"`
	Formats   []string      `json:"formats,omitempty"`
	Figures   []figure.Kind `json:"figures,omitempty"`

	// Cosmetics. Zero values select the defaults.
	Style    figure.Style                      `json:"-"`
	Envelope motor.Envelope                    `json:"-"`
	Labels   map[figure.Kind]figure.AxisLabels `json:"-"`

	// Runtime options (not serialized)
	Logger   *log.Logger `json:"-"`
	Progress Progress    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Progress is notified around each figure of a run. Both funcs are
// optional.
type Progress struct {
	Start func(k figure.Kind)
	Done  func(k figure.Kind, files []OutputFile, err error)
}

func (p Progress) start(k figure.Kind) {
	if p.Start != nil {
		p.Start(k)
	}
}

func (p Progress) done(k figure.Kind, files []OutputFile, err error) {
	if p.Done != nil {
		p.Done(k, files, err)
	}
}

// Result contains the outputs of a pipeline run. On error it holds
// whatever was completed before the failure.
type Result struct {
	// Trial is the loaded trial.
	Trial *trial.Trial

	// TrialDigest is the content hash of the trial.
	TrialDigest string

	// Files lists the written figures in the order they were written.
	Files []OutputFile

	// Labels holds the label placement outcome of each freshly built
	// figure. Figures served from cache have no entry.
	Labels map[figure.Kind][]figure.LabelPlacement

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo counts artifact cache hits and misses.
	CacheInfo CacheInfo
}

// OutputFile is one written figure.
type OutputFile struct {
	Figure figure.Kind
	Format string
	Path   string
	Size   int
	Cached bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Samples    int
	Figures    int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo counts artifact cache lookups.
type CacheInfo struct {
	Hits   int
	Misses int
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, figure.ValidFormats); err != nil {
			return err
		}
	}
	return nil
}

// ParseFigures parses figure names into kinds, dropping duplicates and
// putting them in rendering order. No names selects every figure.
func ParseFigures(names []string) ([]figure.Kind, error) {
	if len(names) == 0 {
		return figure.Kinds(), nil
	}
	want := make(map[figure.Kind]bool, len(names))
	for _, name := range names {
		k, err := figure.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		want[k] = true
	}
	var out []figure.Kind
	for _, k := range figure.Kinds() {
		if want[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		o.Input = DefaultInput
	}
	if err := errors.ValidatePath(o.Input); err != nil {
		return err
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if err := errors.ValidatePath(o.OutputDir); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{figure.DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	names := make([]string, len(o.Figures))
	for i, k := range o.Figures {
		names[i] = string(k)
	}
	figures, err := ParseFigures(names)
	if err != nil {
		return err
	}
	o.Figures = figures

	o.SetStyleDefaults()
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if err := o.Envelope.Validate(); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SetStyleDefaults fills unset cosmetics with the defaults.
func (o *Options) SetStyleDefaults() {
	if o.Style == (figure.Style{}) {
		o.Style = figure.DefaultStyle()
	}
	if o.Envelope.Limit == nil {
		o.Envelope = motor.Default()
	}
}

// FigureOptions returns the build options for every figure.
func (o *Options) FigureOptions() []figure.Option {
	opts := []figure.Option{
		figure.WithStyle(o.Style),
		figure.WithEnvelope(o.Envelope),
	}
	if o.Logger != nil {
		opts = append(opts, figure.WithLogger(o.Logger))
	}
	for k, l := range o.Labels {
		opts = append(opts, figure.WithAxisLabels(k, l))
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one rendered figure.
func (o *Options) ArtifactKeyOpts(k figure.Kind, format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Figure: string(k),
		Format: format,
		Style:  o.styleDigest(),
	}
}

func (o *Options) styleDigest() string {
	return cache.StyleDigest(struct {
		Style    figure.Style
		Envelope motor.Envelope
		Labels   map[figure.Kind]figure.AxisLabels
	}{o.Style, o.Envelope, o.Labels})
}
