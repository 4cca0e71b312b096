package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kneefig/pkg/cache"
	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/observability"
)

var testInput = filepath.Join("testdata", "knee_running.json")

func newTestRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"pdf", "svg", "eps", "tex", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"pdf", "json"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("json should fail with INVALID_FORMAT, got %v", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFigures(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []figure.Kind
	}{
		{"empty selects all", nil, figure.Kinds()},
		{"reordered", []string{"knee-speed", "motor-torque"}, []figure.Kind{figure.MotorTorque, figure.KneeSpeed}},
		{"duplicates", []string{"knee-torque", " knee-torque"}, []figure.Kind{figure.KneeTorque}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFigures(tt.input)
			if err != nil {
				t.Fatalf("ParseFigures() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFigures() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := ParseFigures([]string{"hip-torque"}); !errors.Is(err, errors.ErrCodeInvalidFigure) {
		t.Errorf("unknown figure error = %v, want INVALID_FIGURE", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Input != DefaultInput || opts.OutputDir != DefaultOutputDir {
		t.Errorf("paths = %q, %q", opts.Input, opts.OutputDir)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"pdf"}) {
		t.Errorf("Formats = %v, want [pdf]", opts.Formats)
	}
	if !reflect.DeepEqual(opts.Figures, figure.Kinds()) {
		t.Errorf("Figures = %v, want all", opts.Figures)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	parent := Options{Input: "../data/trial.json", OutputDir: "../figures"}
	if err := parent.ValidateAndSetDefaults(); err != nil {
		t.Errorf("parent-relative paths rejected: %v", err)
	}

	bad := Options{OutputDir: "out\x00"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("control char error = %v, want INVALID_PATH", err)
	}
}

func TestExecuteWritesAllFigures(t *testing.T) {
	out := t.TempDir()
	r := newTestRunner(nil)

	result, err := r.Execute(context.Background(), Options{Input: testInput, OutputDir: out})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{"knee_motor_torque.pdf", "knee_running_torque.pdf", "knee_running_speed.pdf"}
	if len(result.Files) != len(want) {
		t.Fatalf("Files = %d, want %d", len(result.Files), len(want))
	}
	for i, name := range want {
		f := result.Files[i]
		if filepath.Base(f.Path) != name {
			t.Errorf("Files[%d] = %s, want %s", i, f.Path, name)
		}
		info, err := os.Stat(f.Path)
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if info.Size() == 0 || int(info.Size()) != f.Size {
			t.Errorf("%s size = %d, reported %d", name, info.Size(), f.Size)
		}
	}
	if result.Stats.Samples != 21 || result.Stats.Figures != 3 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if placements := result.Labels[figure.MotorTorque]; len(placements) != 2 {
		t.Errorf("motor torque label placements = %d, want 2", len(placements))
	}
}

func TestExecuteMultipleFormatsAndCache(t *testing.T) {
	out := t.TempDir()
	r := newTestRunner(cache.NewMemoryCache(0))
	opts := Options{
		Input:     testInput,
		OutputDir: out,
		Formats:   []string{"pdf", "svg"},
		Figures:   []figure.Kind{figure.KneeSpeed},
	}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.Misses != 2 || first.CacheInfo.Hits != 0 {
		t.Errorf("first run CacheInfo = %+v, want 2 misses", first.CacheInfo)
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if second.CacheInfo.Hits != 2 {
		t.Errorf("second run CacheInfo = %+v, want 2 hits", second.CacheInfo)
	}
	for _, f := range second.Files {
		if !f.Cached {
			t.Errorf("%s should come from cache", f.Path)
		}
	}
	if _, ok := second.Labels[figure.KneeSpeed]; ok {
		t.Error("cached figures should not report label placements")
	}

	opts.Style = figure.DefaultStyle()
	opts.Style.FontSize = 12
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.Hits != 0 {
		t.Errorf("style change should miss the cache, got %+v", third.CacheInfo)
	}
}

func TestExecuteDataFormatWritesNothing(t *testing.T) {
	out := t.TempDir()
	r := newTestRunner(nil)

	_, err := r.Execute(context.Background(), Options{
		Input:     filepath.Join("testdata", "short_channel.json"),
		OutputDir: out,
	})
	if !errors.Is(err, errors.ErrCodeDataFormat) {
		t.Fatalf("Execute() error = %v, want DATA_FORMAT", err)
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Errorf("output dir has %d files, want none", len(entries))
	}
}

func TestExecuteIOErrorKeepsEarlierFiles(t *testing.T) {
	out := t.TempDir()
	// A directory where the second figure should go makes its write fail.
	if err := os.Mkdir(filepath.Join(out, "knee_running_torque.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}
	r := newTestRunner(nil)

	result, err := r.Execute(context.Background(), Options{Input: testInput, OutputDir: out})
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("Execute() error = %v, want IO_ERROR", err)
	}
	if len(result.Files) != 1 || result.Files[0].Figure != figure.MotorTorque {
		t.Errorf("Files = %+v, want only the motor torque figure", result.Files)
	}
	if _, err := os.Stat(filepath.Join(out, "knee_motor_torque.pdf")); err != nil {
		t.Errorf("first figure should stay on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "knee_running_speed.pdf")); !os.IsNotExist(err) {
		t.Error("figures after the failure should not be written")
	}
}

func TestExecuteCancelledBetweenFigures(t *testing.T) {
	out := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var started []figure.Kind
	opts := Options{
		Input:     testInput,
		OutputDir: out,
		Progress: Progress{
			Start: func(k figure.Kind) { started = append(started, k) },
			Done:  func(figure.Kind, []OutputFile, error) { cancel() },
		},
	}

	result, err := newTestRunner(nil).Execute(ctx, opts)
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if len(started) != 1 || len(result.Files) != 1 {
		t.Errorf("started %v, wrote %d files; want exactly the first figure", started, len(result.Files))
	}
}

func TestRenderFigureHooks(t *testing.T) {
	rec := observability.NewRecorder()
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	r := newTestRunner(cache.NewMemoryCache(0))
	tr, err := r.LoadTrial(context.Background(), testInput)
	if err != nil {
		t.Fatalf("LoadTrial() error: %v", err)
	}

	for i := 0; i < 2; i++ {
		data, _, err := r.RenderFigure(context.Background(), tr, figure.KneeTorque, "svg", Options{})
		if err != nil {
			t.Fatalf("RenderFigure() error: %v", err)
		}
		if len(data) == 0 {
			t.Fatal("RenderFigure() returned no bytes")
		}
	}

	c := rec.Counts()
	if c.Loads != 1 || c.Figures != 1 || c.CacheHits != 1 || c.CacheMisses != 1 || c.CacheSets != 1 {
		t.Errorf("Counts() = %+v", c)
	}

	if _, _, err := r.RenderFigure(context.Background(), tr, figure.KneeTorque, "gif", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("RenderFigure(gif) error = %v, want INVALID_FORMAT", err)
	}
}
