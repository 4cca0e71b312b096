package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kneefig/pkg/cache"
	"github.com/matzehuels/kneefig/pkg/errors"
	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/observability"
	"github.com/matzehuels/kneefig/pkg/trial"
)

// keyTypeArtifact labels artifact cache events.
const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete load → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{Labels: make(map[figure.Kind][]figure.LabelPlacement)}

	loadStart := time.Now()
	t, err := r.LoadTrial(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	result.Trial = t
	result.TrialDigest = t.Digest()
	result.Stats.Samples = t.Len()
	result.Stats.LoadTime = time.Since(loadStart)
	logger.Info("Loaded trial", "path", opts.Input, "samples", t.Len(), "duration", result.Stats.LoadTime)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return result, errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", opts.OutputDir)
	}

	renderStart := time.Now()
	defer func() { result.Stats.RenderTime = time.Since(renderStart) }()

	for _, k := range opts.Figures {
		if err := ctx.Err(); err != nil {
			logger.Warn("Stopping before figure", "figure", k, "written", len(result.Files))
			return result, err
		}
		opts.Progress.start(k)
		files, err := r.renderKind(ctx, t, result.TrialDigest, k, &opts, result)
		result.Files = append(result.Files, files...)
		opts.Progress.done(k, files, err)
		if err != nil {
			return result, err
		}
		result.Stats.Figures++
	}
	return result, nil
}

// LoadTrial reads and validates the trial at path.
func (r *Runner) LoadTrial(ctx context.Context, path string) (*trial.Trial, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()
	t, err := trial.Load(path)
	samples := 0
	if t != nil {
		samples = t.Len()
	}
	hooks.OnLoadComplete(ctx, path, samples, time.Since(start), err)
	return t, err
}

// renderKind renders figure k in every requested format and writes the
// files. The figure is built at most once, and only if some format
// misses the cache.
func (r *Runner) renderKind(ctx context.Context, t *trial.Trial, digest string, k figure.Kind, opts *Options, result *Result) ([]OutputFile, error) {
	var built *figure.Figure
	build := func() (*figure.Figure, error) {
		if built != nil {
			return built, nil
		}
		f, err := figure.Build(k, t, opts.FigureOptions()...)
		if err != nil {
			return nil, err
		}
		built = f
		result.Labels[k] = f.Labels
		return f, nil
	}

	var files []OutputFile
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(digest, opts.ArtifactKeyOpts(k, format))
		data, hit, err := r.cached(ctx, key, k, format, func() ([]byte, error) {
			f, err := build()
			if err != nil {
				return nil, err
			}
			return f.Render(format)
		})
		if err != nil {
			return files, err
		}
		if hit {
			result.CacheInfo.Hits++
		} else {
			result.CacheInfo.Misses++
		}

		path := filepath.Join(opts.OutputDir, k.FileName(format))
		if err := writeFile(path, data); err != nil {
			return files, err
		}
		opts.Logger.Debug("Wrote figure", "figure", k, "format", format, "path", path, "bytes", len(data), "cached", hit)
		files = append(files, OutputFile{Figure: k, Format: format, Path: path, Size: len(data), Cached: hit})
	}
	return files, nil
}

// RenderFigure renders one figure of t in one format through the artifact
// cache. It reports whether the bytes came from the cache.
func (r *Runner) RenderFigure(ctx context.Context, t *trial.Trial, k figure.Kind, format string, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := errors.ValidateFormat(format, figure.ValidFormats); err != nil {
		return nil, false, err
	}
	opts.SetStyleDefaults()
	key := r.Keyer.ArtifactKey(t.Digest(), opts.ArtifactKeyOpts(k, format))
	return r.cached(ctx, key, k, format, func() ([]byte, error) {
		return figure.Render(k, t, format, opts.FigureOptions()...)
	})
}

// cached returns the artifact under key, rendering and storing it on a
// miss. Cache failures are logged and never fail the render.
func (r *Runner) cached(ctx context.Context, key string, k figure.Kind, format string, render func() ([]byte, error)) ([]byte, bool, error) {
	cacheHooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("Artifact cache read failed", "figure", k, "format", format, "err", err)
	}
	if err == nil && hit {
		cacheHooks.OnCacheHit(ctx, keyTypeArtifact)
		return data, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, keyTypeArtifact)

	hooks := observability.Pipeline()
	hooks.OnFigureStart(ctx, string(k), format)
	start := time.Now()
	data, err = render()
	hooks.OnFigureComplete(ctx, string(k), format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("Artifact cache write failed", "figure", k, "format", format, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, false, nil
}

// applyLogger sets the runner's logger on opts if none is set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
