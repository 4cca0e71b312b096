// Package cli implements the kneefig command-line interface.
//
// Running kneefig without a subcommand renders all three figures from
// knee_running.json in the working directory, exactly like "kneefig
// render" with no flags.
//
// # Commands
//
//   - render: Render the figures to PDF, SVG, EPS, PGF/TeX or PNG
//   - inspect: Summarize a trial without rendering
//   - serve: Preview figures over HTTP
//   - cache: Manage the rendered-figure cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kneefig/pkg/buildinfo"
	"github.com/matzehuels/kneefig/pkg/cache"
	"github.com/matzehuels/kneefig/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kneefig"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Progress receives spinner animation; nil discards it.
	Progress io.Writer
}

// New creates a new CLI instance with a timestamped logger. Log lines and
// spinners both go to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Progress: w}
}

func (c *CLI) progressWriter() io.Writer {
	if c.Progress == nil {
		return io.Discard
	}
	return c.Progress
}

// SetLogLevel updates the logger's level. At debug level, pipeline and
// cache events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself renders with default settings.
func (c *CLI) RootCommand() *cobra.Command {
	opts := defaultRenderOpts()
	root := &cobra.Command{
		Use:          appName,
		Short:        "kneefig renders the prosthetic knee running figures",
		Long:         `kneefig loads a recorded prosthetic-knee running trial and renders the motor torque-speed figure and the knee torque and speed figures as vector files for publication.`,
		Version:      buildinfo.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Only persist enables
// the on-disk cache; otherwise the run leaves nothing behind but its
// output files. Cache keys are scoped to the build so that a new release
// never serves stale figures.
func (c *CLI) newRunner(persist bool) (*pipeline.Runner, error) {
	store, err := c.newCache(persist)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(persist bool) (cache.Cache, error) {
	if !persist {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kneefig/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// splitList parses a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
