package cli

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kneefig/internal/server"
	"github.com/matzehuels/kneefig/pkg/cache"
	"github.com/matzehuels/kneefig/pkg/observability"
	"github.com/matzehuels/kneefig/pkg/pipeline"
)

// serveMaxEntries bounds the in-memory figure cache of the preview server.
const serveMaxEntries = 64

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	render  *renderOpts
	addr    string
	noCache bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{render: defaultRenderOpts(), addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the figures over HTTP",
		Long: `Serve rendered figures of one trial over HTTP, for checking a style file in
a browser. Figures are available at /figures/{figure}.{format}, for
example /figures/knee-torque.svg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.render.input, "input", "i", opts.render.input, "trial file (.json, .yaml, .toml)")
	cmd.Flags().StringVar(&opts.render.config, "config", "", "style file (.toml, .yaml)")
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render every request from scratch")

	return cmd
}

// serveStore returns the figure cache of the preview server. It lives in
// memory only, so nothing outlives the process.
func serveStore(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	return cache.NewMemoryCache(serveMaxEntries)
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	addr := opts.addr

	popts, err := opts.render.pipelineOptions()
	if err != nil {
		return err
	}
	popts.Logger = logger

	runner := pipeline.NewRunner(serveStore(opts.noCache), nil, logger)
	defer runner.Close()

	// The recorder replaces the debug log hooks; request logging stays on.
	rec := observability.NewRecorder()
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	t, err := runner.LoadTrial(ctx, popts.Input)
	if err != nil {
		return err
	}

	printInfo("Serving %s", StyleHighlight.Render(popts.Input))
	printDetail("Figures: http://localhost%s/figures", addr)

	err = server.New(runner, t, popts, rec).ListenAndServe(ctx, addr)
	if stderrors.Is(err, context.Canceled) {
		printDetail("Server stopped")
	}
	return err
}
