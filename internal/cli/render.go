package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kneefig/pkg/config"
	"github.com/matzehuels/kneefig/pkg/figure"
	"github.com/matzehuels/kneefig/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input   string // trial file
	output  string // output directory
	formats string // comma-separated output formats
	figures string // comma-separated figure kinds
	config  string // style file
	cache   bool   // reuse figures from the on-disk cache
}

func defaultRenderOpts() *renderOpts {
	return &renderOpts{input: pipeline.DefaultInput}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := defaultRenderOpts()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the knee running figures",
		Long: `Render the motor torque-speed figure and the knee torque and knee speed
figures from a recorded trial.

Figures are written in a fixed order, each file completely before the next:
  knee_motor_torque.<fmt>, knee_running_torque.<fmt>, knee_running_speed.<fmt>

Existing files are overwritten. Nothing else is written unless --cache is set.`,
		Example: `  kneefig render
  kneefig render -i trial.yaml -o figures -f pdf,svg
  kneefig render --figure knee-speed --config style.toml
  kneefig render --cache -f pdf,png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", opts.input, "trial file (.json, .yaml, .toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: config or current directory)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): pdf (default), svg, eps, tex, png (comma-separated)")
	cmd.Flags().StringVar(&opts.figures, "figure", "", "figure(s) to render: motor-torque, knee-torque, knee-speed (default: all)")
	cmd.Flags().StringVar(&opts.config, "config", "", "style file (.toml, .yaml)")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "reuse and store figures in the on-disk cache (see 'kneefig cache path')")

	_ = cmd.RegisterFlagCompletionFunc("figure", completeFigures)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// pipelineOptions merges flags and the optional style file into pipeline
// options. Flags win over the style file.
func (o *renderOpts) pipelineOptions() (pipeline.Options, error) {
	popts := pipeline.Options{
		Input:     o.input,
		OutputDir: o.output,
		Formats:   splitList(o.formats),
	}

	if o.config != "" {
		cfg, err := config.Load(o.config)
		if err != nil {
			return popts, err
		}
		if popts.Style, err = cfg.FigureStyle(); err != nil {
			return popts, err
		}
		if popts.Envelope, err = cfg.Envelope(); err != nil {
			return popts, err
		}
		if popts.Labels, err = cfg.AxisLabels(); err != nil {
			return popts, err
		}
		if popts.OutputDir == "" {
			popts.OutputDir = cfg.Output.Dir
		}
		if len(popts.Formats) == 0 {
			popts.Formats = cfg.Output.Formats
		}
	}

	figures, err := pipeline.ParseFigures(splitList(o.figures))
	if err != nil {
		return popts, err
	}
	popts.Figures = figures
	return popts, nil
}

// runRender executes the pipeline with a spinner per figure.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	popts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	popts.Logger = logger

	runner, err := c.newRunner(opts.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var spinner *Spinner
	popts.Progress = pipeline.Progress{
		Start: func(k figure.Kind) {
			spinner = newFigureSpinner(ctx, c.progressWriter(), k, popts.Formats)
			spinner.Start()
		},
		Done: func(k figure.Kind, files []pipeline.OutputFile, err error) {
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("Rendering %s failed", k))
				return
			}
			spinner.StopWithSuccess(string(k))
			for _, f := range files {
				printOutputFile(f)
			}
		},
	}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, popts)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	prog.done(result)
	return nil
}

func completeFigures(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, k := range figure.Kinds() {
		out = append(out, string(k))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{figure.FormatPDF, figure.FormatSVG, figure.FormatEPS, figure.FormatTeX, figure.FormatPNG},
		cobra.ShellCompDirectiveNoFileComp
}
