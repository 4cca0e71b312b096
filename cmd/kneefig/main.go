package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kneefig/internal/cli"
	"github.com/matzehuels/kneefig/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(exitCode(run(ctx, os.Args[1:]), os.Stderr))
}

// exitCode reports err on w and maps it to the process exit status:
// 0 on success, 130 after Ctrl-C, 1 for everything else.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted; figures written so far are kept.")
		return 130
	}
	if code := errors.GetCode(err); code != "" {
		fmt.Fprintf(w, "Error [%s]: %s\n", code, errors.UserMessage(err))
	} else {
		fmt.Fprintln(w, "Error:", err)
	}
	return 1
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline, cache and label placement details")

	// The level is only known once flags are parsed.
	attachLogger := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return attachLogger(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
