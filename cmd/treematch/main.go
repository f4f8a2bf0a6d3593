// Command treematch finds maximum common subtrees of ordered trees.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treematch/internal/cli"
	"github.com/matzehuels/treematch/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	os.Exit(exitCode(err))
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// The level must be set before the root hook logs anything.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return loadConfig(cmd, args)
	}
	return root.ExecuteContext(ctx)
}

// exitCode maps err to a process status: 0 on success, 130 after an
// interrupt, 2 for rejected input and 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return 130
	}
	fmt.Fprintln(os.Stderr, err)
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeFileNotFound, errors.ErrCodeUnbalancedSequence, errors.ErrCodeUnknownImplementation:
		return 2
	}
	return 1
}
