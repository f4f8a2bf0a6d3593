package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	treeio "github.com/matzehuels/treematch/pkg/io"
	"github.com/matzehuels/treematch/pkg/pipeline"
)

// compareFlags holds the flags of the embed and iso commands.
type compareFlags struct {
	formats     string
	output      string
	noCache     bool
	interactive bool
}

// compareCommand creates the embed or iso command.
func (c *CLI) compareCommand(mode pipeline.Mode) *cobra.Command {
	var flags compareFlags
	opts := pipeline.Options{Mode: mode}

	use, short := "embed", "Find the maximum common embedding of two trees"
	long := `Find the maximum common ordered embedding of two trees.

An embedding may skip nodes: ancestor relations in the result are ancestor
relations in the input, not necessarily parent relations.`
	if mode == pipeline.ModeIsomorphism {
		use, short = "iso", "Find the maximum common isomorphism of two trees"
		long = `Find the maximum common ordered isomorphism of two trees.

Every parent/child edge of the result is a parent/child edge of the input,
so both results are induced subtrees.`
	}
	long += `

Trees are read from .json, .yaml or .toml files. Results are cached; use
--refresh to recompute or --no-cache to bypass the cache entirely.`

	cmd := &cobra.Command{
		Use:   use + " [tree1] [tree2]",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			c.applyConfig(cmd, &opts)
			return c.runCompare(cmd.Context(), args[0], args[1], opts, flags)
		},
	}

	solverFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.Affinity, "affinity", pipeline.DefaultAffinity, "node affinity: eq (IDs), label, none (topology only)")
	cmd.Flags().BoolVar(&opts.Anonymous, "anonymous", false, "number result nodes instead of reusing input IDs")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): text (default), json, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show IDs and metadata in dot/svg labels")
	cmd.Flags().BoolVar(&opts.ShowPairs, "pairs", false, "draw matched pairs in dot/svg output")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "re-check the result against the inputs")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "browse matched pairs interactively")

	return cmd
}

func (c *CLI) runCompare(ctx context.Context, path1, path2 string, opts pipeline.Options, flags compareFlags) error {
	logger := loggerFromContext(ctx)

	t1, err := treeio.Import(path1)
	if err != nil {
		return err
	}
	t2, err := treeio.Import(path2)
	if err != nil {
		return err
	}
	logger.Debug("loaded trees", "nodes1", t1.NodeCount(), "nodes2", t2.NodeCount())

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s...", opts.Mode))
	spinner.Start()
	result, err := runner.Execute(ctx, t1, t2, opts)
	if err != nil {
		spinner.StopWithError("Comparison failed")
		return err
	}
	spinner.Stop()

	if flags.interactive {
		_, err := tea.NewProgram(newPairModel(t1, t2, opts.Mode, result.Match), tea.WithContext(ctx)).Run()
		return err
	}

	printMatch(opts.Mode, result)
	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     path1,
		output:    flags.output,
	})
}
