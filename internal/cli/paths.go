package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treematch/pkg/pipeline"
)

// pathsCommand creates the paths command.
func (c *CLI) pathsCommand() *cobra.Command {
	var (
		sep     string
		asJSON  bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "paths [file1] [file2]",
		Short: "Find the largest common prefix tree of two path lists",
		Long: `Find the largest common prefix tree of two path lists.

Each file holds one path per line ("-" reads stdin). Paths are split on
--sep into a prefix tree, the trees are compared by prefix equality, and the
leaf paths of the common embedding are printed for each side.`,
		Example: `  treematch paths old.txt new.txt
  find a -type f | treematch paths - b.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfig(cmd, &opts)
			return c.runPaths(cmd.Context(), args[0], args[1], sep, opts, asJSON, noCache)
		},
	}

	solverFlags(cmd, &opts)
	cmd.Flags().StringVar(&sep, "sep", pipeline.DefaultSeparator, "path separator")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPaths(ctx context.Context, file1, file2, sep string, opts pipeline.Options, asJSON, noCache bool) error {
	paths1, err := readLines(file1)
	if err != nil {
		return err
	}
	paths2, err := readLines(file2)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.ExecutePaths(ctx, paths1, paths2, sep, opts)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Result)
	}

	printSuccess("common prefix value %s", StyleNumber.Render(fmt.Sprintf("%g", res.Value)))
	printStats(res.CacheHit, fmt.Sprintf("%d + %d paths", len(paths1), len(paths2)), fmt.Sprintf("%d common", len(res.Paths1)))
	printNewline()
	for i, side := range [][]string{res.Paths1, res.Paths2} {
		fmt.Println(StyleTitle.Render(fmt.Sprintf("paths %d", i+1)))
		for _, p := range side {
			fmt.Println("  " + StyleValue.Render(p))
		}
	}
	return nil
}
