package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treematch/internal/bench"
	"github.com/matzehuels/treematch/pkg/solver"
)

// benchCommand creates the bench command.
func (c *CLI) benchCommand() *cobra.Command {
	var (
		cfg        bench.Config
		modes      string
		strategies string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare solver strategies on random trees",
		Long: `Compare solver strategies on random trees.

Every trial generates a pair of random ordered trees and solves it with each
strategy concurrently. All strategies must agree on the value; the command
fails otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if modes != "" {
				cfg.Modes = strings.Split(modes, ",")
			}
			if strategies != "" {
				for _, name := range strings.Split(strategies, ",") {
					s, err := solver.ParseStrategy(name)
					if err != nil {
						return err
					}
					cfg.Strategies = append(cfg.Strategies, s)
				}
			}

			logger := loggerFromContext(cmd.Context())
			spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Running %d trials...", max(cfg.Trials, 1)))
			spinner.Start()
			p := newProgress(logger)
			report, err := bench.Run(cmd.Context(), cfg)
			if err != nil {
				spinner.StopWithError("Benchmark failed")
				return err
			}
			spinner.Stop()
			p.done(fmt.Sprintf("Benchmark %s finished", report.ID))

			fmt.Println(benchTable(report))
			printDetail("run %s · %d nodes · %d trials · seed %d",
				report.ID, report.Config.Nodes, report.Config.Trials, report.Config.Seed)
			return nil
		},
	}

	cmd.Flags().IntVarP(&cfg.Nodes, "nodes", "n", bench.DefaultNodes, "nodes per tree")
	cmd.Flags().IntVarP(&cfg.Trials, "trials", "t", bench.DefaultTrials, "number of tree pairs")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", bench.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&cfg.Labels, "labels", 0, "label alphabet size (0 leaves nodes unlabeled)")
	cmd.Flags().StringVar(&modes, "modes", "", "comma-separated modes: embedding, isomorphism (default both)")
	cmd.Flags().StringVar(&strategies, "strategies", "", "comma-separated strategies (default all available)")

	return cmd
}

// benchTable renders the per-strategy timings of a report.
func benchTable(r *bench.Report) string {
	rows := make([][]string, 0, len(r.Stats))
	for _, s := range r.Stats {
		rows = append(rows, []string{
			s.Mode,
			s.Strategy.String(),
			strconv.Itoa(s.Runs),
			s.Mean.String(),
			s.StdDev.String(),
			s.Median.String(),
			s.Min.String(),
			s.Max.String(),
		})
	}

	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Mode", "Strategy", "Runs", "Mean", "StdDev", "Median", "Min", "Max").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case col == 1:
				return cell.Foreground(colorCyan)
			case col >= 3:
				return cell.Foreground(colorWhite)
			}
			return cell
		}).
		Render()
}
