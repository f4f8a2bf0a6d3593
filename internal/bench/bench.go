// Package bench measures solver strategies on random tree pairs.
//
// Every trial generates one pair of random ordered trees and solves it with
// each requested strategy concurrently. The strategies must agree on the
// value; their runtimes are summarized per mode and strategy.
package bench

import (
	"context"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/solver"
	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Modes compared by Run.
const (
	ModeEmbedding   = "embedding"
	ModeIsomorphism = "isomorphism"
)

// Defaults for Config.
const (
	DefaultNodes  = 200
	DefaultTrials = 10
	DefaultSeed   = uint64(42)
)

// Config controls a benchmark run.
type Config struct {
	Nodes      int               // nodes per tree
	Trials     int               // tree pairs
	Seed       uint64            // RNG seed; pairs are reproducible per seed
	Labels     int               // label alphabet size; 0 leaves nodes unlabeled
	Modes      []string          // default: both modes
	Strategies []solver.Strategy // default: solver.Available()
}

func (c *Config) setDefaults() {
	if c.Nodes <= 0 {
		c.Nodes = DefaultNodes
	}
	if c.Trials <= 0 {
		c.Trials = DefaultTrials
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if len(c.Modes) == 0 {
		c.Modes = []string{ModeEmbedding, ModeIsomorphism}
	}
	if len(c.Strategies) == 0 {
		c.Strategies = solver.Available()
	}
}

// Stats summarizes the runtimes of one strategy in one mode.
type Stats struct {
	Mode     string
	Strategy solver.Strategy
	Runs     int
	Mean     time.Duration
	StdDev   time.Duration
	Median   time.Duration
	Min, Max time.Duration
}

// Report is the outcome of Run.
type Report struct {
	ID     string
	Config Config
	Stats  []Stats
	// Values holds the agreed value of every trial, per mode.
	Values map[string][]float64
}

// Run executes the benchmark. It fails if a strategy errors or if two
// strategies disagree on a value.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	cfg.setDefaults()
	for _, m := range cfg.Modes {
		if m != ModeEmbedding && m != ModeIsomorphism {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown mode %q", m)
		}
	}
	for _, s := range cfg.Strategies {
		if _, err := solver.Resolve(s); err != nil {
			return nil, err
		}
	}

	var labels []string
	for i := range cfg.Labels {
		labels = append(labels, "l"+strconv.Itoa(i))
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1))

	// times[mode][strategy index][trial]
	times := make(map[string][][]float64, len(cfg.Modes))
	values := make(map[string][]float64, len(cfg.Modes))
	for _, m := range cfg.Modes {
		times[m] = make([][]float64, len(cfg.Strategies))
		for i := range cfg.Strategies {
			times[m][i] = make([]float64, cfg.Trials)
		}
		values[m] = make([]float64, cfg.Trials)
	}

	for trial := range cfg.Trials {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opts := tree.RandomOptions{Labels: labels}
		t1 := tree.Random(cfg.Nodes, rng, opts)
		t2 := tree.Random(cfg.Nodes, rng, opts)

		for _, mode := range cfg.Modes {
			got := make([]float64, len(cfg.Strategies))
			g, gctx := errgroup.WithContext(ctx)
			for i, s := range cfg.Strategies {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					start := time.Now()
					res, err := solve(mode, t1, t2, s)
					if err != nil {
						return err
					}
					times[mode][i][trial] = time.Since(start).Seconds()
					got[i] = res.Value
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
			if slices.Min(got) != slices.Max(got) {
				return nil, errors.New(errors.ErrCodeInternal,
					"trial %d %s: strategies %v disagree on value: %v", trial, mode, cfg.Strategies, got)
			}
			values[mode][trial] = got[0]
		}
	}

	report := &Report{
		ID:     uuid.NewString(),
		Config: cfg,
		Values: values,
	}
	for _, mode := range cfg.Modes {
		for i, s := range cfg.Strategies {
			report.Stats = append(report.Stats, summarize(mode, s, times[mode][i]))
		}
	}
	return report, nil
}

func solve(mode string, t1, t2 *tree.Tree, s solver.Strategy) (*subtree.Result, error) {
	opts := subtree.DefaultOptions()
	opts.Strategy = s
	if mode == ModeIsomorphism {
		return subtree.MaximumCommonIsomorphism(t1, t2, opts)
	}
	return subtree.MaximumCommonEmbedding(t1, t2, opts)
}

// summarize computes runtime statistics from samples in seconds.
func summarize(mode string, s solver.Strategy, secs []float64) Stats {
	sorted := slices.Clone(secs)
	slices.Sort(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return Stats{
		Mode:     mode,
		Strategy: s,
		Runs:     len(sorted),
		Mean:     seconds(mean),
		StdDev:   seconds(std),
		Median:   seconds(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		Min:      seconds(floats.Min(sorted)),
		Max:      seconds(floats.Max(sorted)),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
