package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treematch/pkg/cache"
	"github.com/matzehuels/treematch/pkg/errors"
	treeio "github.com/matzehuels/treematch/pkg/io"
	"github.com/matzehuels/treematch/pkg/observability"
	"github.com/matzehuels/treematch/pkg/paths"
	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

// keyType labels cache events for observability hooks.
const (
	keyTypeResult = "result"
	keyTypePaths  = "paths"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of stored results; zero means cache.TTLResult.
	TTL time.Duration
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

// Execute compares two trees and renders the requested artifacts.
func (r *Runner) Execute(ctx context.Context, t1, t2 *tree.Tree, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if t1 == nil || t2 == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "both trees are required")
	}

	h1, err := TreeHash(t1)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash tree 1")
	}
	h2, err := TreeHash(t2)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash tree 2")
	}
	result := &Result{
		Tree1Hash: h1,
		Tree2Hash: h2,
		Stats: Stats{
			Nodes1: t1.NodeCount(),
			Nodes2: t2.NodeCount(),
		},
	}
	key := r.Keyer.ResultKey(result.Tree1Hash, result.Tree2Hash, opts.ResultKeyOpts())

	match, hit := r.lookup(ctx, key, keyTypeResult, opts)
	if !hit {
		match, err = r.solve(ctx, t1, t2, opts)
		if err != nil {
			return nil, err
		}
		result.Stats.SolveTime = match.duration
		r.store(ctx, key, keyTypeResult, opts, match.Result)
	}
	result.Match = match.Result
	result.CacheHit = hit

	if opts.Verify {
		if err := Verify(t1, t2, opts.Mode, result.Match, opts.Affinity); err != nil {
			return nil, err
		}
		opts.Logger.Debug("verified match", "pairs", len(result.Match.Pairs))
	}

	artifacts, dur, err := r.Render(ctx, t1, t2, opts.Mode, result.Match, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = dur
	return result, nil
}

type timedMatch struct {
	*subtree.Result
	duration time.Duration
}

// cached reads key and hands the entry to decode unless opts.Refresh is
// set. Cache read failures and entries decode rejects count as misses.
func (r *Runner) cached(ctx context.Context, key, keyType string, opts Options, decode func([]byte) error) bool {
	if opts.Refresh {
		return false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := decode(data); err != nil {
		opts.Logger.Warn("discarding cache entry", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	opts.Logger.Debug("cache hit", "key", key)
	return true
}

// put writes an encoded entry. Failures are logged and otherwise ignored.
func (r *Runner) put(ctx context.Context, key, keyType string, opts Options, data []byte, err error) {
	if err != nil {
		opts.Logger.Warn("encode cache entry", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		opts.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) lookup(ctx context.Context, key, keyType string, opts Options) (timedMatch, bool) {
	var m *subtree.Result
	hit := r.cached(ctx, key, keyType, opts, func(data []byte) error {
		rec, err := UnmarshalRecord(data)
		if err != nil {
			return err
		}
		m, err = rec.Match()
		return err
	})
	return timedMatch{Result: m}, hit
}

func (r *Runner) store(ctx context.Context, key, keyType string, opts Options, m *subtree.Result) {
	data, err := MarshalRecord(NewRecord(opts.Mode, m))
	r.put(ctx, key, keyType, opts, data, err)
}

// ExecutePaths compares two path collections by prefix equality. Mode,
// affinity and output formats in opts are ignored.
func (r *Runner) ExecutePaths(ctx context.Context, paths1, paths2 []string, sep string, opts Options) (*PathsResult, error) {
	opts.Mode = ModeEmbedding
	opts.Affinity = subtree.AffinityNameEq
	opts.Formats = nil
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	if err := errors.ValidateSeparator(sep); err != nil {
		return nil, err
	}

	key := r.Keyer.PathsKey(paths1, paths2, sep, opts.ResultKeyOpts())
	var cachedRes paths.Result
	if r.cached(ctx, key, keyTypePaths, opts, func(data []byte) error { return json.Unmarshal(data, &cachedRes) }) {
		return &PathsResult{Result: &cachedRes, CacheHit: true}, nil
	}

	observability.Pipeline().OnSolveStart(ctx, "paths", len(paths1), len(paths2))
	start := time.Now()
	res, err := paths.MaximumCommonPathEmbedding(paths1, paths2, sep, opts.SubtreeOptions())
	var value float64
	if res != nil {
		value = res.Value
	}
	observability.Pipeline().OnSolveComplete(ctx, "paths", opts.Strategy, value, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("solved paths", "paths", len(paths1)+len(paths2), "value", res.Value, "duration", time.Since(start))

	data, err := json.Marshal(res)
	r.put(ctx, key, keyTypePaths, opts, data, err)
	return &PathsResult{Result: res}, nil
}

// TreeHash returns the content hash of a tree's canonical JSON document.
// Trees whose metadata JSON cannot encode (NaN, channels, funcs) fail
// rather than share a hash.
func TreeHash(t *tree.Tree) (string, error) {
	data, err := json.Marshal(treeio.FromTree(t))
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLResult
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
