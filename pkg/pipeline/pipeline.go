// Package pipeline runs tree comparisons end to end for the CLI and the HTTP
// service.
//
// This package implements the hash → cache → solve → verify → render
// pipeline. Every entry point goes through it so that caching, logging and
// output formats behave the same everywhere.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Mode:    pipeline.ModeEmbedding,
//	    Formats: []string{"text", "svg"},
//	}
//	result, err := runner.Execute(ctx, t1, t2, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Path collections go through [Runner.ExecutePaths].
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/cache"
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/solver"
	"github.com/matzehuels/treematch/pkg/subtree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Mode selects the kind of common subtree.
type Mode string

const (
	// ModeEmbedding finds the maximum common embedding (nodes may be
	// contracted).
	ModeEmbedding Mode = "embedding"
	// ModeIsomorphism finds the maximum common induced subtree.
	ModeIsomorphism Mode = "isomorphism"
)

const (
	// DefaultMode is the default comparison.
	DefaultMode = ModeEmbedding

	// DefaultAffinity matches nodes by ID.
	DefaultAffinity = subtree.AffinityNameEq

	// DefaultSeparator splits paths for [Runner.ExecutePaths].
	DefaultSeparator = "/"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatText: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidModes is the set of supported comparison modes.
var ValidModes = map[Mode]bool{
	ModeEmbedding:   true,
	ModeIsomorphism: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a comparison.
// This struct supports JSON serialization for API requests.
type Options struct {
	Mode      Mode   `json:"mode,omitempty"`
	Strategy  string `json:"strategy,omitempty"`
	TokenKind string `json:"token_kind,omitempty"`
	Affinity  string `json:"affinity,omitempty"`
	Anonymous bool   `json:"anonymous,omitempty"`

	// Output options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`   // Node metadata in DOT/SVG labels
	ShowPairs bool     `json:"show_pairs,omitempty"` // Pair links in DOT/SVG

	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`
	// Verify re-checks the result against the inputs.
	Verify bool `json:"verify,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	strategy  solver.Strategy
	tokenKind balanced.TokenKind
	affinity  subtree.NodeAffinity

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Match is the solved comparison.
	Match *subtree.Result

	// Tree1Hash and Tree2Hash are content hashes of the inputs.
	Tree1Hash, Tree2Hash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the match came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes1     int
	Nodes2     int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, text, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a mode is valid.
func ValidateMode(mode Mode) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid mode: %q (must be one of: embedding, isomorphism)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields, applies defaults and resolves
// the named strategy, token kind and affinity. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	var err error
	if o.strategy, err = solver.ParseStrategy(o.Strategy); err != nil {
		return err
	}
	if o.tokenKind, err = balanced.ParseTokenKind(o.TokenKind); err != nil {
		return err
	}
	if o.Affinity == "" {
		o.Affinity = DefaultAffinity
	}
	if o.affinity, err = subtree.ParseAffinity(o.Affinity); err != nil {
		return err
	}
	o.Strategy = o.strategy.String()
	o.TokenKind = o.tokenKind.String()

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SubtreeOptions returns the reduction-layer options. The receiver must be
// validated.
func (o *Options) SubtreeOptions() subtree.Options {
	return subtree.Options{
		Affinity:  o.affinity,
		Strategy:  o.strategy,
		TokenKind: o.tokenKind,
		Anonymous: o.Anonymous,
	}
}

// ResultKeyOpts returns cache key options for the comparison.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Mode:      string(o.Mode),
		Strategy:  o.Strategy,
		TokenKind: o.TokenKind,
		Affinity:  o.Affinity,
		Anonymous: o.Anonymous,
	}
}

