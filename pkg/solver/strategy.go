package solver

import (
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/treematch/pkg/errors"
)

// Strategy selects how a solver evaluates its recurrence. All strategies
// return the same optimal value; witnesses may differ between strategies
// when several optima exist.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Strategy -linecomment
type Strategy int

const (
	// Auto resolves to the fastest strategy available on this build.
	Auto Strategy = iota // auto
	// Iter evaluates the recurrence on an explicit work stack. It never
	// recurses natively and is the portable default.
	Iter // iter
	// Recurse evaluates the recurrence by direct recursion. Very deep trees
	// can exhaust the goroutine stack, which is fatal.
	Recurse // recurse
	// IterNative fills dense tables bottom-up over every reachable pair of
	// subsequences. It is compiled out by the purego build tag.
	IterNative // iter-native
)

// engines holds the compiled-in strategies.
var engines = map[Strategy]engine{
	Iter:    iterative{},
	Recurse: recursive{},
}

// noNativeEnv disables the native strategy at runtime when set to a
// non-empty value.
const noNativeEnv = "TREEMATCH_PUREGO"

// available reports whether s can run on this host.
func available(s Strategy) bool {
	if _, ok := engines[s]; !ok {
		return false
	}
	return s != IterNative || os.Getenv(noNativeEnv) == ""
}

// autoStrategy is probed once per process.
var autoStrategy = sync.OnceValue(func() Strategy {
	if available(IterNative) {
		return IterNative
	}
	return Iter
})

// ParseStrategy parses a strategy name: "auto", "iter", "recurse" or
// "iter-native". Unknown names fail with UNKNOWN_IMPLEMENTATION.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return Auto, nil
	case "iter":
		return Iter, nil
	case "recurse":
		return Recurse, nil
	case "iter-native":
		return IterNative, nil
	}
	return Auto, errors.New(errors.ErrCodeUnknownImplementation, "unknown strategy %q", name)
}

// Resolve maps a requested strategy to the one that will run. Auto never
// fails; an explicitly requested strategy that is not available fails with
// UNKNOWN_IMPLEMENTATION.
func Resolve(s Strategy) (Strategy, error) {
	if s == Auto {
		return autoStrategy(), nil
	}
	if !available(s) {
		return s, errors.New(errors.ErrCodeUnknownImplementation, "strategy %q is not available in this build", s)
	}
	return s, nil
}

// Available returns the concrete strategies usable on this host, in
// declaration order.
func Available() []Strategy {
	var out []Strategy
	for s := range engines {
		if available(s) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}
