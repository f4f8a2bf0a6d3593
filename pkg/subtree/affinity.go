package subtree

import (
	"strings"

	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/solver"
	"github.com/matzehuels/treematch/pkg/tree"
)

// NodeAffinity scores a node of the first tree against a node of the second.
// Zero forbids the match; a positive value is its weight. A nil
// NodeAffinity matches any two nodes with weight 1 (topology only).
type NodeAffinity func(a, b *tree.Node) float64

// AffinityEq matches nodes with equal IDs.
func AffinityEq(a, b *tree.Node) float64 {
	if a.ID == b.ID {
		return 1
	}
	return 0
}

// AffinityLabel matches nodes with equal labels.
func AffinityLabel(a, b *tree.Node) float64 {
	if a.Label == b.Label {
		return 1
	}
	return 0
}

// Affinity names accepted by [ParseAffinity].
const (
	AffinityNameNone  = "none"
	AffinityNameEq    = "eq"
	AffinityNameLabel = "label"
)

// ParseAffinity resolves a named affinity: "none" (nil), "eq" or "label".
func ParseAffinity(name string) (NodeAffinity, error) {
	switch strings.ToLower(name) {
	case AffinityNameNone:
		return nil, nil
	case "", AffinityNameEq:
		return AffinityEq, nil
	case AffinityNameLabel:
		return AffinityLabel, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown affinity %q (want none, eq or label)", name)
}

// lift turns a node affinity into a token affinity through the session's
// opener-to-node map.
func lift(aff NodeAffinity, openToNode map[balanced.Token]*tree.Node) solver.Affinity {
	if aff == nil {
		return nil
	}
	return func(a, b balanced.Token) float64 {
		return aff(openToNode[a], openToNode[b])
	}
}
