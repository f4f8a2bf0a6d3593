package tree

import (
	"math/rand/v2"
	"strconv"
)

// RandomOptions controls [Random].
type RandomOptions struct {
	// Labels is the alphabet node labels are drawn from. Empty means nodes
	// are unlabeled.
	Labels []string
	// Roots is the number of trees in the generated forest (default 1).
	Roots int
	// Prefix is prepended to every generated node ID. Use distinct prefixes
	// to generate trees with disjoint identities.
	Prefix string
}

// Random builds a random ordered forest with n nodes. Node i (in insertion
// order) gets ID Prefix+strconv.Itoa(i); every node past the first Roots
// nodes is attached as the last child of a uniformly chosen earlier node.
func Random(n int, rng *rand.Rand, opts RandomOptions) *Tree {
	roots := max(opts.Roots, 1)
	t := New(nil)
	for i := range n {
		node := Node{ID: opts.Prefix + strconv.Itoa(i)}
		if len(opts.Labels) > 0 {
			node.Label = opts.Labels[rng.IntN(len(opts.Labels))]
		}
		_ = t.AddNode(node)
		if i >= roots {
			parent := opts.Prefix + strconv.Itoa(rng.IntN(i))
			_ = t.AddEdge(parent, node.ID)
		}
	}
	return t
}
