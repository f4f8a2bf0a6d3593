// Package subtree finds maximum common ordered subtrees of two forests.
//
// Both trees are encoded into one token space, the balanced sequences are
// compared by [solver.Embedding] or [solver.Isomorphism], and the two
// witness subsequences are decoded back into trees:
//
//	res, err := subtree.MaximumCommonEmbedding(t1, t2, subtree.DefaultOptions())
//	fmt.Println(res.Value)
//	fmt.Print(tree.Format(res.Subtree1))
//
// With [AffinityEq] the two result trees always have the same topology.
// With a custom affinity the two sides may legitimately differ.
package subtree

import (
	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/solver"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Options configures a comparison.
type Options struct {
	// Affinity scores node pairs. Nil compares topology only; use
	// DefaultOptions for ID equality.
	Affinity NodeAffinity
	// Strategy selects the solver engine.
	Strategy solver.Strategy
	// TokenKind selects the sequence encoding.
	TokenKind balanced.TokenKind
	// Anonymous gives result nodes fresh integer IDs instead of the IDs of
	// the input nodes.
	Anonymous bool
}

// DefaultOptions matches nodes by ID with automatic strategy and encoding.
func DefaultOptions() Options {
	return Options{
		Affinity:  AffinityEq,
		Strategy:  solver.Auto,
		TokenKind: balanced.Auto,
	}
}

// NodePair is one matched node, by ID in each input tree.
type NodePair struct {
	Node1 string `json:"node1"`
	Node2 string `json:"node2"`
}

// Result is a maximum common subtree pair.
type Result struct {
	Subtree1, Subtree2 *tree.Tree
	Value              float64
	Pairs              []NodePair
	Strategy           solver.Strategy    // engine that ran
	TokenKind          balanced.TokenKind // encoding that was used
}

type solveFunc func(seq1, seq2 balanced.Sequence, openToClose map[balanced.Token]balanced.Token, aff solver.Affinity, strategy solver.Strategy) (*solver.Solution, error)

// MaximumCommonEmbedding returns the maximum common ordered embedding of two
// forests: subtrees of t1 and t2 with the same shape, obtained by deleting
// nodes (contracting edges) anywhere.
//
// Inputs that are not ordered forests fail with UNSUPPORTED_GRAPH_TYPE and
// empty inputs with POINTLESS_COMPARISON.
func MaximumCommonEmbedding(t1, t2 *tree.Tree, opts Options) (*Result, error) {
	return reduce(t1, t2, opts, solver.Embedding)
}

// MaximumCommonIsomorphism returns the maximum common ordered isomorphism of
// two forests: induced subtrees of t1 and t2 with the same shape. Failures
// are as for [MaximumCommonEmbedding].
func MaximumCommonIsomorphism(t1, t2 *tree.Tree, opts Options) (*Result, error) {
	return reduce(t1, t2, opts, solver.Isomorphism)
}

func reduce(t1, t2 *tree.Tree, opts Options, solve solveFunc) (*Result, error) {
	for i, t := range []*tree.Tree{t1, t2} {
		if t == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "tree%d is nil", i+1)
		}
		if err := t.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupportedGraphType, err, "tree%d is not an ordered forest", i+1)
		}
	}
	if t1.NodeCount() == 0 || t2.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodePointlessComparison,
			"cannot compare against an empty tree (%d and %d nodes)", t1.NodeCount(), t2.NodeCount())
	}

	sess := balanced.NewSession(opts.TokenKind, t1.NodeCount()+t2.NodeCount())
	seq1, err := balanced.Encode(t1, sess)
	if err != nil {
		return nil, err
	}
	seq2, err := balanced.Encode(t2, sess)
	if err != nil {
		return nil, err
	}

	sol, err := solve(seq1, seq2, sess.OpenToClose, lift(opts.Affinity, sess.OpenToNode), opts.Strategy)
	if err != nil {
		return nil, err
	}

	openToNode := sess.OpenToNode
	if opts.Anonymous {
		openToNode = nil
	}
	sub1, err := balanced.Decode(sol.Seq1, sess.OpenToClose, openToNode)
	if err != nil {
		return nil, err
	}
	sub2, err := balanced.Decode(sol.Seq2, sess.OpenToClose, openToNode)
	if err != nil {
		return nil, err
	}

	pairs := make([]NodePair, len(sol.Pairs))
	for i, p := range sol.Pairs {
		pairs[i] = NodePair{
			Node1: sess.OpenToNode[seq1[p.P1]].ID,
			Node2: sess.OpenToNode[seq2[p.P2]].ID,
		}
	}
	return &Result{
		Subtree1:  sub1,
		Subtree2:  sub2,
		Value:     sol.Value,
		Pairs:     pairs,
		Strategy:  sol.Strategy,
		TokenKind: sess.Kind,
	}, nil
}
