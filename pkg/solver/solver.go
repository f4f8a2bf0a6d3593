package solver

import (
	"slices"

	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/errors"
)

// Affinity scores a pair of opening tokens, one from each sequence. Zero
// (or less) means the two may never be matched; a positive weight is added
// to the objective when they are. A nil Affinity matches anything with
// weight 1.
type Affinity func(a, b balanced.Token) float64

// Eq is the token equality affinity.
func Eq(a, b balanced.Token) float64 {
	if a == b {
		return 1
	}
	return 0
}

// Pair is one matched node: the positions of the two matched openers in the
// first and second input sequence.
type Pair struct {
	P1, P2 int
}

// Solution is an optimal common balanced subsequence.
//
// Seq1 and Seq2 are subsequences of the inputs with the same topology; Pairs
// lists the matched openers in sequence order and Value is the sum of their
// affinities.
type Solution struct {
	Seq1, Seq2 balanced.Sequence
	Pairs      []Pair
	Value      float64
	Strategy   Strategy
}

// Embedding computes the longest common balanced embedding of seq1 and seq2:
// the best pair of subsequences obtainable by deleting matched open/close
// pairs at any depth, so that edges may be contracted. openToClose names the
// opener of every pair; tokens absent from it are closers.
//
// Either sequence being empty fails with POINTLESS_COMPARISON.
func Embedding(seq1, seq2 balanced.Sequence, openToClose map[balanced.Token]balanced.Token, aff Affinity, strategy Strategy) (*Solution, error) {
	p, s, err := setup(seq1, seq2, openToClose, aff, strategy)
	if err != nil {
		return nil, err
	}
	cells := engines[s].embedding(p)
	root := cells(p.root1, p.root2)
	return p.solution(s, root.value, embedWitness(p, cells)), nil
}

// Isomorphism computes the longest common balanced isomorphism of seq1 and
// seq2: the best common subsequence that corresponds to an induced subtree
// of both inputs, without edge contraction. Arguments and failures are as for
// [Embedding].
func Isomorphism(seq1, seq2 balanced.Sequence, openToClose map[balanced.Token]balanced.Token, aff Affinity, strategy Strategy) (*Solution, error) {
	p, s, err := setup(seq1, seq2, openToClose, aff, strategy)
	if err != nil {
		return nil, err
	}
	cells := engines[s].isomorphism(p)
	root := cells(p.root1, p.root2)
	return p.solution(s, root.any, isoWitness(p, cells)), nil
}

func setup(seq1, seq2 balanced.Sequence, openToClose map[balanced.Token]balanced.Token, aff Affinity, strategy Strategy) (*problem, Strategy, error) {
	if len(seq1) == 0 || len(seq2) == 0 {
		return nil, strategy, errors.New(errors.ErrCodePointlessComparison,
			"cannot compare against an empty sequence (lengths %d and %d)", len(seq1), len(seq2))
	}
	s, err := Resolve(strategy)
	if err != nil {
		return nil, s, err
	}
	ix1, err := balanced.NewIndex(seq1, openToClose)
	if err != nil {
		return nil, s, err
	}
	ix2, err := balanced.NewIndex(seq2, openToClose)
	if err != nil {
		return nil, s, err
	}
	return &problem{
		ix1:   ix1,
		ix2:   ix2,
		aff:   aff,
		root1: ix1.Norm(ix1.Full()),
		root2: ix2.Norm(ix2.Full()),
	}, s, nil
}

// problem is one solve call. Everything it references is owned by the call.
type problem struct {
	ix1, ix2     *balanced.Index
	aff          Affinity
	root1, root2 balanced.Span
}

// weight scores the openers at positions a1 and a2.
func (p *problem) weight(a1, a2 int) float64 {
	if p.aff == nil {
		return 1
	}
	return p.aff(p.ix1.Token(a1), p.ix2.Token(a2))
}

func (p *problem) solution(s Strategy, value float64, pairs []Pair) *Solution {
	slices.SortFunc(pairs, func(a, b Pair) int { return a.P1 - b.P1 })
	o1 := make([]int, len(pairs))
	o2 := make([]int, len(pairs))
	for i, pr := range pairs {
		o1[i], o2[i] = pr.P1, pr.P2
	}
	return &Solution{
		Seq1:     p.ix1.Select(o1),
		Seq2:     p.ix2.Select(o2),
		Pairs:    pairs,
		Value:    value,
		Strategy: s,
	}
}

// spanPair is a memo key: one subsequence of each input.
type spanPair struct {
	s1, s2 balanced.Span
}

func (k spanPair) empty() bool { return k.s1.Empty() || k.s2.Empty() }
