package balanced

import (
	"slices"
	"sort"

	"github.com/matzehuels/treematch/pkg/errors"
)

// Span names a subsequence of an indexed sequence without copying it.
//
// Span{L, R} holds every opener at a position in [L, R) together with every
// closer in [L, R) whose opener is at or after L. Closers of nodes opened
// before L are dropped, which is what removing a node's opener/closer pair
// does to a balanced sequence. Every sequence reached by repeated head/tail
// decomposition of the full sequence is such a span, so a pair of spans is
// a complete memo key.
type Span struct {
	L, R int
}

// Index is a read-only view of one sequence with its bracket structure
// precomputed. It is safe for concurrent use.
type Index struct {
	seq   Sequence
	match []int // partner position of every token
	next  []int // first opener at or after i; len(seq) if none
	prev  []int // last opener at or before i; -1 if none
	open  []bool
}

// NewIndex checks that seq is balanced under openToClose and precomputes its
// bracket structure. Unbalanced input fails with UNBALANCED_SEQUENCE.
func NewIndex(seq Sequence, openToClose map[Token]Token) (*Index, error) {
	n := len(seq)
	ix := &Index{
		seq:   seq,
		match: make([]int, n),
		next:  make([]int, n+1),
		prev:  make([]int, n),
		open:  make([]bool, n),
	}
	var stack []int
	for i, tok := range seq {
		if _, ok := openToClose[tok]; ok {
			ix.open[i] = true
			stack = append(stack, i)
			continue
		}
		if len(stack) == 0 || openToClose[seq[stack[len(stack)-1]]] != tok {
			return nil, errors.New(errors.ErrCodeUnbalancedSequence, "unexpected closer %d at position %d", tok, i)
		}
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ix.match[i], ix.match[j] = j, i
	}
	if len(stack) > 0 {
		return nil, errors.New(errors.ErrCodeUnbalancedSequence, "%d openers left unclosed", len(stack))
	}
	ix.next[n] = n
	for i := n - 1; i >= 0; i-- {
		if ix.open[i] {
			ix.next[i] = i
		} else {
			ix.next[i] = ix.next[i+1]
		}
	}
	last := -1
	for i := range n {
		if ix.open[i] {
			last = i
		}
		ix.prev[i] = last
	}
	return ix, nil
}

// Len returns the length of the indexed sequence.
func (ix *Index) Len() int { return len(ix.seq) }

// Tokens returns the indexed sequence.
func (ix *Index) Tokens() Sequence { return ix.seq }

// Token returns the token at position i.
func (ix *Index) Token(i int) Token { return ix.seq[i] }

// Match returns the position of the partner of the token at i.
func (ix *Index) Match(i int) int { return ix.match[i] }

// Full returns the span covering the whole sequence.
func (ix *Index) Full() Span { return Span{0, len(ix.seq)} }

// Norm advances L to the first opener of the span and pulls R back to one
// past its last kept closer, so two spans holding the same tokens normalize
// to the same value. Empty spans normalize to Span{R, R}.
//
// Within a span every opener's closer lies before R, so the tokens after
// the last opener p form a run of closers whose openers descend from p
// outward. Their match positions decrease along the run, and the kept ones
// (match >= L) are a prefix of it found by binary search.
func (ix *Index) Norm(s Span) Span {
	if s.L >= s.R {
		return Span{s.R, s.R}
	}
	s.L = ix.next[s.L]
	if s.L >= s.R {
		return Span{s.R, s.R}
	}
	p := ix.prev[s.R-1]
	if ix.match[p] >= s.R {
		return s
	}
	run := s.R - 1 - p
	k := sort.Search(run, func(k int) bool { return ix.match[p+1+k] < s.L })
	s.R = p + 1 + k
	return s
}

// Empty reports whether a normalized span holds no tokens.
func (s Span) Empty() bool { return s.L >= s.R }

// Decomposition is the head/tail split of a non-empty span: A is the
// position of its first opener, B the position of the matching closer.
type Decomposition struct {
	A, B     int
	Head     Span // strictly between A and B
	Tail     Span // after B
	HeadTail Span // head followed by tail
}

// Decompose splits a normalized, non-empty span.
func (ix *Index) Decompose(s Span) Decomposition {
	b := ix.match[s.L]
	return Decomposition{
		A:        s.L,
		B:        b,
		Head:     ix.Norm(Span{s.L + 1, b}),
		Tail:     ix.Norm(Span{b + 1, s.R}),
		HeadTail: ix.Norm(Span{s.L + 1, s.R}),
	}
}

// Slice materializes a span as a token sequence.
func (ix *Index) Slice(s Span) Sequence {
	var out Sequence
	for i := s.L; i < s.R; i++ {
		if ix.open[i] || ix.match[i] >= s.L {
			out = append(out, ix.seq[i])
		}
	}
	return out
}

// Select returns the subsequence made of the given openers and their
// closers, in sequence order. The result is balanced because the closers of
// the kept openers are exactly the kept closers.
func (ix *Index) Select(openers []int) Sequence {
	pos := make([]int, 0, 2*len(openers))
	for _, p := range openers {
		pos = append(pos, p, ix.match[p])
	}
	slices.Sort(pos)
	out := make(Sequence, len(pos))
	for i, p := range pos {
		out[i] = ix.seq[p]
	}
	return out
}

// Spans enumerates every normalized non-empty span reachable from the full
// sequence by head, tail and head-tail decomposition, ordered by decreasing
// L (ties by increasing R). Decomposition strictly increases L, so every
// span comes after all spans it decomposes into.
func (ix *Index) Spans() []Span {
	seen := make(map[Span]bool)
	var out []Span
	stack := []Span{ix.Norm(ix.Full())}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.Empty() || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		d := ix.Decompose(s)
		stack = append(stack, d.Head, d.Tail, d.HeadTail)
	}
	slices.SortFunc(out, func(a, b Span) int {
		if a.L != b.L {
			return b.L - a.L
		}
		return a.R - b.R
	})
	return out
}
