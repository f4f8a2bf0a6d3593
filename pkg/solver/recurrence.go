package solver

import "github.com/matzehuels/treematch/pkg/balanced"

// move records which candidate won a cell, for witness reconstruction.
type move uint8

const (
	moveNone move = iota

	// Embedding and isomorphism LEVEL
	moveMatch // match both first nodes: head×head + tail×tail

	// Embedding
	moveDrop1 // delete the first node of s1: head∪tail1 × s2
	moveDrop2 // delete the first node of s2: s1 × head∪tail2

	// Isomorphism LEVEL
	moveShift2 // s1 × tail2
	moveShift1 // tail1 × s2

	// Isomorphism ANY
	moveLevel // anchored at this level
	moveHead1 // head1 × s2
	moveTail1 // tail1 × s2
	moveHead2 // s1 × head2
	moveTail2 // s1 × tail2
)

type embedCell struct {
	value float64
	move  move
}

// isoCell carries both running solutions of a subproblem: the best match
// anchored at the outermost level and the best match anywhere below.
type isoCell struct {
	level, any         float64
	levelMove, anyMove move
}

// embedLookup and isoLookup return the solved cell of two normalized,
// non-empty spans.
type (
	embedLookup func(s1, s2 balanced.Span) embedCell
	isoLookup   func(s1, s2 balanced.Span) isoCell
)

// engine is one evaluation strategy of the two recurrences.
type engine interface {
	embedding(p *problem) embedLookup
	isomorphism(p *problem) isoLookup
}

// embedStep evaluates the embedding recurrence for one non-empty cell. get
// returns the value of a subproblem and must return 0 for empty spans.
// Candidates are tried in a fixed order and only a strictly better value
// replaces the current best.
func (p *problem) embedStep(s1, s2 balanced.Span, get func(a, b balanced.Span) float64) embedCell {
	d1, d2 := p.ix1.Decompose(s1), p.ix2.Decompose(s2)
	c := embedCell{value: get(d1.HeadTail, s2), move: moveDrop1}
	if v := get(s1, d2.HeadTail); v > c.value {
		c = embedCell{value: v, move: moveDrop2}
	}
	if w := p.weight(d1.A, d2.A); w > 0 {
		if v := get(d1.Head, d2.Head) + get(d1.Tail, d2.Tail) + w; v > c.value {
			c = embedCell{value: v, move: moveMatch}
		}
	}
	return c
}

// embedDeps appends the subproblems embedStep reads.
func (p *problem) embedDeps(dst []spanPair, s1, s2 balanced.Span) []spanPair {
	d1, d2 := p.ix1.Decompose(s1), p.ix2.Decompose(s2)
	dst = append(dst, spanPair{d1.HeadTail, s2}, spanPair{s1, d2.HeadTail})
	if p.weight(d1.A, d2.A) > 0 {
		dst = append(dst, spanPair{d1.Head, d2.Head}, spanPair{d1.Tail, d2.Tail})
	}
	return dst
}

// isoStep evaluates the isomorphism recurrence for one non-empty cell. get
// must return the zero cell for empty spans.
func (p *problem) isoStep(s1, s2 balanced.Span, get func(a, b balanced.Span) isoCell) isoCell {
	d1, d2 := p.ix1.Decompose(s1), p.ix2.Decompose(s2)

	c := isoCell{level: get(s1, d2.Tail).level, levelMove: moveShift2}
	if v := get(d1.Tail, s2).level; v > c.level {
		c.level, c.levelMove = v, moveShift1
	}
	if w := p.weight(d1.A, d2.A); w > 0 {
		if v := get(d1.Head, d2.Head).level + get(d1.Tail, d2.Tail).level + w; v > c.level {
			c.level, c.levelMove = v, moveMatch
		}
	}

	c.any, c.anyMove = c.level, moveLevel
	for _, cand := range [...]struct {
		s1, s2 balanced.Span
		move   move
	}{
		{d1.Head, s2, moveHead1},
		{d1.Tail, s2, moveTail1},
		{s1, d2.Head, moveHead2},
		{s1, d2.Tail, moveTail2},
	} {
		if v := get(cand.s1, cand.s2).any; v > c.any {
			c.any, c.anyMove = v, cand.move
		}
	}
	return c
}

// isoDeps appends the subproblems isoStep reads.
func (p *problem) isoDeps(dst []spanPair, s1, s2 balanced.Span) []spanPair {
	d1, d2 := p.ix1.Decompose(s1), p.ix2.Decompose(s2)
	dst = append(dst,
		spanPair{s1, d2.Tail},
		spanPair{d1.Tail, s2},
		spanPair{d1.Head, s2},
		spanPair{s1, d2.Head},
	)
	if p.weight(d1.A, d2.A) > 0 {
		dst = append(dst, spanPair{d1.Head, d2.Head}, spanPair{d1.Tail, d2.Tail})
	}
	return dst
}
