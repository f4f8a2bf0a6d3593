package solver

import "github.com/matzehuels/treematch/pkg/balanced"

// iterative evaluates the recurrences top-down on an explicit work stack.
//
// A frame is visited twice. The first visit pushes every unsolved
// subproblem the cell depends on and marks the frame as returning; by the
// time the frame is on top again all of them are solved, because each was
// pushed above it. Subproblems strictly shrink, so no frame waits on itself.
type iterative struct{}

type frame struct {
	key       spanPair
	returning bool
}

// run drives the work stack. solved reports whether a key is memoized,
// deps appends a key's dependencies and solve computes and stores a cell.
func (iterative) run(root spanPair, solved func(spanPair) bool, deps func([]spanPair, spanPair) []spanPair, solve func(spanPair)) {
	stack := []frame{{key: root}}
	var buf []spanPair
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.key.empty() || solved(top.key) {
			stack = stack[:len(stack)-1]
			continue
		}
		if top.returning {
			stack = stack[:len(stack)-1]
			solve(top.key)
			continue
		}
		stack[len(stack)-1].returning = true
		buf = deps(buf[:0], top.key)
		for _, d := range buf {
			if !d.empty() && !solved(d) {
				stack = append(stack, frame{key: d})
			}
		}
	}
}

func (it iterative) embedding(p *problem) embedLookup {
	memo := make(map[spanPair]embedCell)
	get := func(s1, s2 balanced.Span) float64 {
		return memo[spanPair{s1, s2}].value
	}
	it.run(spanPair{p.root1, p.root2},
		func(k spanPair) bool { _, ok := memo[k]; return ok },
		func(dst []spanPair, k spanPair) []spanPair { return p.embedDeps(dst, k.s1, k.s2) },
		func(k spanPair) { memo[k] = p.embedStep(k.s1, k.s2, get) },
	)
	return func(s1, s2 balanced.Span) embedCell { return memo[spanPair{s1, s2}] }
}

func (it iterative) isomorphism(p *problem) isoLookup {
	memo := make(map[spanPair]isoCell)
	get := func(s1, s2 balanced.Span) isoCell {
		return memo[spanPair{s1, s2}]
	}
	it.run(spanPair{p.root1, p.root2},
		func(k spanPair) bool { _, ok := memo[k]; return ok },
		func(dst []spanPair, k spanPair) []spanPair { return p.isoDeps(dst, k.s1, k.s2) },
		func(k spanPair) { memo[k] = p.isoStep(k.s1, k.s2, get) },
	)
	return func(s1, s2 balanced.Span) isoCell { return memo[spanPair{s1, s2}] }
}
