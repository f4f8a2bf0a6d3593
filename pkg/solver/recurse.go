package solver

import "github.com/matzehuels/treematch/pkg/balanced"

// recursive evaluates the recurrences top-down with native recursion and a
// map memo. Recursion depth grows with the size of the inputs.
type recursive struct{}

func (recursive) embedding(p *problem) embedLookup {
	memo := make(map[spanPair]embedCell)
	var value func(s1, s2 balanced.Span) float64
	value = func(s1, s2 balanced.Span) float64 {
		k := spanPair{s1, s2}
		if k.empty() {
			return 0
		}
		if c, ok := memo[k]; ok {
			return c.value
		}
		c := p.embedStep(s1, s2, value)
		memo[k] = c
		return c.value
	}
	value(p.root1, p.root2)
	return func(s1, s2 balanced.Span) embedCell { return memo[spanPair{s1, s2}] }
}

func (recursive) isomorphism(p *problem) isoLookup {
	memo := make(map[spanPair]isoCell)
	var cell func(s1, s2 balanced.Span) isoCell
	cell = func(s1, s2 balanced.Span) isoCell {
		k := spanPair{s1, s2}
		if k.empty() {
			return isoCell{}
		}
		if c, ok := memo[k]; ok {
			return c
		}
		c := p.isoStep(s1, s2, cell)
		memo[k] = c
		return c
	}
	cell(p.root1, p.root2)
	return func(s1, s2 balanced.Span) isoCell { return memo[spanPair{s1, s2}] }
}
