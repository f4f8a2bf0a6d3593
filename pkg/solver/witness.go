package solver

// embedWitness walks the recorded moves from the root cell and collects the
// matched opener pairs. It uses an explicit stack for every strategy.
func embedWitness(p *problem, cells embedLookup) []Pair {
	var pairs []Pair
	stack := []spanPair{{p.root1, p.root2}}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if k.empty() {
			continue
		}
		c := cells(k.s1, k.s2)
		if c.value <= 0 {
			continue
		}
		d1, d2 := p.ix1.Decompose(k.s1), p.ix2.Decompose(k.s2)
		switch c.move {
		case moveDrop1:
			stack = append(stack, spanPair{d1.HeadTail, k.s2})
		case moveDrop2:
			stack = append(stack, spanPair{k.s1, d2.HeadTail})
		case moveMatch:
			pairs = append(pairs, Pair{d1.A, d2.A})
			stack = append(stack, spanPair{d1.Head, d2.Head}, spanPair{d1.Tail, d2.Tail})
		}
	}
	return pairs
}

// isoWitness is embedWitness for the isomorphism tables. Frames carry
// whether the LEVEL or the ANY solution of their cell is being followed.
func isoWitness(p *problem, cells isoLookup) []Pair {
	type frame struct {
		spanPair
		level bool
	}

	var pairs []Pair
	stack := []frame{{spanPair: spanPair{p.root1, p.root2}}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.empty() {
			continue
		}
		c := cells(f.s1, f.s2)
		d1, d2 := p.ix1.Decompose(f.s1), p.ix2.Decompose(f.s2)
		if !f.level {
			if c.any <= 0 {
				continue
			}
			switch c.anyMove {
			case moveLevel:
				stack = append(stack, frame{f.spanPair, true})
			case moveHead1:
				stack = append(stack, frame{spanPair{d1.Head, f.s2}, false})
			case moveTail1:
				stack = append(stack, frame{spanPair{d1.Tail, f.s2}, false})
			case moveHead2:
				stack = append(stack, frame{spanPair{f.s1, d2.Head}, false})
			case moveTail2:
				stack = append(stack, frame{spanPair{f.s1, d2.Tail}, false})
			}
			continue
		}
		if c.level <= 0 {
			continue
		}
		switch c.levelMove {
		case moveShift2:
			stack = append(stack, frame{spanPair{f.s1, d2.Tail}, true})
		case moveShift1:
			stack = append(stack, frame{spanPair{d1.Tail, f.s2}, true})
		case moveMatch:
			pairs = append(pairs, Pair{d1.A, d2.A})
			stack = append(stack,
				frame{spanPair{d1.Head, d2.Head}, true},
				frame{spanPair{d1.Tail, d2.Tail}, true},
			)
		}
	}
	return pairs
}
