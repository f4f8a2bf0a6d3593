//go:build !purego

package solver

import "github.com/matzehuels/treematch/pkg/balanced"

func init() {
	engines[IterNative] = native{}
}

// nativeMaxCells bounds the dense tables. Larger problems are solved by the
// iterative engine instead.
var nativeMaxCells = 1 << 23

// native fills dense tables bottom-up. Every reachable span of each input
// gets a dense id in dependency order, so the recurrence becomes two nested
// loops over flat slices with no hashing and no stack.
type native struct{}

// spanTable is the dense numbering of one input's reachable spans.
type spanTable struct {
	spans          []balanced.Span
	id             map[balanced.Span]int
	head, tail, ht []int // decomposition ids, -1 for empty spans
	open           []int // position of each span's first opener
}

func newSpanTable(ix *balanced.Index) *spanTable {
	spans := ix.Spans()
	t := &spanTable{
		spans: spans,
		id:    make(map[balanced.Span]int, len(spans)),
		head:  make([]int, len(spans)),
		tail:  make([]int, len(spans)),
		ht:    make([]int, len(spans)),
		open:  make([]int, len(spans)),
	}
	for i, s := range spans {
		t.id[s] = i
	}
	lookup := func(s balanced.Span) int {
		if s.Empty() {
			return -1
		}
		return t.id[s]
	}
	for i, s := range spans {
		d := ix.Decompose(s)
		t.head[i], t.tail[i], t.ht[i], t.open[i] = lookup(d.Head), lookup(d.Tail), lookup(d.HeadTail), d.A
	}
	return t
}

func (t *spanTable) len() int { return len(t.spans) }

// nativeMaxTokens bounds the length of either input. Span enumeration is
// quadratic in the worst case, so long inputs go to the iterative engine
// before spans are enumerated.
var nativeMaxTokens = 1 << 14

// tables numbers the spans of both inputs, or reports false when the dense
// tables would exceed nativeMaxCells. Every opener starts at least one span,
// so half the sequence length bounds the span count from below.
func (native) tables(p *problem) (t1, t2 *spanTable, ok bool) {
	n1, n2 := p.ix1.Len(), p.ix2.Len()
	if n1 > nativeMaxTokens || n2 > nativeMaxTokens || (n1/2)*(n2/2) > nativeMaxCells {
		return nil, nil, false
	}
	t1, t2 = newSpanTable(p.ix1), newSpanTable(p.ix2)
	return t1, t2, t1.len()*t2.len() <= nativeMaxCells
}

func (nt native) embedding(p *problem) embedLookup {
	t1, t2, ok := nt.tables(p)
	if !ok {
		return iterative{}.embedding(p)
	}
	m2 := t2.len()
	value := make([]float64, t1.len()*m2)
	moves := make([]move, len(value))
	get := func(i, j int) float64 {
		if i < 0 || j < 0 {
			return 0
		}
		return value[i*m2+j]
	}
	for i := range t1.len() {
		for j := range m2 {
			v, mv := get(t1.ht[i], j), moveDrop1
			if x := get(i, t2.ht[j]); x > v {
				v, mv = x, moveDrop2
			}
			if w := p.weight(t1.open[i], t2.open[j]); w > 0 {
				if x := get(t1.head[i], t2.head[j]) + get(t1.tail[i], t2.tail[j]) + w; x > v {
					v, mv = x, moveMatch
				}
			}
			value[i*m2+j], moves[i*m2+j] = v, mv
		}
	}
	return func(s1, s2 balanced.Span) embedCell {
		k := t1.id[s1]*m2 + t2.id[s2]
		return embedCell{value: value[k], move: moves[k]}
	}
}

func (nt native) isomorphism(p *problem) isoLookup {
	t1, t2, ok := nt.tables(p)
	if !ok {
		return iterative{}.isomorphism(p)
	}
	m2 := t2.len()
	level := make([]float64, t1.len()*m2)
	anyv := make([]float64, len(level))
	levelMoves := make([]move, len(level))
	anyMoves := make([]move, len(level))
	at := func(tab []float64, i, j int) float64 {
		if i < 0 || j < 0 {
			return 0
		}
		return tab[i*m2+j]
	}
	for i := range t1.len() {
		for j := range m2 {
			lv, lm := at(level, i, t2.tail[j]), moveShift2
			if x := at(level, t1.tail[i], j); x > lv {
				lv, lm = x, moveShift1
			}
			if w := p.weight(t1.open[i], t2.open[j]); w > 0 {
				if x := at(level, t1.head[i], t2.head[j]) + at(level, t1.tail[i], t2.tail[j]) + w; x > lv {
					lv, lm = x, moveMatch
				}
			}
			av, am := lv, moveLevel
			if x := at(anyv, t1.head[i], j); x > av {
				av, am = x, moveHead1
			}
			if x := at(anyv, t1.tail[i], j); x > av {
				av, am = x, moveTail1
			}
			if x := at(anyv, i, t2.head[j]); x > av {
				av, am = x, moveHead2
			}
			if x := at(anyv, i, t2.tail[j]); x > av {
				av, am = x, moveTail2
			}
			k := i*m2 + j
			level[k], levelMoves[k], anyv[k], anyMoves[k] = lv, lm, av, am
		}
	}
	return func(s1, s2 balanced.Span) isoCell {
		k := t1.id[s1]*m2 + t2.id[s2]
		return isoCell{level: level[k], any: anyv[k], levelMove: levelMoves[k], anyMove: anyMoves[k]}
	}
}
