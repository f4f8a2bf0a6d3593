package solver

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/tree"
)

var concrete = Available()

type solveFunc func(seq1, seq2 balanced.Sequence, openToClose map[balanced.Token]balanced.Token, aff Affinity, strategy Strategy) (*Solution, error)

var modes = map[string]solveFunc{
	"embedding":   Embedding,
	"isomorphism": Isomorphism,
}

func pairsOf(t *testing.T, s string) map[balanced.Token]balanced.Token {
	t.Helper()
	p, err := balanced.Pairs(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestScenarios(t *testing.T) {
	const (
		long1 = "0010010010111100001011011011"
		long2 = "001000101101110001000100101110111011"
	)
	tests := []struct {
		name       string
		seq1, seq2 string
		pairs      string
		mode       string
		want       float64
		witness1   string
		witness2   string
	}{
		{"brackets embedding", "[][[]][]", "[[]][[]]", "[]", "embedding", 3, "[[]][]", "[[]][]"},
		{"brackets isomorphism", "[][[]][]", "[[]][[]]", "[]", "isomorphism", 3, "[[]][]", "[[]][]"},
		{"binary embedding", long1, long2, "01", "embedding", 13,
			"00100010111100001011011011", "00100010111100001011011011"},
		{"binary isomorphism", long1, long2, "01", "isomorphism", 12,
			"001000101111000010111011", "001000101111000010111011"},
	}
	for _, tt := range tests {
		for _, s := range concrete {
			t.Run(tt.name+"/"+s.String(), func(t *testing.T) {
				sol, err := modes[tt.mode](balanced.ParseString(tt.seq1), balanced.ParseString(tt.seq2), pairsOf(t, tt.pairs), Eq, s)
				if err != nil {
					t.Fatal(err)
				}
				if sol.Value != tt.want {
					t.Errorf("Value = %v, want %v", sol.Value, tt.want)
				}
				if got := sol.Seq1.String(); got != tt.witness1 {
					t.Errorf("Seq1 = %q, want %q", got, tt.witness1)
				}
				if got := sol.Seq2.String(); got != tt.witness2 {
					t.Errorf("Seq2 = %q, want %q", got, tt.witness2)
				}
				if sol.Strategy != s {
					t.Errorf("Strategy = %v, want %v", sol.Strategy, s)
				}
			})
		}
	}
}

func TestPointlessComparison(t *testing.T) {
	p := pairsOf(t, "[]")
	for name, solve := range modes {
		for _, in := range [][2]string{{"", "[]"}, {"[]", ""}, {"", ""}} {
			_, err := solve(balanced.ParseString(in[0]), balanced.ParseString(in[1]), p, Eq, Iter)
			if !errors.Is(err, errors.ErrCodePointlessComparison) {
				t.Errorf("%s(%q, %q) = %v, want POINTLESS_COMPARISON", name, in[0], in[1], err)
			}
		}
	}
}

func TestUnbalancedInput(t *testing.T) {
	_, err := Embedding(balanced.ParseString("[[]"), balanced.ParseString("[]"), pairsOf(t, "[]"), Eq, Iter)
	if !errors.Is(err, errors.ErrCodeUnbalancedSequence) {
		t.Errorf("Embedding(unbalanced) = %v, want UNBALANCED_SEQUENCE", err)
	}
}

func TestNoMatchIsZero(t *testing.T) {
	p := pairsOf(t, "[]()")
	for name, solve := range modes {
		sol, err := solve(balanced.ParseString("[]"), balanced.ParseString("()"), p, Eq, Auto)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if sol.Value != 0 || len(sol.Seq1) != 0 || len(sol.Seq2) != 0 || len(sol.Pairs) != 0 {
			t.Errorf("%s = %+v, want zero value and empty witnesses", name, sol)
		}
	}
}

func TestNilAffinityMatchesAnything(t *testing.T) {
	p := pairsOf(t, "[]()")
	sol, err := Embedding(balanced.ParseString("[[]]"), balanced.ParseString("(())"), p, nil, Iter)
	if err != nil {
		t.Fatal(err)
	}
	if sol.Value != 2 {
		t.Errorf("Value = %v, want 2", sol.Value)
	}
}

func TestWeightedAffinity(t *testing.T) {
	// '(' pairs are worth 5, '[' pairs 1; a single '(' match beats two '['.
	p := pairsOf(t, "[]()")
	aff := func(a, b balanced.Token) float64 {
		switch {
		case a != b:
			return 0
		case a == '(':
			return 5
		default:
			return 1
		}
	}
	for _, s := range concrete {
		sol, err := Embedding(balanced.ParseString("[[]]()"), balanced.ParseString("()[[]]"), p, aff, s)
		if err != nil {
			t.Fatal(err)
		}
		if sol.Value != 5 {
			t.Errorf("%v: Value = %v, want 5", s, sol.Value)
		}
		if got := sol.Seq1.String(); got != "()" {
			t.Errorf("%v: Seq1 = %q, want ()", s, got)
		}
	}
}

func TestEmbeddingContractsEdges(t *testing.T) {
	// a(b(c)) against a(c): embedding may skip b, isomorphism may not.
	p := pairsOf(t, "axbycz")
	s1, s2 := balanced.ParseString("abczyx"), balanced.ParseString("aczx")
	emb, err := Embedding(s1, s2, p, Eq, Iter)
	if err != nil {
		t.Fatal(err)
	}
	iso, err := Isomorphism(s1, s2, p, Eq, Iter)
	if err != nil {
		t.Fatal(err)
	}
	if emb.Value != 2 || iso.Value != 1 {
		t.Errorf("embedding = %v, isomorphism = %v; want 2 and 1", emb.Value, iso.Value)
	}
	if got := emb.Seq1.String(); got != "aczx" {
		t.Errorf("embedding Seq1 = %q, want aczx", got)
	}
}

func TestChainIter(t *testing.T) {
	const depth = 300
	p := pairsOf(t, "[]")
	deep := balanced.ParseString(strings.Repeat("[", depth) + strings.Repeat("]", depth))
	small := balanced.ParseString("[[[]]]")
	for name, solve := range modes {
		sol, err := solve(deep, small, p, Eq, Iter)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if sol.Value != 3 {
			t.Errorf("%s: Value = %v, want 3", name, sol.Value)
		}
	}
}

func TestDeepChainsIter(t *testing.T) {
	const depth = 400
	p := pairsOf(t, "[]")
	chain := balanced.ParseString(strings.Repeat("[", depth) + strings.Repeat("]", depth))
	for name, solve := range modes {
		sol, err := solve(chain, chain, p, Eq, Iter)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if sol.Value != depth {
			t.Errorf("%s: Value = %v, want %d", name, sol.Value, depth)
		}
		if len(sol.Pairs) != depth {
			t.Errorf("%s: %d pairs, want %d", name, len(sol.Pairs), depth)
		}
	}
}

func TestPairsAreOrdered(t *testing.T) {
	sol, err := Embedding(balanced.ParseString("[][[]][]"), balanced.ParseString("[[]][[]]"), pairsOf(t, "[]"), Eq, Iter)
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{{2, 0}, {3, 1}, {6, 5}}
	if diff := cmp.Diff(want, sol.Pairs); diff != "" {
		t.Errorf("Pairs mismatch [-want,+got]:\n%s", diff)
	}
}

// randomBrackets encodes a random ordered tree as a bracket string, with
// each node's label choosing its bracket kind.
func randomBrackets(rng *rand.Rand, n int) string {
	tr := tree.Random(n, rng, tree.RandomOptions{Labels: []string{"()", "[]"}, Roots: 1 + rng.IntN(2)})
	var sb strings.Builder
	_ = tr.Walk(func(v tree.Visit, node *tree.Node, _ int) error {
		sb.WriteByte(node.Label[v])
		return nil
	})
	return sb.String()
}

// parents maps every opener position to the position of its parent opener,
// or -1 for roots.
func parents(seq balanced.Sequence, p map[balanced.Token]balanced.Token) map[int]int {
	out := make(map[int]int)
	var stack []int
	for i, tok := range seq {
		if _, ok := p[tok]; ok {
			out[i] = -1
			if len(stack) > 0 {
				out[i] = stack[len(stack)-1]
			}
			stack = append(stack, i)
			continue
		}
		stack = stack[:len(stack)-1]
	}
	return out
}

// nearest returns the closest proper ancestor of pos in selected, or -1.
func nearest(par map[int]int, selected map[int]bool, pos int) int {
	for a := par[pos]; a != -1; a = par[a] {
		if selected[a] {
			return a
		}
	}
	return -1
}

// checkWitness verifies that the matched pairs form a consistent
// topology-preserving mapping, and for induced matches that every matched
// node's parent is matched (or neither side has a matched ancestor).
func checkWitness(t *testing.T, s1, s2 balanced.Sequence, p map[balanced.Token]balanced.Token, sol *Solution, induced bool) {
	t.Helper()
	par1, par2 := parents(s1, p), parents(s2, p)
	sel1, sel2 := make(map[int]bool), make(map[int]bool)
	to2 := make(map[int]int)
	for _, pr := range sol.Pairs {
		sel1[pr.P1], sel2[pr.P2] = true, true
		to2[pr.P1] = pr.P2
	}
	for _, pr := range sol.Pairs {
		if s1[pr.P1] != s2[pr.P2] {
			t.Errorf("pair %v matches %q with %q", pr, rune(s1[pr.P1]), rune(s2[pr.P2]))
		}
		a1, a2 := nearest(par1, sel1, pr.P1), nearest(par2, sel2, pr.P2)
		if (a1 == -1) != (a2 == -1) || (a1 != -1 && to2[a1] != a2) {
			t.Errorf("pair %v: matched ancestors %d and %d disagree", pr, a1, a2)
		}
		if induced && a1 != -1 && (par1[pr.P1] != a1 || par2[pr.P2] != a2) {
			t.Errorf("pair %v skips an unmatched parent", pr)
		}
	}
	if int(sol.Value) != len(sol.Pairs) {
		t.Errorf("Value = %v with %d pairs", sol.Value, len(sol.Pairs))
	}
	d1, err := balanced.Decode(sol.Seq1, p, nil)
	if err != nil {
		t.Fatalf("Decode(Seq1): %v", err)
	}
	d2, err := balanced.Decode(sol.Seq2, p, nil)
	if err != nil {
		t.Fatalf("Decode(Seq2): %v", err)
	}
	if !tree.Isomorphic(d1, d2) {
		t.Errorf("witness topologies differ: %q vs %q", sol.Seq1, sol.Seq2)
	}
}

func TestRandomProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	p := pairsOf(t, "()[]")
	for trial := range 150 {
		s1 := balanced.ParseString(randomBrackets(rng, 1+rng.IntN(12)))
		s2 := balanced.ParseString(randomBrackets(rng, 1+rng.IntN(12)))

		values := make(map[string][]float64)
		for name, solve := range modes {
			for _, s := range concrete {
				sol, err := solve(s1, s2, p, Eq, s)
				if err != nil {
					t.Fatalf("trial %d %s/%v: %v", trial, name, s, err)
				}
				checkWitness(t, s1, s2, p, sol, name == "isomorphism")

				swapped, err := solve(s2, s1, p, Eq, s)
				if err != nil {
					t.Fatal(err)
				}
				if swapped.Value != sol.Value {
					t.Errorf("trial %d %s/%v: value %v, swapped %v", trial, name, s, sol.Value, swapped.Value)
				}
				values[name] = append(values[name], sol.Value)
			}
			if v := values[name]; slices.Min(v) != slices.Max(v) {
				t.Errorf("trial %d %s: strategies disagree: %v (%q vs %q)", trial, name, v, s1, s2)
			}
		}
		if values["embedding"][0] < values["isomorphism"][0] {
			t.Errorf("trial %d: embedding %v < isomorphism %v", trial, values["embedding"][0], values["isomorphism"][0])
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{Auto, Iter, Recurse, IterNative} {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStrategy("gpu"); !errors.Is(err, errors.ErrCodeUnknownImplementation) {
		t.Errorf("ParseStrategy(gpu) = %v, want UNKNOWN_IMPLEMENTATION", err)
	}
}

func TestResolve(t *testing.T) {
	s, err := Resolve(Auto)
	if err != nil {
		t.Fatalf("Resolve(auto) = %v", err)
	}
	if !slices.Contains(Available(), s) {
		t.Errorf("Resolve(auto) = %v, not in %v", s, Available())
	}
	if _, err := Resolve(Strategy(42)); !errors.Is(err, errors.ErrCodeUnknownImplementation) {
		t.Errorf("Resolve(42) = %v, want UNKNOWN_IMPLEMENTATION", err)
	}
	if got, _ := Resolve(Recurse); got != Recurse {
		t.Errorf("Resolve(recurse) = %v", got)
	}
}
