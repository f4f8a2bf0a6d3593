package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/errors"
	treeio "github.com/matzehuels/treematch/pkg/io"
	"github.com/matzehuels/treematch/pkg/tree"
)

func TestSeqFlagsParse(t *testing.T) {
	f := seqFlags{brackets: defaultBrackets}
	seq, pairs, err := f.parse("[()]")
	if err != nil {
		t.Fatal(err)
	}
	if seq.String() != "[()]" {
		t.Errorf("seq = %q", seq.String())
	}
	if pairs['['] != ']' || pairs['('] != ')' || len(pairs) != 3 {
		t.Errorf("pairs = %v", pairs)
	}

	f = seqFlags{numeric: true}
	seq, pairs, err = f.parse(" 1 2 -2  -1 ")
	if err != nil {
		t.Fatal(err)
	}
	want := balanced.Sequence{1, 2, -2, -1}
	if len(seq) != len(want) {
		t.Fatalf("seq = %v, want %v", seq, want)
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("seq[%d] = %d, want %d", i, seq[i], want[i])
		}
	}
	if pairs[1] != -1 || pairs[2] != -2 || len(pairs) != 2 {
		t.Errorf("pairs = %v", pairs)
	}
}

func TestSeqFlagsParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags seqFlags
		arg   string
	}{
		{"odd brackets", seqFlags{brackets: "(()"}, "()"},
		{"empty brackets", seqFlags{}, "()"},
		{"zero token", seqFlags{numeric: true}, "1 0 -1"},
		{"not a number", seqFlags{numeric: true}, "1 x -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.flags.parse(tt.arg); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestSeqCommand(t *testing.T) {
	for _, args := range [][]string{
		{"seq", "(()())", "(())"},
		{"seq", "--iso", "-s", "iter", "[()()]", "[(())]"},
		{"seq", "--numeric", "1 2 -2 -1", "1 -1"},
	} {
		if err := execute(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
	if err := execute(t, "seq", "", "()"); !errors.Is(err, errors.ErrCodePointlessComparison) {
		t.Errorf("empty sequence: %v", err)
	}
	if err := execute(t, "seq", "(()", "()"); !errors.Is(err, errors.ErrCodeUnbalancedSequence) {
		t.Errorf("unbalanced sequence: %v", err)
	}
}

func TestDecodeCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tree.yaml")
	if err := execute(t, "decode", "(()[])", "-o", out); err != nil {
		t.Fatal(err)
	}
	got, err := treeio.Import(out)
	if err != nil {
		t.Fatal(err)
	}
	want := tree.New(nil)
	for _, id := range []string{"0", "1", "2"} {
		_ = want.AddNode(tree.Node{ID: id})
	}
	_ = want.AddEdge("0", "1")
	_ = want.AddEdge("0", "2")
	if !tree.Equal(got, want) {
		t.Errorf("decoded tree =\n%swant\n%s", tree.Format(got), tree.Format(want))
	}

	if err := execute(t, "decode", "(()"); !errors.Is(err, errors.ErrCodeUnbalancedSequence) {
		t.Errorf("unbalanced: %v", err)
	}
}

func TestEncodeCommand(t *testing.T) {
	t1, t2 := testTrees(t)
	if err := execute(t, "encode", t1, t2, "--tokens"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "encode", t1, "--token-kind", "number"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "encode", t1, "--token-kind", "hex"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad token kind: %v", err)
	}
}
