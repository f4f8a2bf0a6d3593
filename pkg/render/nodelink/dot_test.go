package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

func chain(ids ...string) *tree.Tree {
	t := tree.New(nil)
	for i, id := range ids {
		_ = t.AddNode(tree.Node{ID: id})
		if i > 0 {
			_ = t.AddEdge(ids[i-1], id)
		}
	}
	return t
}

func TestToDOT(t *testing.T) {
	t1 := chain("a", "b", "c")
	t2 := chain("a", "c")
	pairs := []subtree.NodePair{{Node1: "a", Node2: "a"}, {Node1: "c", Node2: "c"}}

	dot := ToDOT(t1, t2, pairs, Options{ShowPairs: true, Title1: "left"})

	for _, want := range []string{
		"digraph G {",
		"subgraph cluster_1",
		"subgraph cluster_2",
		`label="left"`,
		`label="tree 2"`,
		`"1:a" -> "1:b";`,
		`"2:a" -> "2:c";`,
		`"1:c" -> "2:c" [style=dashed`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	// b is unmatched and drawn dashed
	if !strings.Contains(dot, `"1:b" [label="b", style="rounded,filled,dashed"`) {
		t.Errorf("unmatched node not dashed:\n%s", dot)
	}
}

func TestToDOTWithoutPairs(t *testing.T) {
	t1 := chain("a")
	pairs := []subtree.NodePair{{Node1: "a", Node2: "a"}}
	dot := ToDOT(t1, t1, pairs, Options{})
	if strings.Contains(dot, "style=dashed, color=") {
		t.Errorf("pair links drawn without ShowPairs:\n%s", dot)
	}
}

func TestFmtLabelDetailed(t *testing.T) {
	n := tree.Node{ID: "x", Label: "root", Meta: tree.Metadata{"b": 2, "a": 1}}
	got := fmtLabel(n, true)
	want := "root\nid: x\na: 1\nb: 2"
	if got != want {
		t.Errorf("fmtLabel = %q, want %q", got, want)
	}
	if got := fmtLabel(n, false); got != "root" {
		t.Errorf("fmtLabel(plain) = %q", got)
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(chain("a", "b"), chain("a"), []subtree.NodePair{{Node1: "a", Node2: "a"}}, Options{ShowPairs: true})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.80s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("SVG without viewBox changed: %s", got)
	}
}
