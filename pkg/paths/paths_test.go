package paths

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

func TestFromPaths(t *testing.T) {
	tr, err := FromPaths([]string{"a/b/c", "a/d", "/a/b/e/", "x"}, "/")
	if err != nil {
		t.Fatal(err)
	}
	want := "╟── a\n╎   ├── b\n╎   │   ├── c\n╎   │   └── e\n╎   └── d\n╙── x\n"
	if got := tree.Format(tr); got != want {
		t.Errorf("FromPaths() =\n%s\nwant\n%s", got, want)
	}
	if n, _ := tr.Node("a/b/e"); n == nil || n.Label != "e" {
		t.Errorf("Node(a/b/e) = %v, want label e", n)
	}
}

func TestToPaths(t *testing.T) {
	in := []string{"a/b/c", "a/d", "x"}
	tr, err := FromPaths(in, "/")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, ToPaths(tr)); diff != "" {
		t.Errorf("ToPaths() mismatch [-want,+got]:\n%s", diff)
	}
}

func TestMaximumCommonPathEmbedding(t *testing.T) {
	tests := []struct {
		name           string
		paths1, paths2 []string
		sep            string
		want1, want2   []string
		value          float64
	}{
		{
			name:   "diverging suffix",
			paths1: []string{"root/suffix1"},
			paths2: []string{"root/suffix2"},
			sep:    "/",
			want1:  []string{"root"},
			want2:  []string{"root"},
			value:  1,
		},
		{
			name:   "shared subtree",
			paths1: []string{"src/pkg/a.go", "src/pkg/b.go", "docs/x.md"},
			paths2: []string{"src/pkg/b.go", "src/cmd/main.go", "docs/x.md"},
			sep:    "/",
			want1:  []string{"src/pkg/b.go", "docs/x.md"},
			want2:  []string{"src/pkg/b.go", "docs/x.md"},
			value:  5,
		},
		{
			name:   "dotted modules",
			paths1: []string{"org.example.core", "org.example.util"},
			paths2: []string{"org.example.util"},
			sep:    ".",
			want1:  []string{"org.example.util"},
			want2:  []string{"org.example.util"},
			value:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := MaximumCommonPathEmbedding(tt.paths1, tt.paths2, tt.sep, subtree.DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want1, res.Paths1); diff != "" {
				t.Errorf("Paths1 mismatch [-want,+got]:\n%s", diff)
			}
			if diff := cmp.Diff(tt.want2, res.Paths2); diff != "" {
				t.Errorf("Paths2 mismatch [-want,+got]:\n%s", diff)
			}
			if res.Value != tt.value {
				t.Errorf("Value = %v, want %v", res.Value, tt.value)
			}
		})
	}
}

func TestInvalidSeparator(t *testing.T) {
	_, err := MaximumCommonPathEmbedding([]string{"a"}, []string{"a"}, "", subtree.DefaultOptions())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty separator = %v, want INVALID_INPUT", err)
	}
}

func TestControlCharacterPath(t *testing.T) {
	_, err := FromPaths([]string{"src/ok", "src/bad\x00name"}, "/")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("control character = %v, want INVALID_PATH", err)
	}
}

func TestEmptyPaths(t *testing.T) {
	_, err := MaximumCommonPathEmbedding(nil, []string{"a"}, "/", subtree.DefaultOptions())
	if !errors.Is(err, errors.ErrCodePointlessComparison) {
		t.Errorf("no paths = %v, want POINTLESS_COMPARISON", err)
	}
}
