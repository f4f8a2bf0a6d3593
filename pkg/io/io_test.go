package io

import (
	"bytes"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/tree"
)

func sample() *tree.Tree {
	t := tree.New(nil)
	_ = t.AddNode(tree.Node{ID: "app", Meta: tree.Metadata{"version": "1.0"}})
	_ = t.AddNode(tree.Node{ID: "db", Label: "storage"})
	_ = t.AddNode(tree.Node{ID: "auth"})
	_ = t.AddNode(tree.Node{ID: "other"})
	_ = t.AddEdge("app", "db")
	_ = t.AddEdge("app", "auth")
	return t
}

func TestRoundTrip(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			in := sample()
			var buf bytes.Buffer
			if err := Write(in, &buf, f); err != nil {
				t.Fatalf("Write: %v", err)
			}
			out, err := Read(&buf, f)
			if err != nil {
				t.Fatalf("Read: %v\n%s", err, buf.String())
			}
			if !tree.Equal(in, out) {
				t.Errorf("round trip =\n%s\nwant\n%s", tree.Format(out), tree.Format(in))
			}
			n, _ := out.Node("app")
			if n.Meta["version"] != "1.0" {
				t.Errorf("meta lost: %v", n.Meta)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	in := `{
  "nodes": [{"id": "r"}, {"id": "b"}, {"id": "a"}],
  "edges": [{"from": "r", "to": "b"}, {"from": "r", "to": "a"}]
}`
	tr, err := Read(strings.NewReader(in), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Children("r"); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("Children(r) = %v, want edge order [b a]", got)
	}
}

func TestReadYAML(t *testing.T) {
	in := `
nodes:
  - id: r
  - id: c
    label: leaf
edges:
  - from: r
    to: c
`
	tr, err := Read(strings.NewReader(in), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := tr.Node("c"); !ok || n.Label != "leaf" {
		t.Errorf("Node(c) = %v, %v", n, ok)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"empty id", `{"nodes": [{"id": ""}]}`, errors.ErrCodeInvalidInput},
		{"duplicate", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, errors.ErrCodeInvalidInput},
		{"unknown edge", `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}`, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), FormatJSON)
			if !errors.Is(err, tt.code) {
				t.Errorf("Read() = %v, want %s", err, tt.code)
			}
		})
	}
	_, err := Read(strings.NewReader(`{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}`), FormatJSON)
	if !stderrors.Is(err, tree.ErrUnknownChild) {
		t.Errorf("Read() = %v, want wrapped ErrUnknownChild", err)
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"t.json", "t.yml", "t.toml"} {
		path := filepath.Join(dir, name)
		if err := Export(sample(), path); err != nil {
			t.Fatalf("Export(%s): %v", name, err)
		}
		got, err := Import(path)
		if err != nil {
			t.Fatalf("Import(%s): %v", name, err)
		}
		if !tree.Equal(sample(), got) {
			t.Errorf("Import(%s) differs from exported tree", name)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	if _, err := FormatFromPath("tree.xml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("FormatFromPath(xml) = %v, want INVALID_FORMAT", err)
	}
	if _, err := Import(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Import(missing) = %v, want FILE_NOT_FOUND", err)
	}
}
