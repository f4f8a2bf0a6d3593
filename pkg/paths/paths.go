// Package paths compares collections of slash-separated paths (file trees,
// URL routes, dotted module names) as ordered trees.
//
// Every distinct prefix becomes a node whose ID is the joined prefix, so two
// path trees match exactly where their prefixes agree.
package paths

import (
	"strings"
	"unicode"

	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

// FromPaths builds a path tree. Prefixes are created in first-seen order,
// so child order follows the input order. Empty components (leading, double
// or trailing separators) are skipped. Paths containing control characters
// are rejected with INVALID_PATH.
func FromPaths(paths []string, sep string) (*tree.Tree, error) {
	if err := errors.ValidateSeparator(sep); err != nil {
		return nil, err
	}
	t := tree.New(tree.Metadata{"separator": sep})
	for _, p := range paths {
		if strings.IndexFunc(p, unicode.IsControl) >= 0 {
			return nil, errors.New(errors.ErrCodeInvalidPath, "path %q contains control characters", p)
		}
		parent := ""
		for _, part := range strings.Split(p, sep) {
			if part == "" {
				continue
			}
			id := part
			if parent != "" {
				id = parent + sep + part
			}
			if _, ok := t.Node(id); !ok {
				if err := t.AddNode(tree.Node{ID: id, Label: part}); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "path %q", p)
				}
				if parent != "" {
					_ = t.AddEdge(parent, id)
				}
			}
			parent = id
		}
	}
	return t, nil
}

// ToPaths returns the root-to-leaf paths of a path tree, in tree order.
// Node IDs already hold the full path.
func ToPaths(t *tree.Tree) []string {
	var out []string
	_ = t.Walk(func(v tree.Visit, n *tree.Node, _ int) error {
		if v == tree.Enter && len(t.Children(n.ID)) == 0 {
			out = append(out, n.ID)
		}
		return nil
	})
	return out
}

// Result holds the common paths of both sides.
type Result struct {
	Paths1 []string `json:"paths1"`
	Paths2 []string `json:"paths2"`
	Value  float64  `json:"value"`
}

// MaximumCommonPathEmbedding finds the largest common embedding of two path
// collections under prefix equality and returns the leaf paths of the
// embedded subtree on each side. opts.Affinity is ignored; prefixes are
// matched by ID.
//
//	MaximumCommonPathEmbedding([]string{"root/suffix1"}, []string{"root/suffix2"}, "/", opts)
//	// Paths1 = Paths2 = ["root"]
func MaximumCommonPathEmbedding(paths1, paths2 []string, sep string, opts subtree.Options) (*Result, error) {
	t1, err := FromPaths(paths1, sep)
	if err != nil {
		return nil, err
	}
	t2, err := FromPaths(paths2, sep)
	if err != nil {
		return nil, err
	}
	opts.Affinity = subtree.AffinityEq
	opts.Anonymous = false
	res, err := subtree.MaximumCommonEmbedding(t1, t2, opts)
	if err != nil {
		return nil, err
	}
	return &Result{
		Paths1: ToPaths(res.Subtree1),
		Paths2: ToPaths(res.Subtree2),
		Value:  res.Value,
	}, nil
}
