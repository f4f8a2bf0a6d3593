package pipeline

import (
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Verify re-checks a match against its inputs and fails with
// INTERNAL_ERROR when:
//
//   - the two subtrees differ in shape or do not have one node per pair;
//   - a pair names a node missing from its input tree;
//   - with ID equality, a pair joins nodes with different IDs;
//   - a subtree edge is not an ancestor relation in the input (embedding)
//     or not a parent relation (isomorphism);
//   - for isomorphism, a subtree root has its input parent in the subtree.
func Verify(t1, t2 *tree.Tree, mode Mode, m *subtree.Result, affinity string) error {
	fail := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInternal, "verify %s: "+format, append([]any{mode}, args...)...)
	}

	if !tree.Isomorphic(m.Subtree1, m.Subtree2) {
		return fail("subtrees differ in shape")
	}
	if n := len(m.Pairs); m.Subtree1.NodeCount() != n || m.Subtree2.NodeCount() != n {
		return fail("%d pairs for %d and %d nodes", n, m.Subtree1.NodeCount(), m.Subtree2.NodeCount())
	}
	for _, p := range m.Pairs {
		if _, ok := t1.Node(p.Node1); !ok {
			return fail("pair node %q not in tree 1", p.Node1)
		}
		if _, ok := t2.Node(p.Node2); !ok {
			return fail("pair node %q not in tree 2", p.Node2)
		}
		if (affinity == "" || affinity == subtree.AffinityNameEq) && p.Node1 != p.Node2 {
			return fail("pair %q/%q breaks ID equality", p.Node1, p.Node2)
		}
	}

	// Subtree nodes are in preorder, as are the pairs.
	for side, s := range []struct {
		sub, in *tree.Tree
		orig    func(subtree.NodePair) string
	}{
		{m.Subtree1, t1, func(p subtree.NodePair) string { return p.Node1 }},
		{m.Subtree2, t2, func(p subtree.NodePair) string { return p.Node2 }},
	} {
		orig := make(map[string]string, len(m.Pairs))
		for i, n := range s.sub.Nodes() {
			orig[n.ID] = s.orig(m.Pairs[i])
		}
		inSub := make(map[string]bool, len(orig))
		for _, id := range orig {
			inSub[id] = true
		}
		for _, n := range s.sub.Nodes() {
			child := orig[n.ID]
			parent, ok := s.sub.Parent(n.ID)
			if !ok {
				if mode == ModeIsomorphism {
					if p, ok := s.in.Parent(child); ok && inSub[p] {
						return fail("tree %d: root %q has its parent %q in the subtree", side+1, child, p)
					}
				}
				continue
			}
			want := orig[parent]
			if mode == ModeIsomorphism {
				if p, _ := s.in.Parent(child); p != want {
					return fail("tree %d: %q is not a child of %q", side+1, child, want)
				}
			} else if !isAncestor(s.in, want, child) {
				return fail("tree %d: %q is not an ancestor of %q", side+1, want, child)
			}
		}
	}
	return nil
}

func isAncestor(t *tree.Tree, anc, id string) bool {
	for {
		p, ok := t.Parent(id)
		if !ok {
			return false
		}
		if p == anc {
			return true
		}
		id = p
	}
}
