package tree

import "strings"

// Visit tells a [WalkFunc] whether a node is being entered or left.
type Visit int

const (
	// Enter is reported before any of the node's children.
	Enter Visit = iota
	// Leave is reported after all of the node's children.
	Leave
)

// WalkFunc is called for every node event during [Tree.Walk]. Returning a
// non-nil error stops the walk and is returned by Walk.
type WalkFunc func(v Visit, n *Node, depth int) error

// Walk performs a depth-first traversal over all roots in order, visiting
// children in order. Every node is reported once with Enter and once with
// Leave. The traversal uses an explicit stack, so arbitrarily deep trees do
// not grow the goroutine stack.
//
// Nodes reachable twice (invalid input) are only visited the first time.
func (t *Tree) Walk(fn WalkFunc) error {
	type frame struct {
		id   string
		next int
	}

	seen := make(map[string]bool, len(t.nodes))
	var stack []frame
	for _, root := range t.Roots() {
		seen[root] = true
		if err := fn(Enter, t.nodes[root], 0); err != nil {
			return err
		}
		stack = append(stack[:0], frame{id: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := t.children[top.id]
			if top.next == len(kids) {
				stack = stack[:len(stack)-1]
				if err := fn(Leave, t.nodes[top.id], len(stack)); err != nil {
					return err
				}
				continue
			}
			child := kids[top.next]
			top.next++
			if seen[child] {
				continue
			}
			seen[child] = true
			if err := fn(Enter, t.nodes[child], len(stack)); err != nil {
				return err
			}
			stack = append(stack, frame{id: child})
		}
	}
	return nil
}

// Isomorphic reports whether two trees have the same ordered topology,
// ignoring node identities and labels.
func Isomorphic(a, b *Tree) bool {
	return shape(a, false) == shape(b, false)
}

// Equal reports whether two trees have the same ordered topology and the
// same node IDs and labels at every position.
func Equal(a, b *Tree) bool {
	return shape(a, true) == shape(b, true)
}

// shape serializes the walk of t as a bracket string. With ids set, every
// opening bracket carries the node's quoted ID and label.
func shape(t *Tree, ids bool) string {
	var sb strings.Builder
	_ = t.Walk(func(v Visit, n *Node, _ int) error {
		if v == Leave {
			sb.WriteByte(')')
			return nil
		}
		sb.WriteByte('(')
		if ids {
			sb.WriteString(quote(n.ID))
			sb.WriteString(quote(n.Label))
		}
		return nil
	})
	return sb.String()
}

func quote(s string) string {
	return "\"" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + "\""
}

// Format renders the forest as indented text, one node per line:
//
//	╟── a
//	╎   ├── b
//	╎   └── c
//	╙── d
//
// Nodes are shown by [Node.DisplayName]. An empty tree renders as "╙".
func Format(t *Tree) string {
	roots := t.Roots()
	if len(roots) == 0 {
		return "╙\n"
	}

	var sb strings.Builder
	// prefix[d] is the indentation owed by ancestors at depth d.
	var prefix []string
	lastAt := make(map[string]bool)
	for i, r := range roots {
		lastAt[r] = i == len(roots)-1
	}
	_ = t.Walk(func(v Visit, n *Node, depth int) error {
		if v == Leave {
			return nil
		}
		kids := t.children[n.ID]
		for i, k := range kids {
			lastAt[k] = i == len(kids)-1
		}
		prefix = prefix[:depth]
		last := lastAt[n.ID]
		var glyph, indent string
		switch {
		case depth == 0 && last:
			glyph, indent = "╙── ", "    "
		case depth == 0:
			glyph, indent = "╟── ", "╎   "
		case last:
			glyph, indent = "└── ", "    "
		default:
			glyph, indent = "├── ", "│   "
		}
		sb.WriteString(strings.Join(prefix, ""))
		sb.WriteString(glyph)
		sb.WriteString(n.DisplayName())
		sb.WriteByte('\n')
		prefix = append(prefix, indent)
		return nil
	})
	return sb.String()
}
