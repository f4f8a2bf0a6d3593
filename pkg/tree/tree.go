package tree

import (
	"errors"
	"maps"
)

var (
	// ErrInvalidNodeID is returned by [Tree.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Tree.AddNode] when a node with the
	// same ID already exists in the tree. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownParent is returned by [Tree.AddEdge] when the parent node
	// does not exist.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrUnknownChild is returned by [Tree.AddEdge] when the child node
	// does not exist.
	ErrUnknownChild = errors.New("unknown child node")

	// ErrMultipleParents is returned by [Tree.Validate] when a node has more
	// than one incoming edge. Ordered forests allow exactly one parent per
	// non-root node.
	ErrMultipleParents = errors.New("node has multiple parents")

	// ErrGraphHasCycle is returned by [Tree.Validate] when a cycle is detected.
	// Cycles are detected using depth-first search with white/gray/black
	// coloring on an explicit stack.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the tree.
// Metadata maps are never nil after [Tree.AddNode].
type Metadata map[string]any

// Node is a vertex of an ordered tree.
//
// ID is the node's identity and must be unique within its tree. Label is
// optional caller data; the matching engine only looks at it through a
// label affinity.
type Node struct {
	ID    string   // Unique identifier
	Label string   // Optional display or matching label
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// DisplayName returns the label if set, otherwise the ID.
func (n Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Tree is an ordered forest: every node has at most one parent and the
// children of a node are kept in insertion order. Multiple roots are allowed.
//
// The builder methods accept edges that would break the forest shape (a
// second parent, a cycle) so that external documents can be loaded and then
// checked with [Tree.Validate].
//
// The zero value is not usable - use New to create a tree.
// Tree is not safe for concurrent mutation.
type Tree struct {
	nodes    map[string]*Node
	order    []string            // insertion order of node IDs
	children map[string][]string // parent -> ordered children
	parents  map[string][]string // child -> parents (len > 1 is invalid)
	edges    int
	meta     Metadata
}

// New creates an empty tree with optional tree-level metadata.
func New(meta Metadata) *Tree {
	if meta == nil {
		meta = Metadata{}
	}
	return &Tree{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the tree-level metadata map.
func (t *Tree) Meta() Metadata { return t.meta }

// AddNode adds a node to the tree. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if the ID is already taken.
func (t *Tree) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := t.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	t.nodes[n.ID] = &n
	t.order = append(t.order, n.ID)
	return nil
}

// AddEdge appends child to the ordered child list of parent.
func (t *Tree) AddEdge(parent, child string) error {
	if _, ok := t.nodes[parent]; !ok {
		return ErrUnknownParent
	}
	if _, ok := t.nodes[child]; !ok {
		return ErrUnknownChild
	}
	t.children[parent] = append(t.children[parent], child)
	t.parents[child] = append(t.parents[child], parent)
	t.edges++
	return nil
}

// Node returns the node with the given ID.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.order))
	for i, id := range t.order {
		out[i] = t.nodes[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges.
func (t *Tree) EdgeCount() int { return t.edges }

// Children returns the ordered child IDs of a node. The returned slice must
// not be modified.
func (t *Tree) Children(id string) []string { return t.children[id] }

// Parent returns the parent of a node, or false for roots.
func (t *Tree) Parent(id string) (string, bool) {
	ps := t.parents[id]
	if len(ps) == 0 {
		return "", false
	}
	return ps[0], true
}

// Roots returns the parentless nodes in insertion order.
func (t *Tree) Roots() []string {
	var roots []string
	for _, id := range t.order {
		if len(t.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns the childless nodes in insertion order.
func (t *Tree) Leaves() []string {
	var leaves []string
	for _, id := range t.order {
		if len(t.children[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Clone returns a deep copy of the tree structure. Node metadata maps are
// copied shallowly.
func (t *Tree) Clone() *Tree {
	c := New(maps.Clone(t.meta))
	for _, id := range t.order {
		n := *t.nodes[id]
		n.Meta = maps.Clone(n.Meta)
		_ = c.AddNode(n)
	}
	for _, id := range t.order {
		for _, ch := range t.children[id] {
			_ = c.AddEdge(id, ch)
		}
	}
	return c
}

// Validate checks that the tree is an ordered forest: every node has at most
// one parent and there are no cycles.
func (t *Tree) Validate() error {
	for _, id := range t.order {
		if len(t.parents[id]) > 1 {
			return ErrMultipleParents
		}
	}
	return t.detectCycles()
}

func (t *Tree) detectCycles() error {
	const (
		white = iota
		gray
		black
	)
	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, len(t.nodes))
	var stack []frame
	for _, start := range t.order {
		if color[start] != white {
			continue
		}
		color[start] = gray
		stack = append(stack[:0], frame{id: start})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			kids := t.children[top.id]
			if top.next == len(kids) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := kids[top.next]
			top.next++
			switch color[child] {
			case gray:
				return ErrGraphHasCycle
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			}
		}
	}
	return nil
}
