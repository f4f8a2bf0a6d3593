package io

import (
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Document is the serialized form of a tree.
type Document struct {
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges"`
}

// Node is a serialized tree node.
type Node struct {
	ID    string        `json:"id" yaml:"id" toml:"id"`
	Label string        `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Meta  tree.Metadata `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
}

// Edge is a serialized parent-child link.
type Edge struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

// FromTree converts a tree to a document. Nodes are listed in insertion
// order and edges in parent insertion order, then child order.
func FromTree(t *tree.Tree) Document {
	nodes := t.Nodes()
	doc := Document{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, 0, t.EdgeCount()),
	}
	for i, n := range nodes {
		nd := Node{ID: n.ID, Label: n.Label}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		doc.Nodes[i] = nd
	}
	for _, n := range nodes {
		for _, ch := range t.Children(n.ID) {
			doc.Edges = append(doc.Edges, Edge{From: n.ID, To: ch})
		}
	}
	return doc
}

// Tree builds a tree from the document. Node IDs are validated; duplicate
// IDs and edges to unknown nodes fail with INVALID_INPUT.
func (d Document) Tree() (*tree.Tree, error) {
	t := tree.New(nil)
	for _, n := range d.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		if err := t.AddNode(tree.Node{ID: n.ID, Label: n.Label, Meta: n.Meta}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %s", n.ID)
		}
	}
	for _, e := range d.Edges {
		if err := t.AddEdge(e.From, e.To); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "edge %s->%s", e.From, e.To)
		}
	}
	return t, nil
}
