// Package tree provides the ordered forest that treematch compares.
//
// # Overview
//
// A [Tree] is a rooted, ordered forest: each node has a unique string ID, an
// optional label, and an ordered list of children. Child order is
// significant. It decides how a tree is encoded as a balanced sequence and it
// is preserved by every operation in this module.
//
// # Basic Usage
//
// Create a tree with [New], add nodes with [Tree.AddNode] and attach children
// with [Tree.AddEdge]. Children are appended, so insertion order is child
// order:
//
//	t := tree.New(nil)
//	t.AddNode(tree.Node{ID: "a"})
//	t.AddNode(tree.Node{ID: "b"})
//	t.AddEdge("a", "b")
//
// The builder accepts edges that give a node a second parent or close a
// cycle, so that external documents can be loaded first and rejected later
// by [Tree.Validate] with [ErrMultipleParents] or [ErrGraphHasCycle].
//
// # Traversal
//
// [Tree.Walk] visits the forest depth first and reports every node twice:
// on [Enter] and on [Leave]. This is exactly the open/close event stream a
// balanced sequence is built from. Walk uses an explicit stack, as does
// Validate, so very deep trees are safe.
//
// # Comparison and Display
//
// [Isomorphic] compares ordered topology only; [Equal] also compares IDs and
// labels. [Format] renders a forest as indented text for terminals, and
// [Random] generates random forests for tests and benchmarks.
//
// # Concurrency
//
// A Tree is not safe for concurrent mutation. Concurrent reads of a tree
// that is no longer modified are safe.
package tree
