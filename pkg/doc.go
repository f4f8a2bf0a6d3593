// Package pkg provides the core libraries for treematch, a maximum common
// subtree finder for ordered trees.
//
// # Overview
//
// Treematch compares two ordered forests and returns their largest common
// embedding (ancestor relations preserved, edges may be contracted) or their
// largest common isomorphism (induced subtrees). Both problems are reduced to
// finding a longest common balanced subsequence of the trees' bracket
// encodings. The pkg directory is organized into three areas:
//
//  1. Core - trees, encodings and solvers ([tree], [balanced], [solver],
//     [subtree], [paths])
//  2. Infrastructure - caching, errors and hooks ([cache], [errors],
//     [observability], [buildinfo])
//  3. Orchestration and output - [pipeline], [io] and [render]
//
// # Architecture
//
// The data flow of one comparison:
//
//	tree files (.json / .yaml / .toml)
//	         ↓
//	    [io] package (decode documents into trees)
//	         ↓
//	    [balanced] package (encode both trees in one token space)
//	         ↓
//	    [solver] package (longest common balanced embedding / isomorphism)
//	         ↓
//	    [subtree] package (decode witnesses back into trees)
//	         ↓
//	    JSON / text / DOT / SVG output
//
// [pipeline] wraps these steps with content-addressed caching, optional
// verification and rendering, and is shared by the CLI and the HTTP service.
//
// # Quick Start
//
//	t1, _ := io.Import("a.json")
//	t2, _ := io.Import("b.json")
//
//	res, err := subtree.MaximumCommonEmbedding(t1, t2, subtree.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Value)
//	fmt.Print(tree.Format(res.Subtree1))
//
// Compare bracket strings directly:
//
//	pairs, _ := balanced.Pairs("()[]")
//	sol, _ := solver.Embedding(balanced.ParseString("([])"), balanced.ParseString("[]"), pairs, solver.Eq, solver.Auto)
//	fmt.Println(sol.Seq1, sol.Value) // [] 1
//
// # Main Packages
//
// [tree] - Ordered forests with stable child order, validation, random
// generation and text formatting.
//
// [balanced] - Balanced sequences: tokens, encoding sessions, bracket
// indexes and decoding.
//
// [solver] - The recurrences and their engines (iter, recurse and the
// table-driven iter-native).
//
// [subtree] - Tree-level reduction: affinities, encoding, solving and
// decoding into result trees.
//
// [paths] - Common prefix trees of path collections.
//
// [cache] - Result caches (null, file, Redis, MongoDB) and key derivation.
//
// [pipeline] - hash → cache → solve → verify → render.
//
// [render/nodelink] - Side-by-side Graphviz diagrams of a match.
package pkg
