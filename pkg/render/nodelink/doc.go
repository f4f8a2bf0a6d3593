// Package nodelink renders a tree comparison as a node-link diagram.
//
// # Overview
//
// Both input trees are drawn top to bottom in their own cluster. Nodes that
// take part in the match are filled; with [Options.ShowPairs] a dashed link
// joins every matched pair across the two clusters.
//
// # Usage
//
// Convert a result to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(t1, t2, res.Pairs, nodelink.Options{ShowPairs: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
