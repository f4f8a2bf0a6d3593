// Package render draws comparison results.
//
// The [nodelink] subpackage renders both input trees as Graphviz node-link
// diagrams, side by side, with matched node pairs highlighted and linked.
package render
