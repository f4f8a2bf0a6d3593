package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node IDs and metadata in node labels.
	// When false, only the display name is shown.
	Detailed bool
	// ShowPairs draws a dashed link between matched nodes.
	ShowPairs bool
	// Title1 and Title2 label the two clusters (default "tree 1", "tree 2").
	Title1, Title2 string
}

const (
	matchedFill = "#c6e5b3"
	pairColor   = "#4a7f2c"
)

// ToDOT converts two trees and their matched pairs to Graphviz DOT.
//
// Node IDs are namespaced per side ("1:id", "2:id") so equal IDs in the two
// trees stay distinct.
func ToDOT(t1, t2 *tree.Tree, pairs []subtree.NodePair, opts Options) string {
	matched1 := make(map[string]bool, len(pairs))
	matched2 := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		matched1[p.Node1] = true
		matched2[p.Node2] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	writeCluster(&buf, "1", orDefault(opts.Title1, "tree 1"), t1, matched1, opts)
	writeCluster(&buf, "2", orDefault(opts.Title2, "tree 2"), t2, matched2, opts)

	if opts.ShowPairs && len(pairs) > 0 {
		buf.WriteString("\n")
		for _, p := range pairs {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=%q, dir=none, constraint=false];\n",
				"1:"+p.Node1, "2:"+p.Node2, pairColor)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeCluster(buf *bytes.Buffer, side, title string, t *tree.Tree, matched map[string]bool, opts Options) {
	fmt.Fprintf(buf, "  subgraph cluster_%s {\n", side)
	fmt.Fprintf(buf, "    label=%q;\n", title)
	buf.WriteString("    style=dashed;\n")
	if t != nil {
		for _, n := range t.Nodes() {
			attrs := fmtAttrs(*n, fmtLabel(*n, opts.Detailed), matched[n.ID])
			fmt.Fprintf(buf, "    %q [%s];\n", side+":"+n.ID, strings.Join(attrs, ", "))
		}
		for _, n := range t.Nodes() {
			for _, ch := range t.Children(n.ID) {
				fmt.Fprintf(buf, "    %q -> %q;\n", side+":"+n.ID, side+":"+ch)
			}
		}
	}
	buf.WriteString("  }\n")
}

func fmtLabel(n tree.Node, detailed bool) string {
	if !detailed {
		return n.DisplayName()
	}

	parts := []string{"id: " + n.ID}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.DisplayName() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n tree.Node, label string, matched bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if matched {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", matchedFill))
	} else {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
	}
	return attrs
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales cleanly
// when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
