package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/observability"
	"github.com/matzehuels/treematch/pkg/render/nodelink"
	"github.com/matzehuels/treematch/pkg/subtree"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Render generates output artifacts in the requested formats. DOT and SVG
// draw the full input trees with the matched nodes highlighted.
func (r *Runner) Render(ctx context.Context, t1, t2 *tree.Tree, mode Mode, m *subtree.Result, opts Options) (map[string][]byte, time.Duration, error) {
	r.applyLogger(&opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	if len(opts.Formats) == 0 {
		return artifacts, 0, nil
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	err := renderAll(ctx, artifacts, t1, t2, mode, m, opts)
	dur := time.Since(start)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, dur, err)
	if err != nil {
		return nil, dur, err
	}

	opts.Logger.Debug("rendered outputs", "formats", opts.Formats, "duration", dur)
	return artifacts, dur, nil
}

func renderAll(ctx context.Context, out map[string][]byte, t1, t2 *tree.Tree, mode Mode, m *subtree.Result, opts Options) error {
	var dot string
	dotOnce := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(t1, t2, m.Pairs, nodelink.Options{
				Detailed:  opts.Detailed,
				ShowPairs: opts.ShowPairs,
			})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = MarshalRecord(NewRecord(mode, m))
		case FormatText:
			data = []byte(Summary(mode, m))
		case FormatDOT:
			data = []byte(dotOnce())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotOnce())
		default:
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		out[format] = data
	}
	return nil
}

// Summary renders a match as plain text: the value line, both subtrees
// and the matched pairs.
func Summary(mode Mode, m *subtree.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s value %g (strategy %s, tokens %s)\n", mode, m.Value, m.Strategy, m.TokenKind)
	sb.WriteString("\nsubtree 1:\n")
	sb.WriteString(tree.Format(m.Subtree1))
	sb.WriteString("\nsubtree 2:\n")
	sb.WriteString(tree.Format(m.Subtree2))
	if len(m.Pairs) > 0 {
		sb.WriteString("\npairs:\n")
		for _, p := range m.Pairs {
			fmt.Fprintf(&sb, "  %s = %s\n", p.Node1, p.Node2)
		}
	}
	return sb.String()
}
