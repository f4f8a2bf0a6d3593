package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/treematch/pkg/pipeline"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // used to derive file names when output is empty
	output    string
}

// writeArtifacts writes rendered artifacts. A lone text artifact without
// --output goes to stdout; everything else is written to files named after
// the output (or input) base path.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.formats[0] == pipeline.FormatText && p.output == "" {
		printNewline()
		_, err := os.Stdout.Write(p.artifacts[pipeline.FormatText])
		return err
	}

	base := basePath(p.output, p.input)
	for _, format := range p.formats {
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := writeFile(path, p.artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. Known format
// extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// printMatch prints the one-line outcome of a comparison.
func printMatch(mode pipeline.Mode, r *pipeline.Result) {
	printSuccess("%s value %s", mode, StyleNumber.Render(fmt.Sprintf("%g", r.Match.Value)))
	printStats(r.CacheHit, fmt.Sprintf("%d + %d nodes", r.Stats.Nodes1, r.Stats.Nodes2), fmt.Sprintf("%d pairs", len(r.Match.Pairs)))
	printDetail("strategy %s · tokens %s · solve %s", r.Match.Strategy, r.Match.TokenKind, r.Stats.SolveTime.Round(time.Microsecond))
}
