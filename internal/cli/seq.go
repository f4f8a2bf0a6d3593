package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/errors"
	treeio "github.com/matzehuels/treematch/pkg/io"
	"github.com/matzehuels/treematch/pkg/solver"
	"github.com/matzehuels/treematch/pkg/tree"
)

const defaultBrackets = "()[]{}"

// seqFlags holds the flags shared by the sequence commands.
type seqFlags struct {
	brackets string // alternating opener/closer runes
	numeric  bool   // sequences are space separated integers, k closed by -k
}

func (f *seqFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.brackets, "brackets", defaultBrackets, "bracket pairs as alternating opener/closer characters")
	cmd.Flags().BoolVar(&f.numeric, "numeric", false, "parse sequences as space separated integers (k is closed by -k)")
}

// parse converts a command-line argument into a sequence and its
// opener-to-closer map.
func (f *seqFlags) parse(arg string) (balanced.Sequence, map[balanced.Token]balanced.Token, error) {
	if !f.numeric {
		pairs, err := balanced.Pairs(f.brackets)
		if err != nil {
			return nil, nil, err
		}
		return balanced.ParseString(arg), pairs, nil
	}
	var seq balanced.Sequence
	pairs := make(map[balanced.Token]balanced.Token)
	for _, field := range strings.Fields(arg) {
		v, err := strconv.Atoi(field)
		if err != nil || v == 0 {
			return nil, nil, errors.New(errors.ErrCodeInvalidInput, "invalid token %q (want a non-zero integer)", field)
		}
		if v > 0 {
			pairs[balanced.Token(v)] = balanced.Token(-v)
		}
		seq = append(seq, balanced.Token(v))
	}
	return seq, pairs, nil
}

// seqCommand creates the seq command, which compares two balanced
// sequences directly.
func (c *CLI) seqCommand() *cobra.Command {
	var (
		flags    seqFlags
		iso      bool
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "seq [seq1] [seq2]",
		Short: "Compare two balanced sequences",
		Long: `Compare two balanced sequences directly, without building trees.

Tokens are matched by equality, so with repeated brackets such as "(()())"
every pair of the same bracket type may match. Use --iso for the isomorphism
variant.`,
		Example: `  treematch seq "(()())" "(())"
  treematch seq --iso "[()()]" "[(())]"
  treematch seq --numeric "1 2 -2 -1" "1 -1"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strategy") && c.Config.Strategy != "" {
				strategy = c.Config.Strategy
			}
			return runSeq(cmd.Context(), args[0], args[1], flags, iso, strategy)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&iso, "iso", false, "compute the common isomorphism instead of the embedding")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "solver strategy: auto (default), iter, recurse, iter-native")

	return cmd
}

func runSeq(ctx context.Context, arg1, arg2 string, flags seqFlags, iso bool, strategyName string) error {
	logger := loggerFromContext(ctx)

	s1, pairs, err := flags.parse(arg1)
	if err != nil {
		return err
	}
	s2, pairs2, err := flags.parse(arg2)
	if err != nil {
		return err
	}
	for k, v := range pairs2 {
		pairs[k] = v
	}
	strategy, err := solver.ParseStrategy(strategyName)
	if err != nil {
		return err
	}

	solve, mode := solver.Embedding, "embedding"
	if iso {
		solve, mode = solver.Isomorphism, "isomorphism"
	}
	p := newProgress(logger)
	sol, err := solve(s1, s2, pairs, solver.Eq, strategy)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Solved %s with %s", mode, sol.Strategy))

	printSuccess("%s value %s", mode, StyleNumber.Render(strconv.FormatFloat(sol.Value, 'g', -1, 64)))
	printKeyValue("sequence 1", sol.Seq1.String())
	printKeyValue("sequence 2", sol.Seq2.String())
	return nil
}

// encodeCommand creates the encode command, which prints the balanced
// sequences of one or two trees encoded through one shared session.
func (c *CLI) encodeCommand() *cobra.Command {
	var (
		tokenKind  string
		showTokens bool
	)

	cmd := &cobra.Command{
		Use:   "encode [tree] [tree2]",
		Short: "Print the balanced-sequence encoding of trees",
		Long: `Print the balanced-sequence encoding of one or two trees.

Both trees are encoded through one session, so their sequences never share a
token, exactly as for a comparison.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("token-kind") && c.Config.TokenKind != "" {
				tokenKind = c.Config.TokenKind
			}
			return runEncode(args, tokenKind, showTokens)
		},
	}

	cmd.Flags().StringVar(&tokenKind, "token-kind", "", "sequence encoding: auto (default), char, number")
	cmd.Flags().BoolVar(&showTokens, "tokens", false, "print the opener of every node")

	return cmd
}

func runEncode(paths []string, kindName string, showTokens bool) error {
	kind, err := balanced.ParseTokenKind(kindName)
	if err != nil {
		return err
	}
	trees := make([]*tree.Tree, len(paths))
	total := 0
	for i, path := range paths {
		if trees[i], err = treeio.Import(path); err != nil {
			return err
		}
		total += trees[i].NodeCount()
	}

	session := balanced.NewSession(kind, total)
	seqs := make([]balanced.Sequence, len(trees))
	for i, t := range trees {
		if seqs[i], err = balanced.Encode(t, session); err != nil {
			return fmt.Errorf("%s: %w", paths[i], err)
		}
	}

	for _, seq := range seqs {
		fmt.Println(seq.String())
	}
	if showTokens {
		fmt.Println(tokenTable(trees, session))
	}
	return nil
}

// tokenTable renders the opener assigned to every node.
func tokenTable(trees []*tree.Tree, s *balanced.Session) string {
	var rows [][]string
	for i, t := range trees {
		for _, n := range t.Nodes() {
			open := s.NodeToOpen[n]
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				n.ID,
				balanced.Sequence{open}.String(),
				balanced.Sequence{s.OpenToClose[open]}.String(),
			})
		}
	}
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Tree", "Node", "Open", "Close").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// decodeCommand creates the decode command, which rebuilds a tree from a
// balanced sequence.
func (c *CLI) decodeCommand() *cobra.Command {
	var (
		flags  seqFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "decode [sequence]",
		Short: "Build a tree from a balanced sequence",
		Long: `Build a tree from a balanced sequence. Nodes are numbered in order of
their openers. The tree is printed, or written to --output as .json, .yaml
or .toml.`,
		Example: `  treematch decode "(()())"
  treematch decode --numeric "1 2 -2 3 -3 -1" -o tree.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, pairs, err := flags.parse(args[0])
			if err != nil {
				return err
			}
			t, err := balanced.Decode(seq, pairs, nil)
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Print(tree.Format(t))
				return nil
			}
			if err := treeio.Export(t, output); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output tree file (.json, .yaml or .toml)")

	return cmd
}
