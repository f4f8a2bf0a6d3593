package balanced

import (
	"strconv"

	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Encode converts t into a balanced sequence using s for token allocation.
// The forest is walked depth first over all roots in child order; a node's
// opener is emitted when it is entered and its closer when it is left.
//
// Encoding a second tree through the same session extends the token space,
// so the two sequences never share a token.
func Encode(t *tree.Tree, s *Session) (Sequence, error) {
	seq := make(Sequence, 0, 2*t.NodeCount())
	err := t.Walk(func(v tree.Visit, n *tree.Node, _ int) error {
		if v == tree.Leave {
			seq = append(seq, s.OpenToClose[s.NodeToOpen[n]])
			return nil
		}
		open, err := s.Register(n)
		if err != nil {
			return err
		}
		seq = append(seq, open)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seq, nil
}

// Decode rebuilds an ordered forest from a balanced sequence.
//
// Every opener becomes a node attached as the last child of the innermost
// open node (or as a new root). With openToNode set, nodes reuse the ID,
// label and metadata of the node the opener was registered for; with a nil
// openToNode nodes get fresh integer IDs in order of appearance.
//
// A closer that does not match the innermost open node, or an opener left
// open at the end, fails with UNBALANCED_SEQUENCE.
func Decode(seq Sequence, openToClose map[Token]Token, openToNode map[Token]*tree.Node) (*tree.Tree, error) {
	type open struct {
		id    string
		close Token
	}

	t := tree.New(nil)
	var stack []open
	for i, tok := range seq {
		if closeTok, ok := openToClose[tok]; ok {
			node := tree.Node{ID: strconv.Itoa(t.NodeCount())}
			if openToNode != nil {
				src, ok := openToNode[tok]
				if !ok {
					return nil, errors.New(errors.ErrCodeUnbalancedSequence, "opener %d at position %d has no node", tok, i)
				}
				node = *src
			}
			if err := t.AddNode(node); err != nil {
				return nil, errors.Wrap(errors.ErrCodeUnbalancedSequence, err, "node %q at position %d", node.ID, i)
			}
			if len(stack) > 0 {
				_ = t.AddEdge(stack[len(stack)-1].id, node.ID)
			}
			stack = append(stack, open{id: node.ID, close: closeTok})
			continue
		}
		if len(stack) == 0 || stack[len(stack)-1].close != tok {
			return nil, errors.New(errors.ErrCodeUnbalancedSequence, "unexpected closer %d at position %d", tok, i)
		}
		stack = stack[:len(stack)-1]
	}
	if len(stack) > 0 {
		return nil, errors.New(errors.ErrCodeUnbalancedSequence, "%d openers left unclosed", len(stack))
	}
	return t, nil
}
