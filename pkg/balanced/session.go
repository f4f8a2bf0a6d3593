package balanced

import (
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/tree"
)

// Session is the shared token space of one comparison. Encoding both trees
// of a comparison through the same session guarantees that no opening token
// is used twice, so every token in either sequence identifies exactly one
// node.
//
// A Session is not safe for concurrent use.
type Session struct {
	// Kind is the resolved token kind (Char or Number, never Auto).
	Kind TokenKind

	OpenToClose map[Token]Token
	OpenToNode  map[Token]*tree.Node
	NodeToOpen  map[*tree.Node]Token

	next int
}

// NewSession creates an empty session. An Auto kind resolves to Char when
// expectedNodes fits the character alphabet and to Number otherwise.
func NewSession(kind TokenKind, expectedNodes int) *Session {
	if kind == Auto {
		kind = Char
		if expectedNodes > maxCharNodes {
			kind = Number
		}
	}
	return &Session{
		Kind:        kind,
		OpenToClose: make(map[Token]Token, expectedNodes),
		OpenToNode:  make(map[Token]*tree.Node, expectedNodes),
		NodeToOpen:  make(map[*tree.Node]Token, expectedNodes),
	}
}

// Len returns the number of token pairs allocated so far.
func (s *Session) Len() int { return s.next }

// NextToken allocates a fresh opener/closer pair and records it in
// OpenToClose. It fails with INVALID_ENCODING once a character session has
// used up its alphabet.
func (s *Session) NextToken() (open, close Token, err error) {
	k := s.next
	switch s.Kind {
	case Char:
		if k >= maxCharNodes {
			return 0, 0, errors.New(errors.ErrCodeInvalidEncoding,
				"character tokens exhausted after %d nodes; use token kind %q", maxCharNodes, Number)
		}
		open, close = charToken(2*k), charToken(2*k+1)
	default:
		open, close = Token(k+1), Token(-(k + 1))
	}
	s.next++
	s.OpenToClose[open] = close
	return open, close, nil
}

// Register allocates a token pair for n and records the node in both
// directions. Registering the same node twice returns its existing opener.
func (s *Session) Register(n *tree.Node) (Token, error) {
	if tok, ok := s.NodeToOpen[n]; ok {
		return tok, nil
	}
	open, _, err := s.NextToken()
	if err != nil {
		return 0, err
	}
	s.OpenToNode[open] = n
	s.NodeToOpen[n] = open
	return open, nil
}
