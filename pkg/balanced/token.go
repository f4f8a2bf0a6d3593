package balanced

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/treematch/pkg/errors"
)

// Token is an opening or closing marker in a balanced sequence.
//
// Character tokens are Unicode code points, so a character sequence prints
// as a string. Number tokens are k+1 for the opener of the k-th node and
// -(k+1) for its closer.
type Token int

// TokenKind selects how an encoding session allocates tokens.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=TokenKind -linecomment
type TokenKind int

const (
	Auto   TokenKind = iota // auto
	Char                    // char
	Number                  // number
)

// ParseTokenKind parses "auto", "char" or "number".
func ParseTokenKind(s string) (TokenKind, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return Auto, nil
	case "char":
		return Char, nil
	case "number":
		return Number, nil
	}
	return Auto, errors.New(errors.ErrCodeInvalidInput, "unknown token kind %q (want auto, char or number)", s)
}

const (
	// charBase is the first code point handed out in character mode. It is
	// the first printable, non-space ASCII character.
	charBase = 0x21

	surrogateMin   = 0xD800
	surrogateCount = 0xE000 - surrogateMin
)

// MaxCharNodes is the number of nodes a single character-mode session can
// encode. Each node consumes two code points.
const MaxCharNodes = int(unicode.MaxRune+1-charBase-surrogateCount) / 2

// maxCharNodes is the capacity enforced by sessions. Tests lower it to
// exercise alphabet exhaustion.
var maxCharNodes = MaxCharNodes

// charToken returns the i-th code point of the character alphabet.
func charToken(i int) Token {
	r := charBase + i
	if r >= surrogateMin {
		r += surrogateCount
	}
	return Token(r)
}

// Sequence is an ordered list of tokens.
type Sequence []Token

// String renders the sequence. Sequences without negative tokens are
// rendered as text, one character per token; number-mode sequences are
// rendered as space separated integers.
func (s Sequence) String() string {
	var sb strings.Builder
	numeric := false
	for _, tok := range s {
		if tok < 0 || !utf8.ValidRune(rune(tok)) {
			numeric = true
			break
		}
	}
	for i, tok := range s {
		if !numeric {
			sb.WriteRune(rune(tok))
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(tok)))
	}
	return sb.String()
}

// ParseString converts text into a character sequence, one token per rune.
// It is the entry point for comparing bracket strings such as "[][[]]"
// directly, where tokens repeat. Build the matching open-to-close map
// with [Pairs].
func ParseString(s string) Sequence {
	seq := make(Sequence, 0, len(s))
	for _, r := range s {
		seq = append(seq, Token(r))
	}
	return seq
}

// Pairs builds an open-to-close map from alternating opener/closer runes,
// e.g. Pairs("[]()") maps '[' to ']' and '(' to ')'.
func Pairs(s string) (map[Token]Token, error) {
	rs := []rune(s)
	if len(rs) == 0 || len(rs)%2 != 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bracket pairs %q must have an even, non-zero number of characters", s)
	}
	m := make(map[Token]Token, len(rs)/2)
	for i := 0; i < len(rs); i += 2 {
		m[Token(rs[i])] = Token(rs[i+1])
	}
	return m, nil
}
