package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/treematch/pkg/balanced"
	"github.com/matzehuels/treematch/pkg/errors"
	treeio "github.com/matzehuels/treematch/pkg/io"
	"github.com/matzehuels/treematch/pkg/solver"
	"github.com/matzehuels/treematch/pkg/subtree"
)

// Record is the serialized form of a match. It is what the cache stores,
// what the json format emits and what the HTTP service returns.
type Record struct {
	Mode      Mode               `json:"mode"`
	Value     float64            `json:"value"`
	Strategy  string             `json:"strategy"`
	TokenKind string             `json:"token_kind"`
	Subtree1  treeio.Document    `json:"subtree1"`
	Subtree2  treeio.Document    `json:"subtree2"`
	Pairs     []subtree.NodePair `json:"pairs"`
}

// NewRecord serializes a match.
func NewRecord(mode Mode, res *subtree.Result) Record {
	pairs := res.Pairs
	if pairs == nil {
		pairs = []subtree.NodePair{}
	}
	return Record{
		Mode:      mode,
		Value:     res.Value,
		Strategy:  res.Strategy.String(),
		TokenKind: res.TokenKind.String(),
		Subtree1:  treeio.FromTree(res.Subtree1),
		Subtree2:  treeio.FromTree(res.Subtree2),
		Pairs:     pairs,
	}
}

// Match rebuilds the match from the record.
func (r Record) Match() (*subtree.Result, error) {
	sub1, err := r.Subtree1.Tree()
	if err != nil {
		return nil, err
	}
	sub2, err := r.Subtree2.Tree()
	if err != nil {
		return nil, err
	}
	strategy, err := solver.ParseStrategy(r.Strategy)
	if err != nil {
		return nil, err
	}
	kind, err := balanced.ParseTokenKind(r.TokenKind)
	if err != nil {
		return nil, err
	}
	return &subtree.Result{
		Subtree1:  sub1,
		Subtree2:  sub2,
		Value:     r.Value,
		Pairs:     r.Pairs,
		Strategy:  strategy,
		TokenKind: kind,
	}, nil
}

// MarshalRecord encodes a record as indented JSON.
func MarshalRecord(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// UnmarshalRecord decodes a record.
func UnmarshalRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode match record")
	}
	return r, nil
}
