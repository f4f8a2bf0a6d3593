// Package balanced encodes ordered trees as balanced sequences and provides
// the head/tail decomposition every matching solver recurses on.
//
// # Encoding
//
// A depth-first walk of a forest emits an opening token when a node is
// entered and its closing token when the node is left. [Encode] allocates
// tokens from a [Session]; encoding both trees of a comparison through one
// session keeps their tokens disjoint, so a token alone identifies its node
// via [Session.OpenToNode]. [Decode] is the inverse and rebuilds a forest
// with an explicit stack.
//
// Two token kinds exist. [Char] tokens are code points, so sequences print
// as strings but a session holds at most [MaxCharNodes] nodes. [Number]
// tokens are unbounded integers. [Auto] picks Char when the nodes fit.
//
// # Decomposition
//
// A non-empty balanced sequence splits into its first opener a, the matching
// closer b, the head between them and the tail after b. Rather than copying
// subsequences, an [Index] precomputes bracket partners once and names every
// subsequence reachable by decomposition as a [Span] of the original:
//
//	ix, _ := balanced.NewIndex(balanced.ParseString("[][[]][]"), pairs)
//	d := ix.Decompose(ix.Norm(ix.Full()))
//	ix.Slice(d.Tail) // "[[]][]"
package balanced
