// Package solver finds the longest common balanced subsequence of two
// balanced sequences, in two flavours.
//
// [Embedding] allows deleting any matched opener/closer pair at any depth.
// On encoded trees this is a maximum common ordered subtree embedding, where
// edges may be contracted. [Isomorphism] only accepts matches that are
// induced subtrees of both inputs. It tracks two solutions per subproblem:
// the best match anchored at the current nesting level and the best match
// anywhere below it.
//
// Both recurrences decompose each input into its first node, the head inside
// that node and the tail after it (see [balanced.Index]). Subproblems are
// pairs of [balanced.Span] values, so memo keys are four integers.
//
// # Strategies
//
// Three engines evaluate the same recurrences and return identical values:
//
//   - [Recurse] recurses natively with a map memo
//   - [Iter] drives an explicit work stack and is safe on arbitrarily deep input
//   - [IterNative] fills dense tables bottom-up (absent with the purego tag)
//
// [Auto] picks IterNative when present and Iter otherwise. Candidates are
// evaluated in a fixed order and only strictly better values replace the
// current best, so all engines also agree on the witness.
//
// # Concurrency
//
// Every call owns its memo tables and stacks. Concurrent calls are safe.
package solver
