// Package match scores and ranks document clauses against an analyzed query.
//
// Each clause is scored on three normalized signals: cosine similarity of
// embeddings (semantic), approximate string matching (lexical), and the
// fraction of expanded query terms present in the clause text (keyword). The
// signals are fused with configurable weights into a composite score in
// [0, 1], thresholded, and ranked into confidence tiers. When no embedding
// source is available, or the query embedding fails, the semantic weight is
// redistributed across the remaining signals and matching continues.
package match
