// Package highlight locates the character spans of a matched clause that a
// rendering layer should highlight. It works sentence by sentence: sentences
// relevant to the matched keywords contribute the byte spans of their literal
// keyword occurrences, and a clause with no literal overlap at all falls back
// to a single whole-clause span.
package highlight
