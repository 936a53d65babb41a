// Package prewarm batch-embeds clause sets into the embedding store ahead of
// interactive matching. Warming deduplicates texts by content hash, skips
// anything already stored, and reports progress as it goes, so large document
// sets can be prepared offline and matched against a hot cache.
package prewarm
