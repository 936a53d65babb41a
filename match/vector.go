package match

import "math"

// cosineSimilarity computes the cosine similarity of two vectors, clamped to
// [0,1]. Vectors of different lengths are compared over their common prefix.
// A zero vector yields 0.
func cosineSimilarity(a, b []float32) float64 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	if minLen == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Negative similarity means "opposite", which carries no relevance signal.
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
