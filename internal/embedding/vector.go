package embedding

import "math"

// Cosine returns the cosine similarity of two vectors. Mismatched or empty
// vectors score 0 rather than erroring, which drops the semantic term from a
// blended relevance score instead of failing the search.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
