package similarity

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultEmbeddingDims is the vector length used when none is configured.
const DefaultEmbeddingDims = 64

// Embed projects text into a fixed-length vector via token hashing.
// The projection is deterministic: the same text always yields a
// bit-identical vector, within a process and across processes. It is a
// bag-of-tokens signature, not a trained embedding; texts sharing
// vocabulary land close under cosine similarity, disjoint texts do not.
func Embed(text string, dims int) []float64 {
	if dims <= 0 {
		dims = DefaultEmbeddingDims
	}

	vec := make([]float64, dims)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(token))
		sum := h.Sum64()
		vec[sum%uint64(dims)] += 1.0
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Cosine computes cosine similarity between two equal-length vectors.
// Returns 0 when either vector has zero norm. Token-count vectors are
// non-negative, so the result lies in [0,1]; it is clamped to absorb
// float rounding above 1.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	// Single sqrt keeps identical vectors at exactly 1.0: token counts
	// are integers, so normA*normB is an exact perfect square there.
	sim := dot / math.Sqrt(normA*normB)
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}
