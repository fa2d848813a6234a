package retrieval

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smishguard/smishguard/internal/core"
)

// minTokenLen is the shortest token that contributes to an embedding.
// Shorter tokens are almost always stopword fragments ("a", "to", "is").
const minTokenLen = 3

// Embedder maps text to a fixed-dimension frequency vector. This is a
// deterministic bag-of-words placeholder, not a semantic embedding: the
// vector is filled in word-encounter order, so it is order-dependent and
// collision-prone. It exists so retrieval stays fully on-device with no
// model dependency, and it must match the scheme used to precompute the
// corpus embeddings.
type Embedder struct {
	dim int
}

// NewEmbedder creates an embedder producing vectors of the given dimension.
func NewEmbedder(dim int) *Embedder {
	if dim <= 0 {
		dim = core.EmbeddingDim
	}
	return &Embedder{dim: dim}
}

// Dimensions returns the dimensionality of produced embeddings.
func (e *Embedder) Dimensions() int {
	return e.dim
}

// Embed converts text into an L2-normalized frequency vector.
func (e *Embedder) Embed(text string) []float32 {
	vec := make([]float32, e.dim)

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, tok := range strings.Fields(sb.String()) {
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}

	n := len(order)
	if n > e.dim {
		n = e.dim
	}
	for i := 0; i < n; i++ {
		vec[i] = float32(counts[order[i]])
	}

	return normalize(vec)
}

// normalize divides the vector by its Euclidean norm. A zero vector is
// returned unchanged.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// dot computes the dot product of two equal-length vectors. For
// L2-normalized vectors this equals their cosine similarity.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
