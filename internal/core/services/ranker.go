package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Rank scores candidates by cosine similarity to query and returns the best k.
//
// Candidates whose vector length differs from the query's, or whose norm is
// zero, are excluded rather than scored. A zero-norm query returns nil.
// Ties keep the candidates' input order. k <= 0 uses domain.DefaultTopK.
func Rank(query []float32, candidates []domain.Chunk, k int) []domain.ScoredChunk {
	if k <= 0 {
		k = domain.DefaultTopK
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil
	}

	scored := make([]domain.ScoredChunk, 0, len(candidates))
	mismatched := 0
	for i := range candidates {
		vec := candidates[i].Vector
		if len(vec) != len(query) {
			mismatched++
			continue
		}

		vecNorm := norm(vec)
		if vecNorm == 0 {
			continue
		}

		sim := dot(query, vec) / (queryNorm * vecNorm)
		if math.IsNaN(sim) || math.IsInf(sim, 0) {
			continue
		}

		scored = append(scored, domain.ScoredChunk{Chunk: candidates[i], Score: sim})
	}

	if mismatched > 0 {
		logger.Debug("%v: excluded %d of %d candidates (query has %d dimensions)",
			domain.ErrDimensionMismatch, mismatched, len(candidates), len(query))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// dot returns the dot product of equal-length vectors, accumulated in float64.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// norm returns the Euclidean norm of v. Empty and all-zero vectors have norm 0.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// texts returns the chunk text of each hit, in order.
func texts(hits []domain.ScoredChunk) []string {
	out := make([]string, len(hits))
	for i := range hits {
		out[i] = hits[i].Chunk.Text
	}
	return out
}
