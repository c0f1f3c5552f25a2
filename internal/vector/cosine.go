// Package vector holds the in-process vector backends and the factory that
// selects the configured backend once at startup.
package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/repository"
)

// CosineSimilarity returns the cosine of the angle between a and b computed
// in float64. It returns 0 when either vector has zero norm or the lengths
// differ
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// normalizeInPlace scales v to unit length. Zero vectors are left unchanged
func normalizeInPlace(v []float32) {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= inv
	}
}

// Rank sorts candidates by non-increasing score, keeping input order among
// equal scores, and truncates to limit
func Rank(candidates []models.VectorCandidate, limit int) []models.VectorCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// scoreAll scores every embedding against query, keeping the best score per page
func scoreAll(query []float32, embeddings []models.PageEmbedding) []models.VectorCandidate {
	seen := make(map[int64]int, len(embeddings))
	out := make([]models.VectorCandidate, 0, len(embeddings))
	for _, e := range embeddings {
		score := CosineSimilarity(query, e.Embedding)
		if i, ok := seen[e.PageID]; ok {
			if score > out[i].Score {
				out[i].Score = score
			}
			continue
		}
		seen[e.PageID] = len(out)
		out = append(out, models.VectorCandidate{PageID: e.PageID, Score: score})
	}
	return out
}

// loadRange reads up to total embeddings starting at offset, batchSize at a time
func loadRange(ctx context.Context, source repository.EmbeddingSource, offset, total, batchSize int) ([]models.PageEmbedding, error) {
	if batchSize <= 0 {
		batchSize = total
	}
	out := make([]models.PageEmbedding, 0, total)
	for len(out) < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := batchSize
		if remaining := total - len(out); remaining < n {
			n = remaining
		}
		batch, err := source.GetPageEmbeddingsBatch(ctx, offset+len(out), n)
		if err != nil {
			return nil, fmt.Errorf("load embeddings at offset %d: %w", offset+len(out), err)
		}
		out = append(out, batch...)
		if len(batch) < n {
			break
		}
	}
	return out, nil
}
