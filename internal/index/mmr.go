package index

import "math"

// MaxMarginalRelevance picks up to k candidate positions. The first pick is the
// candidate most similar to the query; each next pick maximizes
// lambda*sim(query, c) - (1-lambda)*max sim(c, already picked).
// Positions are returned in pick order.
func MaxMarginalRelevance(query []float32, candidates [][]float32, k int, lambda float64) []int {
	if k > len(candidates) {
		k = len(candidates)
	}
	if k <= 0 {
		return nil
	}

	toQuery := make([]float64, len(candidates))
	best := 0
	for i, c := range candidates {
		toQuery[i] = Cosine(query, c)
		if toQuery[i] > toQuery[best] {
			best = i
		}
	}

	picked := []int{best}
	chosen := make([]bool, len(candidates))
	chosen[best] = true
	// redundancy[i] is the max similarity of candidate i to any picked one.
	redundancy := make([]float64, len(candidates))
	for i, c := range candidates {
		redundancy[i] = Cosine(c, candidates[best])
	}

	for len(picked) < k {
		next := -1
		bestScore := math.Inf(-1)
		for i := range candidates {
			if chosen[i] {
				continue
			}
			score := lambda*toQuery[i] - (1-lambda)*redundancy[i]
			if score > bestScore {
				bestScore = score
				next = i
			}
		}
		picked = append(picked, next)
		chosen[next] = true
		for i, c := range candidates {
			if !chosen[i] {
				redundancy[i] = math.Max(redundancy[i], Cosine(c, candidates[next]))
			}
		}
	}
	return picked
}
