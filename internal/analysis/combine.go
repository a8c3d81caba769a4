package analysis

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/errors"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// ComputeScores runs the four pillar scorers over the feature table and
// combines them into UserScore rows. The scorers share only read-only
// input, so they run concurrently; the combiner waits on all four.
// Output preserves input order.
func ComputeScores(features []types.UserFeatureVector) ([]types.UserScore, error) {
	if len(features) == 0 {
		return []types.UserScore{}, nil
	}

	var (
		discovery, collaboration, documentation, reuse []float64
		wg                                             sync.WaitGroup
		mu                                             sync.Mutex
		panics                                         []error
	)

	run := func(name string, f func([]types.UserFeatureVector) []float64, dst *[]float64) {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				mu.Lock()
				panics = append(panics, fmt.Errorf("%s scorer panicked: %v", name, r))
				mu.Unlock()
			}
		}()
		*dst = f(features)
	}

	wg.Add(4)
	go run("discovery", DiscoveryScores, &discovery)
	go run("collaboration", CollaborationScores, &collaboration)
	go run("documentation", DocumentationScores, &documentation)
	go run("reuse", ReuseScores, &reuse)
	wg.Wait()

	if len(panics) > 0 {
		return nil, errors.NewComputationError("pillar scoring failed", panics[0])
	}

	now := time.Now()
	scores := make([]types.UserScore, len(features))
	for i, f := range features {
		overall := discovery[i]*PillarWeights["discovery"] +
			collaboration[i]*PillarWeights["collaboration"] +
			documentation[i]*PillarWeights["documentation"] +
			reuse[i]*PillarWeights["reuse"]

		scores[i] = types.UserScore{
			UserID:             f.UserID,
			DiscoveryScore:     discovery[i],
			CollaborationScore: collaboration[i],
			DocumentationScore: documentation[i],
			ReuseScore:         reuse[i],
			OverallScore:       overall,
			ComputedAt:         now,
		}
	}

	ranks := percentileRanks(scores)
	for i := range scores {
		scores[i].PercentileRank = ranks[i]
	}

	return scores, nil
}

// percentileRanks computes rank-based percentiles over overall_score
// with average-rank tie handling: tied users share the mean of the
// ranks they occupy, scaled so the maximum score lands at 100 (or the
// averaged-tie value when several users share the max).
func percentileRanks(scores []types.UserScore) []float64 {
	n := len(scores)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]].OverallScore < scores[idx[b]].OverallScore
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && scores[idx[j]].OverallScore == scores[idx[i]].OverallScore {
			j++
		}
		// positions i..j-1 are tied; 1-based ranks i+1..j average out.
		avgRank := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avgRank / float64(n) * 100
		}
		i = j
	}
	return ranks
}

// SortByOverallDesc returns a copy of scores in the canonical
// presentation order. Storage order stays insertion order.
func SortByOverallDesc(scores []types.UserScore) []types.UserScore {
	sorted := append([]types.UserScore(nil), scores...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OverallScore > sorted[j].OverallScore
	})
	return sorted
}
