package analysis

import (
	"math"
	"sort"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// Distribution summarises a run's score population: overall and
// per-pillar mean/median/std/min/max plus bucket counts at the fixed
// 40/60/80 proficiency cuts.
func Distribution(scores []types.UserScore) types.ScoreDistribution {
	overall := make([]float64, len(scores))
	byPillar := map[string][]float64{
		"discovery":     make([]float64, len(scores)),
		"collaboration": make([]float64, len(scores)),
		"documentation": make([]float64, len(scores)),
		"reuse":         make([]float64, len(scores)),
	}

	ranges := map[string]int{"expert": 0, "advanced": 0, "intermediate": 0, "beginner": 0}

	for i, s := range scores {
		overall[i] = s.OverallScore
		byPillar["discovery"][i] = s.DiscoveryScore
		byPillar["collaboration"][i] = s.CollaborationScore
		byPillar["documentation"][i] = s.DocumentationScore
		byPillar["reuse"][i] = s.ReuseScore

		switch {
		case s.OverallScore >= 80:
			ranges["expert"]++
		case s.OverallScore >= 60:
			ranges["advanced"]++
		case s.OverallScore >= 40:
			ranges["intermediate"]++
		default:
			ranges["beginner"]++
		}
	}

	dist := types.ScoreDistribution{
		Overall:     describe(overall),
		ByPillar:    make(map[string]types.DistributionStats, len(byPillar)),
		ScoreRanges: ranges,
	}
	for pillar, xs := range byPillar {
		dist.ByPillar[pillar] = describe(xs)
	}
	return dist
}

func describe(xs []float64) types.DistributionStats {
	if len(xs) == 0 {
		return types.DistributionStats{}
	}

	lo, hi := xs[0], xs[0]
	sum := 0.0
	for _, v := range xs {
		sum += v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	mean := sum / float64(len(xs))

	return types.DistributionStats{
		Mean:   mean,
		Median: median(xs),
		Std:    stddev(xs, mean),
		Min:    lo,
		Max:    hi,
	}
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}

// stddev is the sample standard deviation (n-1 denominator); a
// single-element population has zero spread.
func stddev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	ss := 0.0
	for _, v := range xs {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// Mean averages xs, returning 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}
