package analysis

import (
	"math"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// PillarWeights fixes the contribution of each pillar to the overall
// score. The weights sum to 1.0 and are part of the scoring contract.
var PillarWeights = map[string]float64{
	"discovery":     0.30,
	"collaboration": 0.25,
	"documentation": 0.25,
	"reuse":         0.20,
}

// Per-pillar feature weights. Each vector sums to 1.0 and is applied to
// the feature columns in the order the corresponding extractor emits
// them.
var (
	discoveryWeights     = []float64{0.20, 0.25, 0.25, 0.15, 0.15}
	collaborationWeights = []float64{0.40, 0.30, 0.30}
	documentationWeights = []float64{0.40, 0.40, 0.20}
	reuseWeights         = []float64{0.50, 0.30, 0.20}
)

// DiscoveryScores scores search and exploration breadth. Counts are
// heavily right-skewed, so this is the one pillar that log-transforms
// its features before normalization.
func DiscoveryScores(features []types.UserFeatureVector) []float64 {
	cols := [][]float64{
		column(features, func(f types.UserFeatureVector) float64 { return f.TotalSessions }),
		column(features, func(f types.UserFeatureVector) float64 { return f.TotalInteractions }),
		column(features, func(f types.UserFeatureVector) float64 { return f.TotalUniqueRecords }),
		column(features, func(f types.UserFeatureVector) float64 { return f.UniqueSubjectCount }),
		column(features, func(f types.UserFeatureVector) float64 { return f.SubjectDiversityScore }),
	}
	for _, col := range cols {
		log1pColumn(col)
	}
	return weightedScores(cols, discoveryWeights)
}

// CollaborationScores uses session frequency and record overlap as a
// proxy for shared-dataset usage patterns.
func CollaborationScores(features []types.UserFeatureVector) []float64 {
	cols := [][]float64{
		column(features, func(f types.UserFeatureVector) float64 { return f.SessionsPerDay }),
		column(features, func(f types.UserFeatureVector) float64 { return f.AvgInteractionsPerSession }),
		column(features, func(f types.UserFeatureVector) float64 { return f.TotalUniqueRecords }),
	}
	return weightedScores(cols, collaborationWeights)
}

// DocumentationScores uses event and subject diversity as proxies for
// metadata engagement and query quality.
func DocumentationScores(features []types.UserFeatureVector) []float64 {
	cols := [][]float64{
		column(features, func(f types.UserFeatureVector) float64 { return f.AvgEventDiversity }),
		column(features, func(f types.UserFeatureVector) float64 { return f.SubjectDiversityScore }),
		column(features, func(f types.UserFeatureVector) float64 { return f.AvgSessionDuration }),
	}
	return weightedScores(cols, documentationWeights)
}

// ReuseScores measures how often users return to datasets rather than
// touching new ones. reuse_ratio = sessions / (unique records + 1).
func ReuseScores(features []types.UserFeatureVector) []float64 {
	cols := [][]float64{
		column(features, func(f types.UserFeatureVector) float64 {
			return f.TotalSessions / (f.TotalUniqueRecords + 1)
		}),
		column(features, func(f types.UserFeatureVector) float64 { return f.SessionsPerDay }),
		column(features, func(f types.UserFeatureVector) float64 { return f.ActivitySpanDays }),
	}
	return weightedScores(cols, reuseWeights)
}

func column(features []types.UserFeatureVector, get func(types.UserFeatureVector) float64) []float64 {
	col := make([]float64, len(features))
	for i, f := range features {
		col[i] = get(f)
	}
	return col
}

func log1pColumn(col []float64) {
	for i, v := range col {
		if v < 0 {
			v = 0
		}
		col[i] = math.Log1p(v)
	}
}

// minMaxColumn rescales a column to [0,1] within the current batch.
// Scores are therefore only comparable inside a single run's
// population, not across runs. A zero-variance column normalizes to all
// zeros so its contribution vanishes instead of dividing by zero.
func minMaxColumn(col []float64) []float64 {
	if len(col) == 0 {
		return col
	}

	lo, hi := col[0], col[0]
	for _, v := range col[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]float64, len(col))
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, v := range col {
		out[i] = (v - lo) / span
	}
	return out
}

// weightedScores normalizes each column, takes the weighted dot product
// per row, scales to 0-100 and clips to the boundaries.
func weightedScores(cols [][]float64, weights []float64) []float64 {
	if len(cols) == 0 {
		return nil
	}

	normalized := make([][]float64, len(cols))
	for i, col := range cols {
		normalized[i] = minMaxColumn(col)
	}

	n := len(cols[0])
	scores := make([]float64, n)
	for row := 0; row < n; row++ {
		s := 0.0
		for c := range normalized {
			s += normalized[c][row] * weights[c]
		}
		scores[row] = clip(s*100, 0, 100)
	}
	return scores
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
