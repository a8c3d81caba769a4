package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

func TestDistributionBuckets(t *testing.T) {
	mk := func(overall float64) types.UserScore {
		return types.UserScore{OverallScore: overall}
	}

	// boundary values land in the upper bucket
	scores := []types.UserScore{
		mk(80), mk(95), // expert
		mk(60), mk(79.99), // advanced
		mk(40), mk(59.99), // intermediate
		mk(39.99), mk(0), // beginner
	}

	dist := Distribution(scores)

	assert.Equal(t, 2, dist.ScoreRanges["expert"])
	assert.Equal(t, 2, dist.ScoreRanges["advanced"])
	assert.Equal(t, 2, dist.ScoreRanges["intermediate"])
	assert.Equal(t, 2, dist.ScoreRanges["beginner"])
}

func TestDistributionStats(t *testing.T) {
	scores := []types.UserScore{
		{OverallScore: 10, DiscoveryScore: 20},
		{OverallScore: 20, DiscoveryScore: 40},
		{OverallScore: 60, DiscoveryScore: 60},
	}

	dist := Distribution(scores)

	assert.InDelta(t, 30.0, dist.Overall.Mean, 1e-9)
	assert.InDelta(t, 20.0, dist.Overall.Median, 1e-9)
	assert.InDelta(t, 10.0, dist.Overall.Min, 1e-9)
	assert.InDelta(t, 60.0, dist.Overall.Max, 1e-9)
	assert.InDelta(t, 40.0, dist.ByPillar["discovery"].Mean, 1e-9)
}

func TestDistributionEmptyPopulation(t *testing.T) {
	dist := Distribution(nil)

	assert.Equal(t, types.DistributionStats{}, dist.Overall)
	assert.Equal(t, 0, dist.ScoreRanges["expert"])
}

func TestMedianEvenPopulation(t *testing.T) {
	assert.InDelta(t, 15.0, median([]float64{30, 10, 20, 0}), 1e-9)
}

func TestStddevSingleValue(t *testing.T) {
	assert.Equal(t, 0.0, stddev([]float64{42}, 42))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-9)
}
