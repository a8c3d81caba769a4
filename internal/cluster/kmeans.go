// Package cluster partitions the scored user population into cohorts:
// k-means over the four pillar dimensions for synthetic team
// assignment, and a fixed threshold split for human-readable pattern
// segmentation.
package cluster

import (
	"math"
	"math/rand"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// DefaultSeed feeds the k-means RNG. Team assignment must be
// reproducible for a given population, so the seed is part of the
// contract rather than an implementation detail.
const DefaultSeed int64 = 42

const (
	maxClusters   = 8
	usersPerTeam  = 5
	maxIterations = 100
	restarts      = 10
)

// clusterCount sizes k for a population: teams of roughly five users,
// capped at eight, never fewer than two.
func clusterCount(population int) int {
	k := population / usersPerTeam
	if k > maxClusters {
		k = maxClusters
	}
	if k < 2 {
		k = 2
	}
	return k
}

// pillarPoint extracts the 4-dimensional pillar coordinates of a user.
func pillarPoint(s types.UserScore) [4]float64 {
	return [4]float64{s.DiscoveryScore, s.CollaborationScore, s.DocumentationScore, s.ReuseScore}
}

func sqDist(a, b [4]float64) float64 {
	d := 0.0
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}

// kmeans assigns each point to one of k clusters by Lloyd's algorithm
// with several seeded restarts, keeping the assignment with the lowest
// inertia. Every cluster in the result is non-empty: a cluster that
// empties mid-iteration is reseeded with the point farthest from its
// centroid.
func kmeans(points [][4]float64, k int, seed int64) []int {
	if k > len(points) {
		k = len(points)
	}

	rng := rand.New(rand.NewSource(seed))
	bestInertia := math.Inf(1)
	var best []int

	for r := 0; r < restarts; r++ {
		assign, inertia := kmeansOnce(points, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			best = assign
		}
	}
	return best
}

func kmeansOnce(points [][4]float64, k int, rng *rand.Rand) ([]int, float64) {
	n := len(points)

	// Initialize centroids from k distinct sample points.
	centroids := make([][4]float64, k)
	for i, p := range rng.Perm(n)[:k] {
		centroids[i] = points[p]
	}

	assign := make([]int, n)
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			bestC, bestD := 0, math.Inf(1)
			for c, cent := range centroids {
				if d := sqDist(p, cent); d < bestD {
					bestC, bestD = c, d
				}
			}
			if assign[i] != bestC {
				assign[i] = bestC
				changed = true
			}
		}

		counts := make([]int, k)
		sums := make([][4]float64, k)
		for i, p := range points {
			c := assign[i]
			counts[c]++
			for d := range p {
				sums[c][d] += p[d]
			}
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Reseed the empty cluster with the point farthest
				// from its current assignment's centroid.
				far, farD := 0, -1.0
				for i, p := range points {
					if d := sqDist(p, centroids[assign[i]]); d > farD {
						far, farD = i, d
					}
				}
				assign[far] = c
				centroids[c] = points[far]
				changed = true
				continue
			}
			for d := 0; d < 4; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p, centroids[assign[i]])
	}
	return assign, inertia
}
