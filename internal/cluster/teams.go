package cluster

import (
	"fmt"
	"sort"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// teamNamePool supplies human-readable names by cluster index.
var teamNamePool = []string{
	"Data Explorers", "Analytics Team", "Research Group", "Insights Squad",
	"Data Scientists", "Business Intelligence", "Data Engineers", "ML Team",
}

// Clusterer derives synthetic teams from scored users.
type Clusterer struct {
	seed int64
}

// NewClusterer creates a clusterer with the given RNG seed.
func NewClusterer(seed int64) *Clusterer {
	return &Clusterer{seed: seed}
}

// ComputeTeamMetrics partitions users into synthetic teams via k-means
// over the pillar-score space and aggregates per-team metrics. Teams
// are a derived view, regenerated whenever scores change.
func (c *Clusterer) ComputeTeamMetrics(scores []types.UserScore) []types.TeamMetrics {
	if len(scores) == 0 {
		return []types.TeamMetrics{}
	}

	points := make([][4]float64, len(scores))
	for i, s := range scores {
		points[i] = pillarPoint(s)
	}

	k := clusterCount(len(scores))
	assign := kmeans(points, k, c.seed)

	members := make(map[int][]types.UserScore)
	for i, cl := range assign {
		members[cl] = append(members[cl], scores[i])
	}

	teams := make([]types.TeamMetrics, 0, k)
	for cl := 0; cl < k; cl++ {
		users := members[cl]
		if len(users) == 0 {
			continue
		}
		teams = append(teams, buildTeam(cl, users))
	}
	return teams
}

func buildTeam(index int, users []types.UserScore) types.TeamMetrics {
	var overall, disc, collab, doc, reuse float64
	memberIDs := make([]string, len(users))
	for i, u := range users {
		memberIDs[i] = u.UserID
		overall += u.OverallScore
		disc += u.DiscoveryScore
		collab += u.CollaborationScore
		doc += u.DocumentationScore
		reuse += u.ReuseScore
	}
	n := float64(len(users))

	byOverall := append([]types.UserScore(nil), users...)
	sort.SliceStable(byOverall, func(i, j int) bool {
		return byOverall[i].OverallScore > byOverall[j].OverallScore
	})
	topN := 3
	if len(byOverall) < topN {
		topN = len(byOverall)
	}
	top := make([]string, topN)
	for i := 0; i < topN; i++ {
		top[i] = byOverall[i].UserID
	}

	name := fmt.Sprintf("Team %d", index+1)
	if index < len(teamNamePool) {
		name = teamNamePool[index]
	}

	return types.TeamMetrics{
		TeamID:               fmt.Sprintf("team_%02d", index+1),
		TeamName:             name,
		MemberCount:          len(users),
		MemberUserIDs:        memberIDs,
		AvgNeuraScore:        overall / n,
		AvgDiscoveryScore:    disc / n,
		AvgCollaborationScr:  collab / n,
		AvgDocumentationScr:  doc / n,
		AvgReuseScore:        reuse / n,
		TopPerformers:        top,
		CollaborationIndex:   collab / n,
		ImprovementPotential: 100 - overall/n,
	}
}
