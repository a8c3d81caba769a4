package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

func TestComputeTeamMetrics(t *testing.T) {
	scores := make([]types.UserScore, 20)
	for i := range scores {
		f := float64(i * 5)
		scores[i] = types.UserScore{
			UserID:             "user_" + string(rune('a'+i)),
			DiscoveryScore:     f,
			CollaborationScore: 100 - f,
			DocumentationScore: f / 2,
			ReuseScore:         50,
			OverallScore:       f,
		}
	}

	teams := NewClusterer(DefaultSeed).ComputeTeamMetrics(scores)
	require.NotEmpty(t, teams)

	totalMembers := 0
	for _, team := range teams {
		totalMembers += team.MemberCount
		assert.Equal(t, team.MemberCount, len(team.MemberUserIDs))
		assert.NotEmpty(t, team.TeamID)
		assert.NotEmpty(t, team.TeamName)
		assert.LessOrEqual(t, len(team.TopPerformers), 3)
		assert.InDelta(t, team.AvgCollaborationScr, team.CollaborationIndex, 1e-9)
		assert.InDelta(t, 100-team.AvgNeuraScore, team.ImprovementPotential, 1e-9)
	}
	// every user lands in exactly one team
	assert.Equal(t, len(scores), totalMembers)
}

func TestComputeTeamMetricsReproducible(t *testing.T) {
	scores := scoresWithOverall(90, 85, 80, 40, 35, 30, 70, 65, 20, 15)
	for i := range scores {
		scores[i].DiscoveryScore = scores[i].OverallScore
		scores[i].CollaborationScore = scores[i].OverallScore
		scores[i].DocumentationScore = scores[i].OverallScore
		scores[i].ReuseScore = scores[i].OverallScore
	}

	c := NewClusterer(DefaultSeed)
	first := c.ComputeTeamMetrics(scores)
	second := c.ComputeTeamMetrics(scores)

	assert.Equal(t, first, second)
}

func TestComputeTeamMetricsEmptyPopulation(t *testing.T) {
	teams := NewClusterer(DefaultSeed).ComputeTeamMetrics(nil)
	assert.Empty(t, teams)
}

func TestBuildTeamAggregates(t *testing.T) {
	users := []types.UserScore{
		{UserID: "a", OverallScore: 80, DiscoveryScore: 70, CollaborationScore: 60, DocumentationScore: 50, ReuseScore: 40},
		{UserID: "b", OverallScore: 40, DiscoveryScore: 30, CollaborationScore: 20, DocumentationScore: 10, ReuseScore: 0},
	}

	team := buildTeam(0, users)

	assert.Equal(t, "team_01", team.TeamID)
	assert.Equal(t, "Data Explorers", team.TeamName)
	assert.Equal(t, 2, team.MemberCount)
	assert.InDelta(t, 60.0, team.AvgNeuraScore, 1e-9)
	assert.InDelta(t, 50.0, team.AvgDiscoveryScore, 1e-9)
	assert.InDelta(t, 40.0, team.ImprovementPotential, 1e-9)
	assert.Equal(t, []string{"a", "b"}, team.TopPerformers)
}
