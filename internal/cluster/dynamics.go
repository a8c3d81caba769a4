package cluster

import (
	"math"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/errors"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// DynamicsMetrics are the four 0-1 indicators computed per team.
type DynamicsMetrics struct {
	CollaborationIndex     float64 `json:"collaboration_index"`
	SkillDiversity         float64 `json:"skill_diversity"`
	PerformanceConsistency float64 `json:"performance_consistency"`
	GrowthPotential        float64 `json:"growth_potential"`
}

// TeamDynamics is one team's dynamics assessment.
type TeamDynamics struct {
	TeamID           string          `json:"team_id"`
	TeamName         string          `json:"team_name"`
	Metrics          DynamicsMetrics `json:"metrics"`
	Strengths        []string        `json:"strengths"`
	ImprovementAreas []string        `json:"improvement_areas"`
	Recommendations  []string        `json:"recommendations"`
}

// DynamicsReport bundles per-team assessments with cross-team insights.
type DynamicsReport struct {
	Teams             []TeamDynamics `json:"team_analysis"`
	CrossTeamInsights []string       `json:"cross_team_insights"`
}

// AnalyzeTeamDynamics assesses collaboration, skill spread, consistency
// and growth headroom for each team, over the team's actual member
// scores. Indicators are on a 0-1 scale: the collaboration index is the
// member collaboration mean over 100, skill diversity is the mean
// per-pillar standard deviation over 100, consistency is 1 minus the
// overall-score deviation over 100, and growth potential is the
// remaining headroom to a perfect overall mean over 100.
func AnalyzeTeamDynamics(teams []types.TeamMetrics, scores []types.UserScore) (*DynamicsReport, error) {
	if len(teams) == 0 {
		return nil, errors.NewInsufficientDataError(
			"Insufficient data for team dynamics analysis", 0, 1)
	}

	byID := make(map[string]types.UserScore, len(scores))
	for _, s := range scores {
		byID[s.UserID] = s
	}

	report := &DynamicsReport{Teams: make([]TeamDynamics, 0, len(teams))}
	collabSum := 0.0

	for _, team := range teams {
		members := make([]types.UserScore, 0, len(team.MemberUserIDs))
		for _, id := range team.MemberUserIDs {
			if s, ok := byID[id]; ok {
				members = append(members, s)
			}
		}
		if len(members) == 0 {
			continue
		}

		m := dynamicsMetrics(members)
		collabSum += m.CollaborationIndex

		report.Teams = append(report.Teams, TeamDynamics{
			TeamID:           team.TeamID,
			TeamName:         team.TeamName,
			Metrics:          m,
			Strengths:        teamStrengths(m),
			ImprovementAreas: teamImprovementAreas(m),
			Recommendations:  teamRecommendations(m),
		})
	}

	if len(report.Teams) == 0 {
		return nil, errors.NewInsufficientDataError(
			"Insufficient data for team dynamics analysis", 0, 1)
	}

	avgCollab := collabSum / float64(len(report.Teams))
	if avgCollab > 0.7 {
		report.CrossTeamInsights = []string{"Organization shows strong collaborative culture across teams"}
	} else {
		report.CrossTeamInsights = []string{"Opportunity to improve cross-team collaboration"}
	}

	return report, nil
}

func dynamicsMetrics(members []types.UserScore) DynamicsMetrics {
	pillars := [][]float64{
		scoreColumn(members, func(s types.UserScore) float64 { return s.DiscoveryScore }),
		scoreColumn(members, func(s types.UserScore) float64 { return s.CollaborationScore }),
		scoreColumn(members, func(s types.UserScore) float64 { return s.DocumentationScore }),
		scoreColumn(members, func(s types.UserScore) float64 { return s.ReuseScore }),
	}
	overall := scoreColumn(members, func(s types.UserScore) float64 { return s.OverallScore })

	diversitySum := 0.0
	for _, col := range pillars {
		diversitySum += sampleStddev(col)
	}

	return DynamicsMetrics{
		CollaborationIndex:     mean(pillars[1]) * 0.01,
		SkillDiversity:         diversitySum / float64(len(pillars)) * 0.01,
		PerformanceConsistency: 1 - sampleStddev(overall)/100,
		GrowthPotential:        (100 - mean(overall)) * 0.01,
	}
}

func teamStrengths(m DynamicsMetrics) []string {
	var out []string
	if m.CollaborationIndex > 0.7 {
		out = append(out, "Strong collaborative culture")
	}
	if m.PerformanceConsistency > 0.8 {
		out = append(out, "Consistent performance across members")
	}
	return out
}

func teamImprovementAreas(m DynamicsMetrics) []string {
	var out []string
	if m.CollaborationIndex < 0.5 {
		out = append(out, "Collaboration and teamwork")
	}
	if m.SkillDiversity < 0.3 {
		out = append(out, "Skill diversity and specialization")
	}
	return out
}

func teamRecommendations(m DynamicsMetrics) []string {
	var out []string
	if m.CollaborationIndex < 0.6 {
		out = append(out, "Implement regular team collaboration sessions")
	}
	if m.GrowthPotential > 0.3 {
		out = append(out, "Focus on skill development and training programs")
	}
	return out
}

func scoreColumn(members []types.UserScore, get func(types.UserScore) float64) []float64 {
	col := make([]float64, len(members))
	for i, m := range members {
		col[i] = get(m)
	}
	return col
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStddev is the n-1 standard deviation; 0 for fewer than two
// values.
func sampleStddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
