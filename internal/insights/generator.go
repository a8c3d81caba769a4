// Package insights turns score and team aggregates into recommendation
// objects via a fixed, threshold-driven rule table. Rules are evaluated
// independently; every matching rule emits an insight.
package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/analysis"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/nlp"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// Rule thresholds. All comparisons are strict.
const (
	userLowDiscoveryThreshold  = 40.0
	userHighPerformerThreshold = 80.0
	userImbalanceSpread        = 40.0
	teamLowScoreThreshold      = 50.0
	teamHighScoreThreshold     = 75.0
	teamLowCollaboration       = 40.0
	orgLowDiscoveryMean        = 50.0
	orgImbalanceStd            = 25.0
	orgLowDocumentationMean    = 50.0
	orgLowReuseMean            = 45.0
	orgLowTextQualityMean      = 50.0
)

const orgID = "org_001"

// Generator synthesizes insights from a score/team snapshot. It holds
// no state between runs; calling it twice on the same input triggers
// the same rule set.
type Generator struct {
	textAnalyzer *nlp.Analyzer
}

// NewGenerator creates a generator. textAnalyzer may be nil, which
// disables the documentation text-quality rule.
func NewGenerator(textAnalyzer *nlp.Analyzer) *Generator {
	return &Generator{textAnalyzer: textAnalyzer}
}

// Generate evaluates the full rule table over user scores, team
// metrics, and optional documentation text samples. The result is
// sorted by priority descending with ties keeping generation order.
func (g *Generator) Generate(scores []types.UserScore, teams []types.TeamMetrics, docTexts []string) []types.Insight {
	now := time.Now()
	out := make([]types.Insight, 0)

	out = append(out, g.userInsights(scores, now)...)
	out = append(out, g.teamInsights(teams, now)...)
	out = append(out, g.orgInsights(scores, docTexts, now)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriorityScore > out[j].PriorityScore
	})
	return out
}

func (g *Generator) userInsights(scores []types.UserScore, now time.Time) []types.Insight {
	var lowDiscovery, highPerformers, imbalanced int
	for _, s := range scores {
		if s.DiscoveryScore < userLowDiscoveryThreshold {
			lowDiscovery++
		}
		if s.OverallScore >= userHighPerformerThreshold {
			highPerformers++
		}
		if pillarSpread(s) > userImbalanceSpread {
			imbalanced++
		}
	}

	var out []types.Insight
	if lowDiscovery > 0 {
		out = append(out, newInsight("low_discovery", types.TargetUser,
			fmt.Sprintf("group_%d_users", lowDiscovery),
			fmt.Sprintf("%d users showing low data discovery activity", lowDiscovery), now))
	}
	if highPerformers > 0 {
		out = append(out, newInsight("high_performer", types.TargetUser,
			fmt.Sprintf("group_%d_users", highPerformers),
			fmt.Sprintf("%d users demonstrating exceptional data literacy", highPerformers), now))
	}
	if imbalanced > 0 {
		out = append(out, newInsight("team_imbalance", types.TargetUser,
			fmt.Sprintf("group_%d_users", imbalanced),
			fmt.Sprintf("%d users showing uneven skill development", imbalanced), now))
	}
	return out
}

func (g *Generator) teamInsights(teams []types.TeamMetrics, now time.Time) []types.Insight {
	var out []types.Insight
	for _, team := range teams {
		if team.AvgNeuraScore < teamLowScoreThreshold {
			out = append(out, newInsight("low_discovery", types.TargetTeam, team.TeamID,
				fmt.Sprintf("Team %s shows below-average data literacy (Score: %.1f)",
					team.TeamName, team.AvgNeuraScore), now))
		}
		if team.CollaborationIndex < teamLowCollaboration {
			out = append(out, newInsight("low_collaboration", types.TargetTeam, team.TeamID,
				fmt.Sprintf("Team %s needs improved collaboration practices", team.TeamName), now))
		}
		if team.AvgNeuraScore >= teamHighScoreThreshold {
			out = append(out, newInsight("high_performer", types.TargetTeam, team.TeamID,
				fmt.Sprintf("Team %s demonstrates excellent data literacy (Score: %.1f)",
					team.TeamName, team.AvgNeuraScore), now))
		}
	}
	return out
}

func (g *Generator) orgInsights(scores []types.UserScore, docTexts []string, now time.Time) []types.Insight {
	if len(scores) == 0 {
		return nil
	}

	var overall, discovery, documentation, reuse []float64
	for _, s := range scores {
		overall = append(overall, s.OverallScore)
		discovery = append(discovery, s.DiscoveryScore)
		documentation = append(documentation, s.DocumentationScore)
		reuse = append(reuse, s.ReuseScore)
	}

	var out []types.Insight

	if mean := analysis.Mean(discovery); mean < orgLowDiscoveryMean {
		out = append(out, newInsight("low_discovery", types.TargetOrganization, orgID,
			fmt.Sprintf("Organization-wide data discovery needs improvement (Average: %.1f)", mean), now))
	}
	if std := sampleStd(overall); std > orgImbalanceStd {
		out = append(out, newInsight("team_imbalance", types.TargetOrganization, orgID,
			"High variability in data literacy across the organization", now))
	}
	if mean := analysis.Mean(documentation); mean < orgLowDocumentationMean {
		out = append(out, newInsight("low_documentation", types.TargetOrganization, orgID,
			fmt.Sprintf("Organization-wide documentation quality needs attention (Score: %.1f)", mean), now))
	}
	if mean := analysis.Mean(reuse); mean < orgLowReuseMean {
		out = append(out, newInsight("low_reuse", types.TargetOrganization, orgID,
			fmt.Sprintf("Low data reuse patterns across organization (Score: %.1f)", mean), now))
	}

	if g.textAnalyzer != nil && len(docTexts) > 0 {
		quality := make([]float64, len(docTexts))
		for i, text := range docTexts {
			quality[i] = g.textAnalyzer.Analyze(text).QualityScore
		}
		if mean := analysis.Mean(quality); mean < orgLowTextQualityMean {
			out = append(out, newInsight("low_documentation", types.TargetOrganization, orgID,
				fmt.Sprintf("Dataset descriptions score poorly on text quality (Score: %.1f)", mean), now))
		}
	}

	return out
}

func pillarSpread(s types.UserScore) float64 {
	pillars := []float64{s.DiscoveryScore, s.CollaborationScore, s.DocumentationScore, s.ReuseScore}
	lo, hi := pillars[0], pillars[0]
	for _, p := range pillars[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	return hi - lo
}

func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := analysis.Mean(xs)
	ss := 0.0
	for _, v := range xs {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func newInsight(ruleName string, entity types.TargetEntity, targetID, description string, now time.Time) types.Insight {
	tmpl := templates[ruleName]
	return types.Insight{
		ID:            uuid.NewString(),
		Type:          "recommendation",
		Title:         tmpl.Title,
		Description:   description,
		ImpactLevel:   tmpl.Impact,
		TargetEntity:  entity,
		TargetID:      targetID,
		ActionItems:   tmpl.ActionItems,
		PriorityScore: priorityScores[tmpl.Impact],
		CreatedAt:     now,
	}
}

// Filter returns insights matching the given entity type and/or id.
// Empty arguments match everything.
func Filter(list []types.Insight, entityType, entityID string) []types.Insight {
	out := make([]types.Insight, 0, len(list))
	for _, in := range list {
		if entityType != "" && string(in.TargetEntity) != entityType {
			continue
		}
		if entityID != "" && in.TargetID != entityID {
			continue
		}
		out = append(out, in)
	}
	return out
}
