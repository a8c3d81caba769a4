package insights

import (
	"fmt"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// Alert thresholds. performance risk and collaboration gap are stricter
// than the per-user insight rules because alerts call for intervention,
// not just coaching.
const (
	alertRiskThreshold        = 40.0
	alertAdvancementThreshold = 80.0
	alertCollaborationFloor   = 30.0

	// maxAffectedUsers caps the example ids attached to one alert.
	maxAffectedUsers = 5
)

// Alert flags a population segment that needs attention.
type Alert struct {
	Type           string   `json:"type"`
	Severity       string   `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	AffectedUsers  []string `json:"affected_users"`
	Recommendation string   `json:"recommendation"`
}

// AlertReport bundles the alerts with severity counts.
type AlertReport struct {
	Alerts         []Alert `json:"alerts"`
	TotalAlerts    int     `json:"total_alerts"`
	HighPriority   int     `json:"high_priority"`
	MediumPriority int     `json:"medium_priority"`
}

// GenerateAlerts scans the population for three conditions: users below
// the performance-risk line, high performers ready for advancement, and
// users with a collaboration gap. An alert fires only when at least one
// user matches; a quiet population yields an empty report.
func GenerateAlerts(scores []types.UserScore) *AlertReport {
	var atRisk, advancing, isolated []string
	for _, s := range scores {
		if s.OverallScore < alertRiskThreshold {
			atRisk = append(atRisk, s.UserID)
		}
		if s.OverallScore > alertAdvancementThreshold {
			advancing = append(advancing, s.UserID)
		}
		if s.CollaborationScore < alertCollaborationFloor {
			isolated = append(isolated, s.UserID)
		}
	}

	report := &AlertReport{Alerts: []Alert{}}

	if len(atRisk) > 0 {
		report.Alerts = append(report.Alerts, Alert{
			Type:           "performance_risk",
			Severity:       "high",
			Title:          fmt.Sprintf("%d Users at Performance Risk", len(atRisk)),
			Description:    "Users showing declining performance patterns that may need intervention",
			AffectedUsers:  capUsers(atRisk),
			Recommendation: "Provide targeted training and support",
		})
	}
	if len(advancing) > 0 {
		report.Alerts = append(report.Alerts, Alert{
			Type:           "advancement_opportunity",
			Severity:       "medium",
			Title:          fmt.Sprintf("%d Users Ready for Advanced Roles", len(advancing)),
			Description:    "High-performing users who could take on leadership or mentoring roles",
			AffectedUsers:  capUsers(advancing),
			Recommendation: "Consider for leadership development programs",
		})
	}
	if len(isolated) > 0 {
		report.Alerts = append(report.Alerts, Alert{
			Type:           "collaboration_gap",
			Severity:       "medium",
			Title:          fmt.Sprintf("%d Users with Low Collaboration", len(isolated)),
			Description:    "Users showing limited collaboration that may impact team dynamics",
			AffectedUsers:  capUsers(isolated),
			Recommendation: "Implement team-building and collaboration initiatives",
		})
	}

	report.TotalAlerts = len(report.Alerts)
	for _, a := range report.Alerts {
		switch a.Severity {
		case "high":
			report.HighPriority++
		case "medium":
			report.MediumPriority++
		}
	}

	return report
}

func capUsers(ids []string) []string {
	if len(ids) > maxAffectedUsers {
		return ids[:maxAffectedUsers]
	}
	return ids
}
