package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

func alertsByType(report *AlertReport) map[string]Alert {
	out := make(map[string]Alert, len(report.Alerts))
	for _, a := range report.Alerts {
		out[a.Type] = a
	}
	return out
}

func TestGenerateAlerts(t *testing.T) {
	scores := []types.UserScore{
		{UserID: "u1", OverallScore: 30, CollaborationScore: 25},
		{UserID: "u2", OverallScore: 85, CollaborationScore: 90},
		{UserID: "u3", OverallScore: 55, CollaborationScore: 50},
	}

	report := GenerateAlerts(scores)
	require.Equal(t, 3, report.TotalAlerts)
	assert.Equal(t, 1, report.HighPriority)
	assert.Equal(t, 2, report.MediumPriority)

	byType := alertsByType(report)

	risk := byType["performance_risk"]
	assert.Equal(t, "high", risk.Severity)
	assert.Equal(t, "1 Users at Performance Risk", risk.Title)
	assert.Equal(t, []string{"u1"}, risk.AffectedUsers)

	adv := byType["advancement_opportunity"]
	assert.Equal(t, "medium", adv.Severity)
	assert.Equal(t, []string{"u2"}, adv.AffectedUsers)

	gap := byType["collaboration_gap"]
	assert.Equal(t, "medium", gap.Severity)
	assert.Equal(t, []string{"u1"}, gap.AffectedUsers)
}

func TestGenerateAlertsBoundariesAreStrict(t *testing.T) {
	// exactly on each threshold fires nothing
	scores := []types.UserScore{
		{UserID: "u1", OverallScore: 40, CollaborationScore: 30},
		{UserID: "u2", OverallScore: 80, CollaborationScore: 60},
	}

	report := GenerateAlerts(scores)
	assert.Equal(t, 0, report.TotalAlerts)
	assert.Empty(t, report.Alerts)
}

func TestGenerateAlertsCapsAffectedUsers(t *testing.T) {
	scores := make([]types.UserScore, 8)
	for i := range scores {
		scores[i] = types.UserScore{
			UserID:             fmt.Sprintf("u%d", i+1),
			OverallScore:       20,
			CollaborationScore: 50,
		}
	}

	report := GenerateAlerts(scores)
	byType := alertsByType(report)

	risk := byType["performance_risk"]
	assert.Equal(t, "8 Users at Performance Risk", risk.Title)
	assert.Len(t, risk.AffectedUsers, 5)
}

func TestGenerateAlertsEmptyPopulation(t *testing.T) {
	report := GenerateAlerts(nil)
	assert.Equal(t, 0, report.TotalAlerts)
	assert.NotNil(t, report.Alerts)
}
