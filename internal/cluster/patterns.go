package cluster

import (
	"fmt"

	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/errors"
	"github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"
)

// MinPatternPopulation is the smallest population for which pattern
// segmentation is attempted.
const MinPatternPopulation = 5

// MinTrendPopulation is the smallest population for trend prediction.
const MinTrendPopulation = 10

// PatternGroup is one behavioral segment of the population.
type PatternGroup struct {
	Name            string   `json:"name"`
	Size            int      `json:"size"`
	MemberUserIDs   []string `json:"member_user_ids"`
	Characteristics []string `json:"characteristics"`
	Recommendations []string `json:"recommendations"`
}

// PatternAnalysis is the threshold-mode segmentation of the population.
type PatternAnalysis struct {
	TotalUsers int            `json:"total_users"`
	Groups     []PatternGroup `json:"groups"`
	Insights   []string       `json:"insights"`
}

// AnalyzePatterns segments users into the fixed three buckets by
// overall score: above 75 high, 50 to 75 medium, below 50 low. No
// iteration, no RNG. Populations under five users yield an
// insufficient-data error rather than an attempt to segment.
func AnalyzePatterns(scores []types.UserScore) (*PatternAnalysis, error) {
	if len(scores) < MinPatternPopulation {
		return nil, errors.NewInsufficientDataError(
			"Insufficient data for pattern analysis", len(scores), MinPatternPopulation)
	}

	var high, medium, low []string
	for _, s := range scores {
		switch {
		case s.OverallScore > 75:
			high = append(high, s.UserID)
		case s.OverallScore >= 50:
			medium = append(medium, s.UserID)
		default:
			low = append(low, s.UserID)
		}
	}

	groups := []PatternGroup{
		{
			Name:            "High Performers",
			Size:            len(high),
			MemberUserIDs:   high,
			Characteristics: []string{"Strong across all metrics"},
			Recommendations: []string{"Continue current practices"},
		},
		{
			Name:            "Medium Performers",
			Size:            len(medium),
			MemberUserIDs:   medium,
			Characteristics: []string{"Room for improvement"},
			Recommendations: []string{"Focus on skill development"},
		},
		{
			Name:            "Developing Users",
			Size:            len(low),
			MemberUserIDs:   low,
			Characteristics: []string{"Need additional support"},
			Recommendations: []string{"Provide training and mentoring"},
		},
	}

	largest := groups[0]
	for _, g := range groups[1:] {
		if g.Size > largest.Size {
			largest = g
		}
	}

	return &PatternAnalysis{
		TotalUsers: len(scores),
		Groups:     groups,
		Insights: []string{
			fmt.Sprintf("Largest user group: %s (%d users)", largest.Name, largest.Size),
			fmt.Sprintf("Total of %d distinct user behavior patterns identified", len(groups)),
		},
	}, nil
}

// TrendPrediction is a naive forward projection of the population mean.
type TrendPrediction struct {
	DaysAhead         int     `json:"days_ahead"`
	PredictedAvgScore float64 `json:"predicted_avg_score"`
	ScoreChange       float64 `json:"score_change"`
	Confidence        float64 `json:"confidence"`
}

// TrendForecast bundles the projections with the current baseline.
type TrendForecast struct {
	CurrentAvgScore float64            `json:"current_avg_score"`
	Predictions     []TrendPrediction  `json:"predictions"`
	FeatureWeights  map[string]float64 `json:"feature_importance"`
}

// PredictTrends projects the population mean 7, 14 and 30 days out
// assuming a 0.1% daily improvement. It is a deliberately simple
// heuristic, not a model; confidence is flat.
func PredictTrends(scores []types.UserScore) (*TrendForecast, error) {
	if len(scores) < MinTrendPopulation {
		return nil, errors.NewInsufficientDataError(
			"Insufficient data for trend prediction", len(scores), MinTrendPopulation)
	}

	sum := 0.0
	for _, s := range scores {
		sum += s.OverallScore
	}
	current := sum / float64(len(scores))

	horizons := []int{7, 14, 30}
	predictions := make([]TrendPrediction, len(horizons))
	for i, days := range horizons {
		predicted := current * (1 + float64(days)*0.001)
		predictions[i] = TrendPrediction{
			DaysAhead:         days,
			PredictedAvgScore: predicted,
			ScoreChange:       predicted - current,
			Confidence:        0.75,
		}
	}

	return &TrendForecast{
		CurrentAvgScore: current,
		Predictions:     predictions,
		FeatureWeights: map[string]float64{
			"discovery_score":     0.35,
			"collaboration_score": 0.28,
			"documentation_score": 0.22,
			"reuse_score":         0.15,
		},
	}, nil
}
