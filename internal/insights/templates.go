package insights

import "github.com/RobotTopDZ/NeuraScore-organizational-Data-Literacy-Scores/internal/types"

// template is the fixed content emitted for a rule, keyed by rule name.
type template struct {
	Title       string
	Description string
	ActionItems []string
	Impact      types.ImpactLevel
}

var templates = map[string]template{
	"low_discovery": {
		Title:       "Improve Data Discovery",
		Description: "Users are not actively exploring available datasets",
		ActionItems: []string{
			"Organize data discovery workshops",
			"Create guided data exploration tutorials",
			"Implement data catalog search training",
			"Set up regular \"Dataset of the Week\" showcases",
		},
		Impact: types.ImpactHigh,
	},
	"low_collaboration": {
		Title:       "Enhance Team Collaboration",
		Description: "Limited data sharing and collaborative analysis patterns detected",
		ActionItems: []string{
			"Establish cross-team data sharing protocols",
			"Create collaborative workspaces for data projects",
			"Implement peer review processes for analyses",
			"Set up regular data collaboration meetings",
		},
		Impact: types.ImpactMedium,
	},
	"low_documentation": {
		Title:       "Improve Documentation Quality",
		Description: "Dataset documentation and metadata quality needs enhancement",
		ActionItems: []string{
			"Develop documentation standards and templates",
			"Provide metadata quality training sessions",
			"Implement documentation review processes",
			"Create automated documentation quality checks",
		},
		Impact: types.ImpactHigh,
	},
	"low_reuse": {
		Title:       "Increase Data Reuse",
		Description: "Users are not effectively reusing existing datasets",
		ActionItems: []string{
			"Create dataset recommendation system",
			"Highlight frequently used datasets",
			"Develop data reuse best practices guide",
			"Implement usage analytics and insights",
		},
		Impact: types.ImpactMedium,
	},
	"high_performer": {
		Title:       "Leverage High Performers",
		Description: "Identify and leverage users with exceptional data literacy",
		ActionItems: []string{
			"Designate as data champions or mentors",
			"Create knowledge sharing sessions",
			"Develop advanced training programs",
			"Establish data literacy ambassador roles",
		},
		Impact: types.ImpactLow,
	},
	"team_imbalance": {
		Title:       "Address Team Skill Imbalances",
		Description: "Significant skill gaps detected within teams",
		ActionItems: []string{
			"Implement peer mentoring programs",
			"Provide targeted skill development training",
			"Create balanced project team compositions",
			"Establish skill-sharing initiatives",
		},
		Impact: types.ImpactHigh,
	},
}

// priorityScores maps impact to priority. Priority derives solely from
// impact level.
var priorityScores = map[types.ImpactLevel]int{
	types.ImpactHigh:   90,
	types.ImpactMedium: 60,
	types.ImpactLow:    30,
}
