package types

import "github.com/faunapedia/api-go/models"

const (
	HARD_QUESTION_POINTS    = 50
	MEDIUM_QUESTION_POINTS  = 30
	DEFAULT_QUESTION_POINTS = 10

	QUIZ_SESSION_SIZE = 5
)

type BadgeRule struct {
	Code      models.BadgeCode `json:"code"`
	Label     string           `json:"label"`
	Emoji     string           `json:"emoji"`
	Threshold int64            `json:"threshold"` // posts required
}

// BadgeRules is ordered by threshold. Badges are awarded in this order.
var BadgeRules = []BadgeRule{
	{Code: models.BadgeFirstPost, Label: "Beginner Explorer", Emoji: "🥇", Threshold: 1},
	{Code: models.BadgePhotographer, Label: "Passionate Photographer", Emoji: "📸", Threshold: 5},
	{Code: models.BadgeExpert, Label: "Wildlife Expert", Emoji: "🏆", Threshold: 20},
}

// GetBadgeRule returns the rule for code, or a generic rule for codes no
// longer in the table.
func GetBadgeRule(code models.BadgeCode) BadgeRule {
	for _, rule := range BadgeRules {
		if rule.Code == code {
			return rule
		}
	}
	return BadgeRule{Code: code, Label: string(code), Emoji: "🎖️"}
}

// QuestionPoints is the award for a correctly answered question.
func QuestionPoints(difficulty models.Difficulty) int {
	switch difficulty {
	case models.DifficultyHard:
		return HARD_QUESTION_POINTS
	case models.DifficultyMedium:
		return MEDIUM_QUESTION_POINTS
	default:
		return DEFAULT_QUESTION_POINTS
	}
}
