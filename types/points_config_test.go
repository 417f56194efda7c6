package types

import (
	"testing"

	"github.com/faunapedia/api-go/models"
	"github.com/stretchr/testify/assert"
)

func TestQuestionPoints(t *testing.T) {
	assert.Equal(t, 50, QuestionPoints(models.DifficultyHard))
	assert.Equal(t, 30, QuestionPoints(models.DifficultyMedium))
	assert.Equal(t, 10, QuestionPoints(models.DifficultyEasy))
	assert.Equal(t, 10, QuestionPoints(""))
}

func TestBadgeRulesAreOrdered(t *testing.T) {
	for i := 1; i < len(BadgeRules); i++ {
		assert.Less(t, BadgeRules[i-1].Threshold, BadgeRules[i].Threshold)
	}
}

func TestGetBadgeRule(t *testing.T) {
	rule := GetBadgeRule(models.BadgePhotographer)
	assert.Equal(t, int64(5), rule.Threshold)
	assert.Equal(t, "Passionate Photographer", rule.Label)

	legacy := GetBadgeRule("NIGHT_OWL")
	assert.Equal(t, "NIGHT_OWL", legacy.Label)
	assert.NotEmpty(t, legacy.Emoji)
}
