package seed

import (
	"testing"

	"github.com/faunapedia/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Animals, 10)
	assert.Len(t, c.Questions, 6)

	names := make(map[string]bool)
	for _, a := range c.Animals {
		names[a.Name] = true
		assert.NotEmpty(t, a.NativeRegions, a.Name)
	}
	for _, q := range c.Questions {
		assert.True(t, names[q.Animal], "question %q links unknown animal %q", q.Question, q.Animal)
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown category", `animals: [{name: Lion, category: Plant}]`},
		{"duplicate animal", `animals: [{name: Lion, category: Mammal}, {name: Lion, category: Mammal}]`},
		{"three options", `questions: [{question: Q, options: [a, b, c], correctAnswer: 0}]`},
		{"answer out of range", `questions: [{question: Q, options: [a, b, c, d], correctAnswer: 4}]`},
		{"unknown difficulty", `questions: [{question: Q, options: [a, b, c, d], correctAnswer: 0, difficulty: brutal}]`},
		{"malformed", `animals: {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestQuestionModelDefaultsDifficulty(t *testing.T) {
	q := Question{Question: "Q", Options: []string{"a", "b", "c", "d"}}.Model()
	assert.Equal(t, models.DifficultyMedium, q.Difficulty)
}
