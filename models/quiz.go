package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const QuizOptionCount = 4

type QuizQuestion struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"-"`
	AnimalID      string     `json:"animal,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Valid checks that the question has four options and that the correct
// index points into them.
func (q *QuizQuestion) Valid() bool {
	return len(q.Options) == QuizOptionCount &&
		q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}

type QuizResult struct {
	Correct       bool `json:"correct"`
	CorrectIndex  int  `json:"correctIndex"`
	PointsAwarded int  `json:"pointsAwarded"`
}

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"id"`
	Username   string `json:"username"`
	Photo      string `json:"photo,omitempty"`
	Points     int64  `json:"points"`
	BadgeCount int    `json:"badgeCount"`
}
