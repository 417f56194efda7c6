package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/faunapedia/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badgeCodes(badges []models.Badge) []models.BadgeCode {
	codes := make([]models.BadgeCode, 0, len(badges))
	for _, b := range badges {
		codes = append(codes, b.Code)
	}
	return codes
}

func TestNewBadges(t *testing.T) {
	tests := []struct {
		posts int64
		held  []models.BadgeCode
		want  []models.BadgeCode
	}{
		{posts: 0},
		{posts: 1, want: []models.BadgeCode{models.BadgeFirstPost}},
		{posts: 4, held: []models.BadgeCode{models.BadgeFirstPost}},
		{posts: 5, held: []models.BadgeCode{models.BadgeFirstPost}, want: []models.BadgeCode{models.BadgePhotographer}},
		{posts: 20, want: []models.BadgeCode{models.BadgeFirstPost, models.BadgePhotographer, models.BadgeExpert}},
		{posts: 25, held: []models.BadgeCode{models.BadgeFirstPost, models.BadgePhotographer, models.BadgeExpert}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d posts", tt.posts), func(t *testing.T) {
			user := &models.User{}
			for _, code := range tt.held {
				user.Badges = append(user.Badges, models.Badge{Code: code})
			}
			earned := NewBadges(tt.posts, user, epoch)
			assert.Equal(t, len(tt.want), len(earned))
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, badgeCodes(earned))
			}
			for _, b := range earned {
				assert.Equal(t, epoch, b.EarnedAt)
			}
		})
	}
}

func TestBadgesAccumulateWithPosts(t *testing.T) {
	f := newFixture(t)
	f.posts.OnCommit(f.game.BadgeHook())
	user := f.user(t, "ext-user", "explorer")
	lion := f.animal(t, "Lion")

	held := func() []models.BadgeCode {
		u, err := f.store.GetUser(f.ctx, user.ID)
		require.NoError(t, err)
		return badgeCodes(u.Badges)
	}

	f.post(t, user, lion)
	assert.Equal(t, []models.BadgeCode{models.BadgeFirstPost}, held())

	for i := 1; i < 5; i++ {
		f.post(t, user, lion)
	}
	assert.Equal(t, []models.BadgeCode{models.BadgeFirstPost, models.BadgePhotographer}, held())

	for i := 5; i < 20; i++ {
		f.post(t, user, lion)
	}
	assert.Equal(t, []models.BadgeCode{models.BadgeFirstPost, models.BadgePhotographer, models.BadgeExpert}, held())

	earned, err := f.game.AwardBadges(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, earned)
	assert.Len(t, held(), 3)
}

func TestAwardBadgesUnknownUser(t *testing.T) {
	f := newFixture(t)

	earned, err := f.game.AwardBadges(f.ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, earned)
}

func TestCreatePostSurvivesFailingHooks(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "ext-user", "explorer")
	lion := f.animal(t, "Lion")

	var ran []string
	f.posts.OnCommit(func(ctx context.Context, post *models.Post) error {
		ran = append(ran, "error")
		return errors.New("badge store unavailable")
	})
	f.posts.OnCommit(func(ctx context.Context, post *models.Post) error {
		ran = append(ran, "panic")
		panic("boom")
	})
	f.posts.OnCommit(f.game.BadgeHook())

	view := f.post(t, user, lion)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, []string{"error", "panic"}, ran)

	stored, err := f.store.GetPost(f.ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.User.ID())

	u, err := f.store.GetUser(f.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, u.HasBadge(models.BadgeFirstPost))
}

func TestSubmitAnswer(t *testing.T) {
	tests := []struct {
		name       string
		difficulty models.Difficulty
		answer     int
		wantPoints int
	}{
		{"hard", models.DifficultyHard, 2, 50},
		{"medium", models.DifficultyMedium, 2, 30},
		{"easy", models.DifficultyEasy, 2, 10},
		{"wrong", models.DifficultyHard, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.user(t, "ext-user", "player")
			q := &models.QuizQuestion{
				Question:      "Which one roars?",
				Options:       []string{"Koala", "Giraffe", "Lion", "Dolphin"},
				CorrectAnswer: 2,
				Difficulty:    tt.difficulty,
			}
			require.NoError(t, f.store.UpsertQuestion(f.ctx, q))

			result, err := f.game.SubmitAnswer(f.ctx, user.ID, q.ID, tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints > 0, result.Correct)
			assert.Equal(t, 2, result.CorrectIndex)
			assert.Equal(t, tt.wantPoints, result.PointsAwarded)

			u, err := f.store.GetUser(f.ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(tt.wantPoints), u.Points)
		})
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "ext-user", "player")

	_, err := f.game.SubmitAnswer(f.ctx, user.ID, "missing", 0)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestAddPointsIgnoresNonPositiveAmounts(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "ext-user", "player")

	require.NoError(t, f.game.AddPoints(f.ctx, user.ID, -10))
	require.NoError(t, f.game.AddPoints(f.ctx, user.ID, 0))
	require.NoError(t, f.game.AddPoints(f.ctx, user.ID, 30))

	u, err := f.store.GetUser(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), u.Points)

	assert.ErrorIs(t, f.game.AddPoints(f.ctx, "missing", 10), ErrUserNotFound)
}

func TestQuizSession(t *testing.T) {
	f := newFixture(t)

	questions, err := f.game.QuizSession(f.ctx)
	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)

	for i := 0; i < 8; i++ {
		require.NoError(t, f.store.UpsertQuestion(f.ctx, &models.QuizQuestion{
			Question:   fmt.Sprintf("Question %d", i),
			Options:    []string{"a", "b", "c", "d"},
			Difficulty: models.DifficultyEasy,
		}))
	}

	questions, err = f.game.QuizSession(f.ctx)
	require.NoError(t, err)
	assert.Len(t, questions, 5)

	seen := make(map[string]bool)
	for _, q := range questions {
		assert.False(t, seen[q.ID], "question %s drawn twice", q.ID)
		seen[q.ID] = true
	}
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	low := f.user(t, "ext-low", "low")
	high := f.user(t, "ext-high", "high")
	mid := f.user(t, "ext-mid", "mid")
	require.NoError(t, f.game.AddPoints(f.ctx, low.ID, 10))
	require.NoError(t, f.game.AddPoints(f.ctx, high.ID, 50))
	require.NoError(t, f.game.AddPoints(f.ctx, mid.ID, 30))

	entries, err := f.game.Leaderboard(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, want := range []string{"high", "mid", "low"} {
		assert.Equal(t, i+1, entries[i].Rank)
		assert.Equal(t, want, entries[i].Username)
	}

	entries, err = f.game.Leaderboard(f.ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = f.game.Leaderboard(f.ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
