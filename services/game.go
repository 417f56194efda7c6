package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"github.com/faunapedia/api-go/types"
	"go.uber.org/zap"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 50
)

// GameService scores quiz answers and hands out points and badges.
type GameService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewGameService(st store.Store, logger *zap.Logger) *GameService {
	return &GameService{store: st, logger: logger, now: time.Now}
}

// NewBadges returns the badges earned at postCount that user does not hold
// yet, in rule order.
func NewBadges(postCount int64, user *models.User, now time.Time) []models.Badge {
	var earned []models.Badge
	for _, rule := range types.BadgeRules {
		if postCount >= rule.Threshold && !user.HasBadge(rule.Code) {
			earned = append(earned, models.Badge{Code: rule.Code, EarnedAt: now})
		}
	}
	return earned
}

// AwardBadges grants every badge the user's post count qualifies for and
// returns the newly granted ones. An unknown user is a no-op.
func (s *GameService) AwardBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	count, err := s.store.CountPosts(ctx, store.PostFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	earned := NewBadges(count, user, s.now())
	if len(earned) == 0 {
		return nil, nil
	}
	if err := s.store.AddBadges(ctx, userID, earned); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("add badges: %w", err)
	}

	for _, b := range earned {
		s.logger.Info("badge awarded", zap.String("userId", userID), zap.String("badge", string(b.Code)))
	}
	return earned, nil
}

// BadgeHook awards badges to the author of a freshly created post.
func (s *GameService) BadgeHook() PostCommitHook {
	return func(ctx context.Context, post *models.Post) error {
		_, err := s.AwardBadges(ctx, post.User.ID())
		return err
	}
}

// AddPoints credits amount to the user. Points only ever grow, so a
// non-positive amount is ignored.
func (s *GameService) AddPoints(ctx context.Context, userID string, amount int) error {
	if amount <= 0 {
		return nil
	}
	if err := s.store.AddPoints(ctx, userID, amount); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("add points: %w", err)
	}
	return nil
}

// QuizSession draws a fresh random set of questions. Sessions are not
// deduplicated against earlier play.
func (s *GameService) QuizSession(ctx context.Context) ([]models.QuizQuestion, error) {
	questions, err := s.store.SampleQuestions(ctx, types.QUIZ_SESSION_SIZE)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	if questions == nil {
		questions = []models.QuizQuestion{}
	}
	return questions, nil
}

// SubmitAnswer scores answerIndex against the stored answer and credits the
// user on success. The correct index is always revealed.
func (s *GameService) SubmitAnswer(ctx context.Context, userID, questionID string, answerIndex int) (*models.QuizResult, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	question, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	result := &models.QuizResult{
		Correct:      answerIndex == question.CorrectAnswer,
		CorrectIndex: question.CorrectAnswer,
	}
	if !result.Correct {
		return result, nil
	}

	points := types.QuestionPoints(question.Difficulty)
	if err := s.AddPoints(ctx, userID, points); err != nil {
		return nil, err
	}
	result.PointsAwarded = points
	return result, nil
}

// Leaderboard ranks users by points. limit defaults to
// DefaultLeaderboardSize and is capped at MaxLeaderboardSize.
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	users, err := s.store.TopUsers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, models.LeaderboardEntry{
			Rank:       i + 1,
			UserID:     u.ID,
			Username:   u.Username,
			Photo:      u.Photo,
			Points:     u.Points,
			BadgeCount: len(u.Badges),
		})
	}
	return entries, nil
}
