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

type ProfileBadge struct {
	Code     models.BadgeCode `json:"code"`
	Label    string           `json:"label"`
	Emoji    string           `json:"emoji"`
	EarnedAt time.Time        `json:"earnedAt"`
}

// Profile is the public view of a user.
type Profile struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	Photo      string         `json:"photo,omitempty"`
	Points     int64          `json:"points"`
	Badges     []ProfileBadge `json:"badges"`
	PostCount  int64          `json:"postCount"`
	LikedCount int64          `json:"likedCount"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type UserService struct {
	store  store.Store
	logger *zap.Logger
}

func NewUserService(st store.Store, logger *zap.Logger) *UserService {
	return &UserService{store: st, logger: logger}
}

// EnsureUser maps an identity to its user record, creating the record on
// first sight and refreshing the profile fields afterwards.
func (s *UserService) EnsureUser(ctx context.Context, identity *models.Identity) (*models.User, error) {
	if identity == nil || identity.ExternalID == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.store.UpsertUser(ctx, &models.User{
		ExternalID: identity.ExternalID,
		Email:      identity.Email,
		Username:   identity.DisplayName(),
		Photo:      identity.Picture,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

// LookupUser returns the user record of an identity without creating it.
func (s *UserService) LookupUser(ctx context.Context, identity *models.Identity) (*models.User, error) {
	if identity == nil || identity.ExternalID == "" {
		return nil, ErrUserNotFound
	}
	user, err := s.store.GetUserByExternalID(ctx, identity.ExternalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Profile returns the public profile of the user called username.
func (s *UserService) Profile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	posts, err := s.store.CountPosts(ctx, store.PostFilter{UserID: user.ID})
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	liked, err := s.store.CountPosts(ctx, store.PostFilter{LikedBy: user.ID})
	if err != nil {
		return nil, fmt.Errorf("count liked posts: %w", err)
	}

	badges := make([]ProfileBadge, 0, len(user.Badges))
	for _, b := range user.Badges {
		rule := types.GetBadgeRule(b.Code)
		badges = append(badges, ProfileBadge{
			Code:     b.Code,
			Label:    rule.Label,
			Emoji:    rule.Emoji,
			EarnedAt: b.EarnedAt,
		})
	}

	return &Profile{
		ID:         user.ID,
		Username:   user.Username,
		Photo:      user.Photo,
		Points:     user.Points,
		Badges:     badges,
		PostCount:  posts,
		LikedCount: liked,
		CreatedAt:  user.CreatedAt,
	}, nil
}
