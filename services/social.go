package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"go.uber.org/zap"
)

// SocialService handles likes and comments.
type SocialService struct {
	store  store.Store
	logger *zap.Logger
}

func NewSocialService(st store.Store, logger *zap.Logger) *SocialService {
	return &SocialService{store: st, logger: logger}
}

// ToggleLike flips the user's membership in the post's like set and
// returns true when the post is liked afterwards.
//
// Two concurrent toggles by the same user race. Each store write is a
// single atomic set operation, so the like set never holds duplicates, but
// the final state is whichever write lands last.
func (s *SocialService) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("load user: %w", err)
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("load post: %w", err)
	}

	liked := post.LikedBy(userID)
	if liked {
		err = s.store.RemoveLike(ctx, postID, userID)
	} else {
		err = s.store.AddLike(ctx, postID, userID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("update likes: %w", err)
	}

	s.logger.Debug("like toggled",
		zap.String("postId", postID),
		zap.String("userId", userID),
		zap.Bool("liked", !liked),
	)
	return !liked, nil
}

// AddComment appends a comment to a post. The content is trimmed and must
// hold between 1 and MaxCommentLength characters.
func (s *SocialService) AddComment(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n == 0 || n > models.MaxCommentLength {
		return nil, ErrInvalidComment
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	comment := &models.Comment{
		Content: content,
		User:    models.RefTo[models.Author](user.ID),
		PostID:  postID,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.User = comment.User.Resolve(user.Author())
	return comment, nil
}

// ListComments returns the comments of a post in chronological order with
// their authors resolved.
func (s *SocialService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.User.ID())
	}
	authors, err := authorsByID(ctx, s.store, ids)
	if err != nil {
		return nil, fmt.Errorf("load comment authors: %w", err)
	}
	for i := range comments {
		comments[i].User = comments[i].User.Resolve(authors[comments[i].User.ID()])
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}
