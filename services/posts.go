package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const postCommitTimeout = 10 * time.Second

// PostCommitHook runs after a post is stored. Its failures are logged and
// never reach the caller that created the post.
type PostCommitHook func(ctx context.Context, post *models.Post) error

// ImageLocator turns a storage key into the public URL of the object.
type ImageLocator interface {
	ImageURL(key string) (string, error)
}

type CreatePostInput struct {
	Key      string
	AnimalID string
	Caption  string
	Location *models.Location
	TakenAt  *time.Time
}

type PostService struct {
	store  store.Store
	images ImageLocator
	logger *zap.Logger
	hooks  []PostCommitHook
}

func NewPostService(st store.Store, images ImageLocator, logger *zap.Logger) *PostService {
	return &PostService{store: st, images: images, logger: logger}
}

// OnCommit registers a hook that runs after every created post.
func (s *PostService) OnCommit(hook PostCommitHook) {
	s.hooks = append(s.hooks, hook)
}

// CreatePost stores a post for the user and then runs the commit hooks.
// The uploaded object must live under the user's key prefix.
func (s *PostService) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*models.PostView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	animal, err := s.store.GetAnimal(ctx, in.AnimalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("load animal: %w", err)
	}

	key := strings.TrimSpace(in.Key)
	if key == "" || !strings.HasPrefix(key, user.ExternalID+"/") {
		return nil, fmt.Errorf("%w: key does not belong to the caller", ErrInvalidUpload)
	}
	if l := in.Location; l != nil && (l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180) {
		return nil, ErrInvalidLocation
	}

	imageURL, err := s.images.ImageURL(key)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ImageURL: imageURL,
		User:     models.RefTo[models.Author](user.ID),
		Animal:   models.RefTo[models.Animal](animal.ID),
		Caption:  strings.TrimSpace(in.Caption),
		Likes:    []string{},
		Location: in.Location,
		TakenAt:  in.TakenAt,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info("post created",
		zap.String("postId", post.ID),
		zap.String("userId", user.ID),
		zap.String("animalId", animal.ID),
	)

	s.afterCommit(ctx, post)

	post.User = post.User.Resolve(user.Author())
	post.Animal = post.Animal.Resolve(animal)
	return &models.PostView{Post: *post}, nil
}

// afterCommit runs every hook with its own error and panic boundary. Hooks
// keep running when the request context is cancelled.
func (s *PostService) afterCommit(ctx context.Context, post *models.Post) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postCommitTimeout)
	defer cancel()

	for _, hook := range s.hooks {
		s.runHook(ctx, hook, post)
	}
}

func (s *PostService) runHook(ctx context.Context, hook PostCommitHook, post *models.Post) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("post commit hook panicked", zap.String("postId", post.ID), zap.Any("panic", r))
		}
	}()
	if err := hook(ctx, post); err != nil {
		s.logger.Warn("post commit hook failed", zap.String("postId", post.ID), zap.Error(err))
	}
}

func (s *PostService) GetPost(ctx context.Context, postID, viewerID string) (*models.PostView, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	views, err := s.views(ctx, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PostService) ListByAnimal(ctx context.Context, animalID, viewerID string) ([]models.PostView, error) {
	if _, err := s.store.GetAnimal(ctx, animalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("load animal: %w", err)
	}
	return s.list(ctx, store.PostFilter{AnimalID: animalID}, viewerID)
}

func (s *PostService) ListByUser(ctx context.Context, username, viewerID string) ([]models.PostView, error) {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, store.PostFilter{UserID: user.ID}, viewerID)
}

// ListLikedBy returns the posts liked by the user called username.
func (s *PostService) ListLikedBy(ctx context.Context, username, viewerID string) ([]models.PostView, error) {
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, store.PostFilter{LikedBy: user.ID}, viewerID)
}

func (s *PostService) userByName(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *PostService) list(ctx context.Context, filter store.PostFilter, viewerID string) ([]models.PostView, error) {
	posts, err := s.store.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.views(ctx, posts, viewerID)
}

// views resolves authors and animals and attaches the counters the client
// renders next to each post.
func (s *PostService) views(ctx context.Context, posts []models.Post, viewerID string) ([]models.PostView, error) {
	views := make([]models.PostView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	postIDs := make([]string, 0, len(posts))
	userIDs := make([]string, 0, len(posts))
	animalIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		userIDs = append(userIDs, p.User.ID())
		animalIDs = append(animalIDs, p.Animal.ID())
	}

	var (
		authors  map[string]*models.Author
		animals  map[string]*models.Animal
		comments map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		authors, err = authorsByID(gctx, s.store, userIDs)
		return err
	})
	g.Go(func() (err error) {
		animals, err = animalsByID(gctx, s.store, animalIDs)
		return err
	})
	g.Go(func() (err error) {
		comments, err = s.store.CountComments(gctx, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decorate posts: %w", err)
	}

	for _, p := range posts {
		p.User = p.User.Resolve(authors[p.User.ID()])
		p.Animal = p.Animal.Resolve(animals[p.Animal.ID()])
		if p.Likes == nil {
			p.Likes = []string{}
		}
		views = append(views, models.PostView{
			Post:         p,
			LikeCount:    len(p.Likes),
			CommentCount: comments[p.ID],
			IsLiked:      viewerID != "" && p.LikedBy(viewerID),
		})
	}
	return views, nil
}
