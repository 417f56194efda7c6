// Package store defines the persistence boundary of the API. Backends live
// in the mongostore, pgstore and memstore subpackages.
package store

import (
	"context"
	"errors"

	"github.com/faunapedia/api-go/models"
)

// ErrNotFound is returned when a record is absent or its identifier is
// malformed for the backend.
var ErrNotFound = errors.New("store: record not found")

type AnimalFilter struct {
	Category    models.Category
	WithRegions bool
}

type AnimalRepository interface {
	ListAnimals(ctx context.Context, filter AnimalFilter) ([]models.Animal, error)
	GetAnimal(ctx context.Context, id string) (*models.Animal, error)
	GetAnimalByName(ctx context.Context, name string) (*models.Animal, error)
	FindAnimals(ctx context.Context, ids []string) ([]models.Animal, error)
	SearchAnimals(ctx context.Context, query string, limit int) ([]models.Animal, error)
	// UpsertAnimal inserts or replaces the animal with the same name.
	UpsertAnimal(ctx context.Context, animal *models.Animal) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsers(ctx context.Context, ids []string) ([]models.User, error)
	// UpsertUser creates the user on first sight of its external id and
	// refreshes the profile fields otherwise. Points and badges are kept.
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
	AddPoints(ctx context.Context, id string, amount int) error
	// AddBadges appends badges whose code the user does not hold yet.
	AddBadges(ctx context.Context, id string, badges []models.Badge) error
	TopUsers(ctx context.Context, limit int) ([]models.User, error)
}

type PostFilter struct {
	AnimalID  string
	UserID    string
	LikedBy   string
	Geotagged bool
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns matching posts, newest first.
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	// BackfillLikes sets an empty like list on posts stored without one.
	BackfillLikes(ctx context.Context) (matched int64, modified int64, err error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	// ListComments returns the comments of a post, oldest first.
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CountComments(ctx context.Context, postIDs []string) (map[string]int64, error)
}

type QuizRepository interface {
	GetQuestion(ctx context.Context, id string) (*models.QuizQuestion, error)
	// SampleQuestions draws up to n distinct questions uniformly at random.
	SampleQuestions(ctx context.Context, n int) ([]models.QuizQuestion, error)
	// UpsertQuestion inserts or replaces the question with the same text.
	UpsertQuestion(ctx context.Context, question *models.QuizQuestion) error
}

// Store is a connected backend. Close releases its connections.
type Store interface {
	AnimalRepository
	UserRepository
	PostRepository
	CommentRepository
	QuizRepository

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
