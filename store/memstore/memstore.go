// Package memstore keeps every collection in process memory. It backs the
// service tests and STORE_DRIVER=memory for local development.
package memstore

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	animals   map[string]models.Animal
	users     map[string]models.User
	posts     map[string]models.Post
	comments  map[string]models.Comment
	questions map[string]models.QuizQuestion

	// posts created before the likes field existed
	missingLikes map[string]bool

	now  func() time.Time
	rand *rand.Rand
}

var _ store.Store = (*Store)(nil)

type Option func(*Store)

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSeed makes question sampling deterministic.
func WithSeed(seed int64) Option {
	return func(s *Store) { s.rand = rand.New(rand.NewSource(seed)) }
}

func New(opts ...Option) *Store {
	s := &Store{
		animals:      make(map[string]models.Animal),
		users:        make(map[string]models.User),
		posts:        make(map[string]models.Post),
		comments:     make(map[string]models.Comment),
		questions:    make(map[string]models.QuizQuestion),
		missingLikes: make(map[string]bool),
		now:          time.Now,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Ping(ctx context.Context) error  { return nil }
func (s *Store) Close(ctx context.Context) error { return nil }

func newID() string {
	return uuid.NewString()
}

// Animals

func (s *Store) ListAnimals(ctx context.Context, filter store.AnimalFilter) ([]models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	animals := make([]models.Animal, 0, len(s.animals))
	for _, a := range s.animals {
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.WithRegions && len(a.NativeRegions) == 0 {
			continue
		}
		animals = append(animals, copyAnimal(a))
	}
	sort.Slice(animals, func(i, j int) bool { return animals[i].Name < animals[j].Name })
	return animals, nil
}

func (s *Store) GetAnimal(ctx context.Context, id string) (*models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.animals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a = copyAnimal(a)
	return &a, nil
}

func (s *Store) GetAnimalByName(ctx context.Context, name string) (*models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.animals {
		if a.Name == name {
			a = copyAnimal(a)
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindAnimals(ctx context.Context, ids []string) ([]models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var animals []models.Animal
	for _, id := range ids {
		if a, ok := s.animals[id]; ok {
			animals = append(animals, copyAnimal(a))
		}
	}
	return animals, nil
}

func (s *Store) SearchAnimals(ctx context.Context, query string, limit int) ([]models.Animal, error) {
	all, err := s.ListAnimals(ctx, store.AnimalFilter{})
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(query)
	var animals []models.Animal
	for _, a := range all {
		if limit > 0 && len(animals) == limit {
			break
		}
		if strings.Contains(strings.ToLower(a.Name), query) {
			animals = append(animals, a)
		}
	}
	return animals, nil
}

func (s *Store) UpsertAnimal(ctx context.Context, animal *models.Animal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, existing := range s.animals {
		if existing.Name == animal.Name {
			animal.ID = id
			animal.CreatedAt = existing.CreatedAt
			animal.UpdatedAt = now
			s.animals[id] = copyAnimal(*animal)
			return nil
		}
	}
	animal.ID = newID()
	animal.CreatedAt = now
	animal.UpdatedAt = now
	s.animals[animal.ID] = copyAnimal(*animal)
	return nil
}

// Users

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u = copyUser(u)
	return &u, nil
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.ExternalID == externalID })
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *Store) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			u = copyUser(u)
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindUsers(ctx context.Context, ids []string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, existing := range s.users {
		if existing.ExternalID != user.ExternalID {
			continue
		}
		existing.Email = user.Email
		existing.Username = user.Username
		existing.Photo = user.Photo
		existing.UpdatedAt = now
		s.users[id] = existing
		u := copyUser(existing)
		return &u, nil
	}

	created := copyUser(*user)
	created.ID = newID()
	created.Points = 0
	created.Badges = []models.Badge{}
	created.Following = []string{}
	created.CreatedAt = now
	created.UpdatedAt = now
	s.users[created.ID] = created
	u := copyUser(created)
	return &u, nil
}

func (s *Store) AddPoints(ctx context.Context, id string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Points += int64(amount)
	u.UpdatedAt = s.now()
	s.users[id] = u
	return nil
}

func (s *Store) AddBadges(ctx context.Context, id string, badges []models.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, b := range badges {
		if !u.HasBadge(b.Code) {
			u.Badges = append(u.Badges, b)
		}
	}
	s.users[id] = u
	return nil
}

func (s *Store) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	s.mu.RLock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, copyUser(u))
	}
	s.mu.RUnlock()

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Points != users[j].Points {
			return users[i].Points > users[j].Points
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// Posts

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	post.ID = newID()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = copyPost(*post)
	return nil
}

// InsertLegacyPost stores a post the way records predating the like list
// were stored, so the likes backfill has something to repair.
func (s *Store) InsertLegacyPost(post *models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = newID()
	}
	post.Likes = nil
	s.posts[post.ID] = copyPost(*post)
	s.missingLikes[post.ID] = true
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = copyPost(p)
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context, filter store.PostFilter) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []models.Post
	for _, p := range s.posts {
		if matchPost(p, filter) {
			posts = append(posts, copyPost(p))
		}
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (s *Store) CountPosts(ctx context.Context, filter store.PostFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.posts {
		if matchPost(p, filter) {
			n++
		}
	}
	return n, nil
}

func matchPost(p models.Post, filter store.PostFilter) bool {
	if filter.AnimalID != "" && p.Animal.ID() != filter.AnimalID {
		return false
	}
	if filter.UserID != "" && p.User.ID() != filter.UserID {
		return false
	}
	if filter.LikedBy != "" && !p.LikedBy(filter.LikedBy) {
		return false
	}
	if filter.Geotagged && !p.Geotagged() {
		return false
	}
	return true
}

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return store.ErrNotFound
	}
	if !p.LikedBy(userID) {
		p.Likes = append(p.Likes, userID)
		delete(s.missingLikes, postID)
	}
	s.posts[postID] = p
	return nil
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return store.ErrNotFound
	}
	likes := make([]string, 0, len(p.Likes))
	for _, id := range p.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	p.Likes = likes
	s.posts[postID] = p
	return nil
}

func (s *Store) BackfillLikes(ctx context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id := range s.missingLikes {
		p := s.posts[id]
		p.Likes = []string{}
		s.posts[id] = p
		delete(s.missingLikes, id)
		n++
	}
	return n, n, nil
}

// Comments

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	comment.ID = newID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	s.comments[comment.ID] = *comment
	return nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (s *Store) CountComments(ctx context.Context, postIDs []string) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	counts := make(map[string]int64, len(postIDs))
	for _, c := range s.comments {
		if wanted[c.PostID] {
			counts[c.PostID]++
		}
	}
	return counts, nil
}

// Quiz

func (s *Store) GetQuestion(ctx context.Context, id string) (*models.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	q.Options = append([]string(nil), q.Options...)
	return &q, nil
}

func (s *Store) SampleQuestions(ctx context.Context, n int) ([]models.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]models.QuizQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		all = append(all, q)
	}
	// map iteration order is not uniform, sort before shuffling
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	s.rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > n {
		all = all[:n]
	}
	for i := range all {
		all[i].Options = append([]string(nil), all[i].Options...)
	}
	return all, nil
}

func (s *Store) UpsertQuestion(ctx context.Context, question *models.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, existing := range s.questions {
		if existing.Question == question.Question {
			question.ID = id
			question.CreatedAt = existing.CreatedAt
			question.UpdatedAt = now
			s.questions[id] = copyQuestion(*question)
			return nil
		}
	}
	question.ID = newID()
	question.CreatedAt = now
	question.UpdatedAt = now
	s.questions[question.ID] = copyQuestion(*question)
	return nil
}

func copyAnimal(a models.Animal) models.Animal {
	a.NativeRegions = append([]models.Region{}, a.NativeRegions...)
	return a
}

func copyUser(u models.User) models.User {
	u.Badges = append([]models.Badge{}, u.Badges...)
	u.Following = append([]string{}, u.Following...)
	return u
}

func copyPost(p models.Post) models.Post {
	if p.Likes != nil {
		p.Likes = append([]string{}, p.Likes...)
	}
	if p.Location != nil {
		loc := *p.Location
		p.Location = &loc
	}
	// stored posts only keep references
	p.User = models.RefTo[models.Author](p.User.ID())
	p.Animal = models.RefTo[models.Animal](p.Animal.ID())
	return p
}

func copyQuestion(q models.QuizQuestion) models.QuizQuestion {
	q.Options = append([]string(nil), q.Options...)
	return q
}
