// Package pgstore is the PostgreSQL backend of the API, built on gorm.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to the database described by dsn.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// Migrate creates or updates the tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Animal{}, &User{}, &UserBadge{}, &Post{}, &Comment{}, &QuizQuestion{})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// Animals

func (s *Store) ListAnimals(ctx context.Context, filter store.AnimalFilter) ([]models.Animal, error) {
	query := s.db.WithContext(ctx).Order("name")
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if filter.WithRegions {
		query = query.Where("native_regions IS NOT NULL AND native_regions <> '[]'::jsonb AND native_regions <> 'null'::jsonb")
	}
	return findAnimals(query)
}

func findAnimals(query *gorm.DB) ([]models.Animal, error) {
	var rows []Animal
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	animals := make([]models.Animal, 0, len(rows))
	for i := range rows {
		animals = append(animals, rows[i].toModel())
	}
	return animals, nil
}

func (s *Store) GetAnimal(ctx context.Context, id string) (*models.Animal, error) {
	if !validID(id) {
		return nil, store.ErrNotFound
	}
	return s.findAnimal(ctx, "id = ?", id)
}

func (s *Store) GetAnimalByName(ctx context.Context, name string) (*models.Animal, error) {
	return s.findAnimal(ctx, "name = ?", name)
}

func (s *Store) findAnimal(ctx context.Context, cond string, arg any) (*models.Animal, error) {
	var row Animal
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	a := row.toModel()
	return &a, nil
}

func (s *Store) FindAnimals(ctx context.Context, ids []string) ([]models.Animal, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	return findAnimals(s.db.WithContext(ctx).Where("id IN ?", ids))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) SearchAnimals(ctx context.Context, query string, limit int) ([]models.Animal, error) {
	q := s.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+likeEscaper.Replace(query)+"%").
		Order("name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return findAnimals(q)
}

func (s *Store) UpsertAnimal(ctx context.Context, animal *models.Animal) error {
	regions := animal.NativeRegions
	if regions == nil {
		regions = []models.Region{}
	}
	row := Animal{
		ID:             uuid.NewString(),
		Name:           animal.Name,
		ScientificName: animal.ScientificName,
		Description:    animal.Description,
		ImageURL:       animal.ImageURL,
		Category:       string(animal.Category),
		NativeRegions:  regions,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"scientific_name", "description", "image_url", "category", "native_regions", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert animal %q: %w", animal.Name, err)
	}

	saved, err := s.GetAnimalByName(ctx, animal.Name)
	if err != nil {
		return err
	}
	*animal = *saved
	return nil
}

// Users

func (s *Store) users(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Badges", func(db *gorm.DB) *gorm.DB {
		return db.Order("earned_at")
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, store.ErrNotFound
	}
	return s.findUser(ctx, "id = ?", id)
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.findUser(ctx, "clerk_id = ?", externalID)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, "username = ?", username)
}

func (s *Store) findUser(ctx context.Context, cond string, arg any) (*models.User, error) {
	var row User
	if err := s.users(ctx).Where(cond, arg).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	u := row.toModel()
	return &u, nil
}

func findUsers(query *gorm.DB) ([]models.User, error) {
	var rows []User
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toModel())
	}
	return users, nil
}

func (s *Store) FindUsers(ctx context.Context, ids []string) ([]models.User, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	return findUsers(s.users(ctx).Where("id IN ?", ids))
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	row := User{
		ID:         uuid.NewString(),
		ExternalID: user.ExternalID,
		Email:      user.Email,
		Username:   user.Username,
		Photo:      user.Photo,
		Following:  pq.StringArray{},
	}
	err := s.db.WithContext(ctx).Omit("Badges").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clerk_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "username", "photo", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return s.GetUserByExternalID(ctx, user.ExternalID)
}

func (s *Store) AddPoints(ctx context.Context, id string, amount int) error {
	if !validID(id) {
		return store.ErrNotFound
	}
	res := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(map[string]any{
		"points":     gorm.Expr("points + ?", amount),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AddBadges(ctx context.Context, id string, badges []models.Badge) error {
	if !validID(id) {
		return store.ErrNotFound
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	if len(badges) == 0 {
		return nil
	}

	rows := make([]UserBadge, 0, len(badges))
	for _, b := range badges {
		rows = append(rows, UserBadge{UserID: id, Code: string(b.Code), EarnedAt: b.EarnedAt})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (s *Store) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	q := s.users(ctx).Order("points DESC, created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return findUsers(q)
}

// Posts

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if !validID(post.User.ID()) || !validID(post.Animal.ID()) {
		return store.ErrNotFound
	}
	likes := pq.StringArray(validIDs(post.Likes))
	row := Post{
		ID:       uuid.NewString(),
		ImageURL: post.ImageURL,
		UserID:   post.User.ID(),
		AnimalID: post.Animal.ID(),
		Caption:  post.Caption,
		Likes:    likes,
		TakenAt:  post.TakenAt,
	}
	if l := post.Location; l != nil {
		lat, lng := l.Lat, l.Lng
		row.Latitude, row.Longitude, row.PlaceName = &lat, &lng, l.PlaceName
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	*post = row.toModel()
	return nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if !validID(id) {
		return nil, store.ErrNotFound
	}
	var row Post
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	p := row.toModel()
	return &p, nil
}

func (s *Store) postQuery(ctx context.Context, filter store.PostFilter) (*gorm.DB, bool) {
	q := s.db.WithContext(ctx).Model(&Post{})
	if filter.AnimalID != "" {
		if !validID(filter.AnimalID) {
			return nil, false
		}
		q = q.Where("animal_id = ?", filter.AnimalID)
	}
	if filter.UserID != "" {
		if !validID(filter.UserID) {
			return nil, false
		}
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.LikedBy != "" {
		q = q.Where("? = ANY(likes)", filter.LikedBy)
	}
	if filter.Geotagged {
		q = q.Where("latitude IS NOT NULL AND longitude IS NOT NULL")
	}
	return q, true
}

func (s *Store) ListPosts(ctx context.Context, filter store.PostFilter) ([]models.Post, error) {
	q, ok := s.postQuery(ctx, filter)
	if !ok {
		return nil, nil
	}
	var rows []Post
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toModel())
	}
	return posts, nil
}

func (s *Store) CountPosts(ctx context.Context, filter store.PostFilter) (int64, error) {
	q, ok := s.postQuery(ctx, filter)
	if !ok {
		return 0, nil
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	if !validID(postID) {
		return store.ErrNotFound
	}
	res := s.db.WithContext(ctx).Model(&Post{}).
		Where("id = ? AND NOT (? = ANY(COALESCE(likes, '{}')))", postID, userID).
		Updates(map[string]any{
			"likes":      gorm.Expr("array_append(COALESCE(likes, '{}'), ?)", userID),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// either missing or already liked
		_, err := s.GetPost(ctx, postID)
		return err
	}
	return nil
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	if !validID(postID) {
		return store.ErrNotFound
	}
	res := s.db.WithContext(ctx).Model(&Post{}).Where("id = ?", postID).Updates(map[string]any{
		"likes":      gorm.Expr("array_remove(likes, ?)", userID),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) BackfillLikes(ctx context.Context) (int64, int64, error) {
	res := s.db.WithContext(ctx).Model(&Post{}).
		Where("likes IS NULL").
		UpdateColumn("likes", gorm.Expr("'{}'::text[]"))
	if res.Error != nil {
		return 0, 0, res.Error
	}
	return res.RowsAffected, res.RowsAffected, nil
}

// Comments

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if !validID(comment.PostID) || !validID(comment.User.ID()) {
		return store.ErrNotFound
	}
	row := Comment{
		ID:      uuid.NewString(),
		Content: comment.Content,
		UserID:  comment.User.ID(),
		PostID:  comment.PostID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return err
	}
	*comment = row.toModel()
	return nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if !validID(postID) {
		return nil, nil
	}
	var rows []Comment
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(rows))
	for i := range rows {
		comments = append(comments, rows[i].toModel())
	}
	return comments, nil
}

func (s *Store) CountComments(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	ids := validIDs(postIDs)
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	return counts, nil
}

// Quiz

func (s *Store) GetQuestion(ctx context.Context, id string) (*models.QuizQuestion, error) {
	if !validID(id) {
		return nil, store.ErrNotFound
	}
	var row QuizQuestion
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	q := row.toModel()
	return &q, nil
}

func (s *Store) SampleQuestions(ctx context.Context, n int) ([]models.QuizQuestion, error) {
	var rows []QuizQuestion
	if err := s.db.WithContext(ctx).Order("RANDOM()").Limit(n).Find(&rows).Error; err != nil {
		return nil, err
	}
	questions := make([]models.QuizQuestion, 0, len(rows))
	for i := range rows {
		questions = append(questions, rows[i].toModel())
	}
	return questions, nil
}

func (s *Store) UpsertQuestion(ctx context.Context, question *models.QuizQuestion) error {
	row := QuizQuestion{
		ID:            uuid.NewString(),
		Question:      question.Question,
		Options:       pq.StringArray(question.Options),
		CorrectAnswer: question.CorrectAnswer,
		Difficulty:    string(question.Difficulty),
	}
	if question.AnimalID != "" {
		if !validID(question.AnimalID) {
			return fmt.Errorf("question animal: %w", store.ErrNotFound)
		}
		animalID := question.AnimalID
		row.AnimalID = &animalID
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question"}},
		DoUpdates: clause.AssignmentColumns([]string{"options", "correct_answer", "animal_id", "difficulty", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert question: %w", err)
	}

	var saved QuizQuestion
	if err := s.db.WithContext(ctx).Where("question = ?", question.Question).First(&saved).Error; err != nil {
		return translate(err)
	}
	*question = saved.toModel()
	return nil
}
