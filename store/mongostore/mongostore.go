// Package mongostore is the MongoDB backend of the API.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	animalsCollection   = "animals"
	usersCollection     = "users"
	postsCollection     = "posts"
	commentsCollection  = "comments"
	questionsCollection = "quizquestions"
)

type Store struct {
	client *mongo.Client

	animals   *mongo.Collection
	users     *mongo.Collection
	posts     *mongo.Collection
	comments  *mongo.Collection
	questions *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials uri, pings the server and prepares the collections of
// database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:    client,
		animals:   db.Collection(animalsCollection),
		users:     db.Collection(usersCollection),
		posts:     db.Collection(postsCollection),
		comments:  db.Collection(commentsCollection),
		questions: db.Collection(questionsCollection),
	}, nil
}

// EnsureIndexes creates the unique keys the upserts rely on plus the
// lookup indexes of the read paths.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.animals: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		s.users: {
			{Keys: bson.D{{Key: "clerkId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}},
			{Keys: bson.D{{Key: "points", Value: -1}}},
		},
		s.posts: {
			{Keys: bson.D{{Key: "animal", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "likes", Value: 1}}},
		},
		s.comments: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		s.questions: {
			{Keys: bson.D{{Key: "question", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, specs := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// Animals

func (s *Store) ListAnimals(ctx context.Context, filter store.AnimalFilter) ([]models.Animal, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.WithRegions {
		query["nativeRegions"] = bson.M{"$exists": true, "$not": bson.M{"$size": 0}}
	}
	return s.findAnimals(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *Store) findAnimals(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Animal, error) {
	cursor, err := s.animals.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []animalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	animals := make([]models.Animal, 0, len(docs))
	for i := range docs {
		animals = append(animals, docs[i].toModel())
	}
	return animals, nil
}

func (s *Store) GetAnimal(ctx context.Context, id string) (*models.Animal, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findAnimal(ctx, bson.M{"_id": oid})
}

func (s *Store) GetAnimalByName(ctx context.Context, name string) (*models.Animal, error) {
	return s.findAnimal(ctx, bson.M{"name": name})
}

func (s *Store) findAnimal(ctx context.Context, query bson.M) (*models.Animal, error) {
	var doc animalDocument
	if err := s.animals.FindOne(ctx, query).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	a := doc.toModel()
	return &a, nil
}

func (s *Store) FindAnimals(ctx context.Context, ids []string) ([]models.Animal, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return s.findAnimals(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (s *Store) SearchAnimals(ctx context.Context, query string, limit int) ([]models.Animal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.findAnimals(ctx, bson.M{
		"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
	}, opts)
}

func (s *Store) UpsertAnimal(ctx context.Context, animal *models.Animal) error {
	now := time.Now()
	doc := newAnimalDocument(animal)
	update := bson.M{
		"$set": bson.M{
			"scientificName": doc.ScientificName,
			"description":    doc.Description,
			"imageUrl":       doc.ImageURL,
			"category":       doc.Category,
			"nativeRegions":  doc.NativeRegions,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved animalDocument
	if err := s.animals.FindOneAndUpdate(ctx, bson.M{"name": animal.Name}, update, opts).Decode(&saved); err != nil {
		return fmt.Errorf("upsert animal %q: %w", animal.Name, err)
	}
	*animal = saved.toModel()
	return nil
}

// Users

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"clerkId": externalID})
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username})
}

func (s *Store) findUser(ctx context.Context, query bson.M) (*models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, query).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	u := doc.toModel()
	return &u, nil
}

func (s *Store) FindUsers(ctx context.Context, ids []string) ([]models.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return s.findUsers(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (s *Store) findUsers(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"email":     user.Email,
			"username":  user.Username,
			"photo":     user.Photo,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"points":    0,
			"badges":    bson.A{},
			"following": bson.A{},
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc userDocument
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"clerkId": user.ExternalID}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	u := doc.toModel()
	return &u, nil
}

func (s *Store) AddPoints(ctx context.Context, id string, amount int) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$inc": bson.M{"points": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) AddBadges(ctx context.Context, id string, badges []models.Badge) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	matched := false
	for _, b := range badges {
		// the code guard keeps each badge unique even under concurrent awards
		res, err := s.users.UpdateOne(ctx,
			bson.M{"_id": oid, "badges.code": bson.M{"$ne": string(b.Code)}},
			bson.M{"$push": bson.M{"badges": badgeDocument{Code: string(b.Code), EarnedAt: b.EarnedAt}}},
		)
		if err != nil {
			return fmt.Errorf("award badge %s: %w", b.Code, err)
		}
		matched = matched || res.MatchedCount > 0
	}
	if matched || len(badges) == 0 {
		return nil
	}
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) TopUsers(ctx context.Context, limit int) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "points", Value: -1}, {Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.findUsers(ctx, bson.M{}, opts)
}

// Posts

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	userID, err := objectID(post.User.ID())
	if err != nil {
		return fmt.Errorf("post user: %w", err)
	}
	animalID, err := objectID(post.Animal.ID())
	if err != nil {
		return fmt.Errorf("post animal: %w", err)
	}

	now := time.Now()
	doc := postDocument{
		ImageURL:  post.ImageURL,
		User:      userID,
		Animal:    animalID,
		Caption:   post.Caption,
		Likes:     objectIDs(post.Likes),
		TakenAt:   post.TakenAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if l := post.Location; l != nil {
		lat, lng := l.Lat, l.Lng
		doc.Location = &locationDocument{Lat: &lat, Lng: &lng, PlaceName: l.PlaceName}
	}

	res, err := s.posts.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	*post = doc.toModel()
	return nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc postDocument
	if err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	p := doc.toModel()
	return &p, nil
}

func postQuery(filter store.PostFilter) (bson.M, bool) {
	query := bson.M{}
	for field, id := range map[string]string{
		"animal": filter.AnimalID,
		"user":   filter.UserID,
		"likes":  filter.LikedBy,
	} {
		if id == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, false
		}
		query[field] = oid
	}
	if filter.Geotagged {
		query["location.lat"] = bson.M{"$exists": true}
		query["location.lng"] = bson.M{"$exists": true}
	}
	return query, true
}

func (s *Store) ListPosts(ctx context.Context, filter store.PostFilter) ([]models.Post, error) {
	query, ok := postQuery(filter)
	if !ok {
		return nil, nil
	}
	cursor, err := s.posts.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

func (s *Store) CountPosts(ctx context.Context, filter store.PostFilter) (int64, error) {
	query, ok := postQuery(filter)
	if !ok {
		return 0, nil
	}
	return s.posts.CountDocuments(ctx, query)
}

func (s *Store) AddLike(ctx context.Context, postID, userID string) error {
	return s.updateLikes(ctx, postID, userID, "$addToSet")
}

func (s *Store) RemoveLike(ctx context.Context, postID, userID string) error {
	return s.updateLikes(ctx, postID, userID, "$pull")
}

func (s *Store) updateLikes(ctx context.Context, postID, userID, operator string) error {
	pid, err := objectID(postID)
	if err != nil {
		return err
	}
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": pid}, bson.M{
		operator: bson.M{"likes": uid},
		"$set":   bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) BackfillLikes(ctx context.Context) (int64, int64, error) {
	res, err := s.posts.UpdateMany(ctx,
		bson.M{"likes": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"likes": bson.A{}}},
	)
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// Comments

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	userID, err := objectID(comment.User.ID())
	if err != nil {
		return fmt.Errorf("comment user: %w", err)
	}
	postID, err := objectID(comment.PostID)
	if err != nil {
		return fmt.Errorf("comment post: %w", err)
	}

	now := time.Now()
	doc := commentDocument{
		Content:   comment.Content,
		User:      userID,
		Post:      postID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.comments.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	*comment = doc.toModel()
	return nil
}

func (s *Store) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	oid, err := objectID(postID)
	if err != nil {
		return nil, nil
	}
	cursor, err := s.comments.Find(ctx, bson.M{"post": oid}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].toModel())
	}
	return comments, nil
}

func (s *Store) CountComments(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	oids := objectIDs(postIDs)
	if len(oids) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post": bson.M{"$in": oids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$post", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Post  primitive.ObjectID `bson:"_id"`
		Count int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.Post.Hex()] = row.Count
	}
	return counts, nil
}

// Quiz

func (s *Store) GetQuestion(ctx context.Context, id string) (*models.QuizQuestion, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc quizQuestionDocument
	if err := s.questions.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	q := doc.toModel()
	return &q, nil
}

func (s *Store) SampleQuestions(ctx context.Context, n int) ([]models.QuizQuestion, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}
	cursor, err := s.questions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []quizQuestionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	questions := make([]models.QuizQuestion, 0, len(docs))
	for i := range docs {
		questions = append(questions, docs[i].toModel())
	}
	return questions, nil
}

func (s *Store) UpsertQuestion(ctx context.Context, question *models.QuizQuestion) error {
	now := time.Now()
	set := bson.M{
		"options":       question.Options,
		"correctAnswer": question.CorrectAnswer,
		"difficulty":    string(question.Difficulty),
		"updatedAt":     now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if question.AnimalID != "" {
		oid, err := objectID(question.AnimalID)
		if err != nil {
			return fmt.Errorf("question animal: %w", err)
		}
		set["animal"] = oid
	} else {
		update["$unset"] = bson.M{"animal": ""}
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved quizQuestionDocument
	if err := s.questions.FindOneAndUpdate(ctx, bson.M{"question": question.Question}, update, opts).Decode(&saved); err != nil {
		return fmt.Errorf("upsert question: %w", err)
	}
	*question = saved.toModel()
	return nil
}
