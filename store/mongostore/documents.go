package mongostore

import (
	"time"

	"github.com/faunapedia/api-go/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type animalDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	ScientificName string             `bson:"scientificName,omitempty"`
	Description    string             `bson:"description,omitempty"`
	ImageURL       string             `bson:"imageUrl,omitempty"`
	Category       string             `bson:"category,omitempty"`
	NativeRegions  []regionDocument   `bson:"nativeRegions"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

type regionDocument struct {
	Lat   float64 `bson:"lat"`
	Lng   float64 `bson:"lng"`
	Label string  `bson:"label"`
}

type badgeDocument struct {
	Code     string    `bson:"code"`
	EarnedAt time.Time `bson:"earnedAt"`
}

type userDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	ClerkID   string               `bson:"clerkId"`
	Email     string               `bson:"email"`
	Username  string               `bson:"username,omitempty"`
	Photo     string               `bson:"photo,omitempty"`
	Points    int64                `bson:"points"`
	Badges    []badgeDocument      `bson:"badges"`
	Following []primitive.ObjectID `bson:"following"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

// Coordinates are pointers because older posts carry a location without
// them; such posts are not geotagged.
type locationDocument struct {
	Lat       *float64 `bson:"lat,omitempty"`
	Lng       *float64 `bson:"lng,omitempty"`
	PlaceName string   `bson:"placeName,omitempty"`
}

type postDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	ImageURL  string               `bson:"imageUrl"`
	User      primitive.ObjectID   `bson:"user"`
	Animal    primitive.ObjectID   `bson:"animal"`
	Caption   string               `bson:"caption,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes"`
	Location  *locationDocument    `bson:"location,omitempty"`
	TakenAt   *time.Time           `bson:"takenAt,omitempty"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	User      primitive.ObjectID `bson:"user"`
	Post      primitive.ObjectID `bson:"post"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type quizQuestionDocument struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Question      string              `bson:"question"`
	Options       []string            `bson:"options"`
	CorrectAnswer int                 `bson:"correctAnswer"`
	Animal        *primitive.ObjectID `bson:"animal,omitempty"`
	Difficulty    string              `bson:"difficulty"`
	CreatedAt     time.Time           `bson:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt"`
}

func (d *animalDocument) toModel() models.Animal {
	regions := make([]models.Region, 0, len(d.NativeRegions))
	for _, r := range d.NativeRegions {
		regions = append(regions, models.Region{Lat: r.Lat, Lng: r.Lng, Label: r.Label})
	}
	return models.Animal{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		ScientificName: d.ScientificName,
		Description:    d.Description,
		ImageURL:       d.ImageURL,
		Category:       models.Category(d.Category),
		NativeRegions:  regions,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func newAnimalDocument(a *models.Animal) animalDocument {
	regions := make([]regionDocument, 0, len(a.NativeRegions))
	for _, r := range a.NativeRegions {
		regions = append(regions, regionDocument{Lat: r.Lat, Lng: r.Lng, Label: r.Label})
	}
	return animalDocument{
		Name:           a.Name,
		ScientificName: a.ScientificName,
		Description:    a.Description,
		ImageURL:       a.ImageURL,
		Category:       string(a.Category),
		NativeRegions:  regions,
	}
}

func (d *userDocument) toModel() models.User {
	badges := make([]models.Badge, 0, len(d.Badges))
	for _, b := range d.Badges {
		badges = append(badges, models.Badge{Code: models.BadgeCode(b.Code), EarnedAt: b.EarnedAt})
	}
	return models.User{
		ID:         d.ID.Hex(),
		ExternalID: d.ClerkID,
		Email:      d.Email,
		Username:   d.Username,
		Photo:      d.Photo,
		Points:     d.Points,
		Badges:     badges,
		Following:  hexes(d.Following),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func (d *postDocument) toModel() models.Post {
	p := models.Post{
		ID:        d.ID.Hex(),
		ImageURL:  d.ImageURL,
		User:      models.RefTo[models.Author](d.User.Hex()),
		Animal:    models.RefTo[models.Animal](d.Animal.Hex()),
		Caption:   d.Caption,
		Likes:     hexes(d.Likes),
		TakenAt:   d.TakenAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if l := d.Location; l != nil && l.Lat != nil && l.Lng != nil {
		p.Location = &models.Location{Lat: *l.Lat, Lng: *l.Lng, PlaceName: l.PlaceName}
	}
	return p
}

func (d *commentDocument) toModel() models.Comment {
	return models.Comment{
		ID:        d.ID.Hex(),
		Content:   d.Content,
		User:      models.RefTo[models.Author](d.User.Hex()),
		PostID:    d.Post.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (d *quizQuestionDocument) toModel() models.QuizQuestion {
	q := models.QuizQuestion{
		ID:            d.ID.Hex(),
		Question:      d.Question,
		Options:       d.Options,
		CorrectAnswer: d.CorrectAnswer,
		Difficulty:    models.Difficulty(d.Difficulty),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Animal != nil {
		q.AnimalID = d.Animal.Hex()
	}
	return q
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
