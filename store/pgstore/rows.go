package pgstore

import (
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/lib/pq"
)

type Animal struct {
	ID             string          `gorm:"primaryKey;type:uuid"`
	Name           string          `gorm:"uniqueIndex;not null"`
	ScientificName string          `gorm:"type:varchar(255)"`
	Description    string          `gorm:"type:text"`
	ImageURL       string          `gorm:"type:text"`
	Category       string          `gorm:"index;type:varchar(20)"`
	NativeRegions  []models.Region `gorm:"serializer:json;type:jsonb;not null;default:'[]'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type User struct {
	ID         string         `gorm:"primaryKey;type:uuid"`
	ExternalID string         `gorm:"column:clerk_id;uniqueIndex;not null"`
	Email      string         `gorm:"type:varchar(255)"`
	Username   string         `gorm:"index;type:varchar(100)"`
	Photo      string         `gorm:"type:text"`
	Points     int64          `gorm:"index;not null;default:0"`
	Badges     []UserBadge    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Following  pq.StringArray `gorm:"type:text[]"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserBadge is keyed by user and code so a badge can only be held once.
type UserBadge struct {
	UserID   string    `gorm:"primaryKey;type:uuid"`
	Code     string    `gorm:"primaryKey;type:varchar(30)"`
	EarnedAt time.Time `gorm:"not null"`
}

// Post.Likes is NULL for rows written before likes were tracked.
type Post struct {
	ID        string         `gorm:"primaryKey;type:uuid"`
	ImageURL  string         `gorm:"not null;type:text"`
	UserID    string         `gorm:"index;not null;type:uuid"`
	AnimalID  string         `gorm:"index;not null;type:uuid"`
	Caption   string         `gorm:"type:text"`
	Likes     pq.StringArray `gorm:"type:text[]"`
	Latitude  *float64       `gorm:"type:decimal(10,8)"`
	Longitude *float64       `gorm:"type:decimal(11,8)"`
	PlaceName string         `gorm:"type:varchar(255)"`
	TakenAt   *time.Time
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

type Comment struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Content   string `gorm:"not null;type:varchar(500)"`
	UserID    string `gorm:"not null;type:uuid"`
	PostID    string `gorm:"index;not null;type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type QuizQuestion struct {
	ID            string         `gorm:"primaryKey;type:uuid"`
	Question      string         `gorm:"uniqueIndex;not null;type:text"`
	Options       pq.StringArray `gorm:"not null;type:text[]"`
	CorrectAnswer int            `gorm:"not null"`
	AnimalID      *string        `gorm:"type:uuid"`
	Difficulty    string         `gorm:"not null;type:varchar(10);default:medium"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r *Animal) toModel() models.Animal {
	regions := append([]models.Region{}, r.NativeRegions...)
	return models.Animal{
		ID:             r.ID,
		Name:           r.Name,
		ScientificName: r.ScientificName,
		Description:    r.Description,
		ImageURL:       r.ImageURL,
		Category:       models.Category(r.Category),
		NativeRegions:  regions,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (r *User) toModel() models.User {
	badges := make([]models.Badge, 0, len(r.Badges))
	for _, b := range r.Badges {
		badges = append(badges, models.Badge{Code: models.BadgeCode(b.Code), EarnedAt: b.EarnedAt})
	}
	return models.User{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Email:      r.Email,
		Username:   r.Username,
		Photo:      r.Photo,
		Points:     r.Points,
		Badges:     badges,
		Following:  append([]string{}, r.Following...),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r *Post) toModel() models.Post {
	p := models.Post{
		ID:        r.ID,
		ImageURL:  r.ImageURL,
		User:      models.RefTo[models.Author](r.UserID),
		Animal:    models.RefTo[models.Animal](r.AnimalID),
		Caption:   r.Caption,
		TakenAt:   r.TakenAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Likes != nil {
		p.Likes = append([]string{}, r.Likes...)
	}
	if r.Latitude != nil && r.Longitude != nil {
		p.Location = &models.Location{Lat: *r.Latitude, Lng: *r.Longitude, PlaceName: r.PlaceName}
	}
	return p
}

func (r *Comment) toModel() models.Comment {
	return models.Comment{
		ID:        r.ID,
		Content:   r.Content,
		User:      models.RefTo[models.Author](r.UserID),
		PostID:    r.PostID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *QuizQuestion) toModel() models.QuizQuestion {
	q := models.QuizQuestion{
		ID:            r.ID,
		Question:      r.Question,
		Options:       append([]string(nil), r.Options...),
		CorrectAnswer: r.CorrectAnswer,
		Difficulty:    models.Difficulty(r.Difficulty),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.AnimalID != nil {
		q.AnimalID = *r.AnimalID
	}
	return q
}
