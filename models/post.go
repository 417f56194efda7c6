package models

import "time"

type Location struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	PlaceName string  `json:"placeName,omitempty"`
}

type Post struct {
	ID        string      `json:"id"`
	ImageURL  string      `json:"imageUrl"`
	User      Ref[Author] `json:"user"`
	Animal    Ref[Animal] `json:"animal"`
	Caption   string      `json:"caption,omitempty"`
	Likes     []string    `json:"likes"`
	Location  *Location   `json:"location,omitempty"`
	TakenAt   *time.Time  `json:"takenAt,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Geotagged reports whether the post carries both coordinates.
func (p *Post) Geotagged() bool {
	return p.Location != nil
}

// PostView is a post decorated for a particular viewer.
type PostView struct {
	Post
	LikeCount    int   `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
	IsLiked      bool  `json:"isLiked"`
}
