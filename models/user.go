package models

import "time"

type BadgeCode string

const (
	BadgeFirstPost    BadgeCode = "FIRST_POST"
	BadgePhotographer BadgeCode = "PHOTOGRAPHER"
	BadgeExpert       BadgeCode = "EXPERT"
)

type Badge struct {
	Code     BadgeCode `json:"code"`
	EarnedAt time.Time `json:"earnedAt"`
}

type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"-"`
	Email      string    `json:"email,omitempty"`
	Username   string    `json:"username"`
	Photo      string    `json:"photo,omitempty"`
	Points     int64     `json:"points"`
	Badges     []Badge   `json:"badges"`
	Following  []string  `json:"following"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) HasBadge(code BadgeCode) bool {
	for _, b := range u.Badges {
		if b.Code == code {
			return true
		}
	}
	return false
}

// Author is the public subset of a user embedded in posts and comments.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Photo    string `json:"photo,omitempty"`
}

func (u *User) Author() *Author {
	return &Author{ID: u.ID, Username: u.Username, Photo: u.Photo}
}
