package models

import "time"

const MaxCommentLength = 500

type Comment struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	User      Ref[Author] `json:"user"`
	PostID    string      `json:"post"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
