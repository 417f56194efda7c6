package services

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrAnimalNotFound   = errors.New("animal not found")
	ErrQuestionNotFound = errors.New("question not found")

	ErrInvalidComment  = errors.New("comment must be between 1 and 500 characters")
	ErrInvalidCategory = errors.New("unknown animal category")
	ErrInvalidLocation = errors.New("location is out of range")
	ErrInvalidUpload   = errors.New("invalid upload")

	ErrStorageUnavailable = errors.New("object storage is not configured")
)
